package repository

import (
	"context"
	"time"

	"leadradar_backend/internal/ranking"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to leads and their stored analyses.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (Lead, error)
	// ListRecentPool returns at most limit leads created at or after since,
	// newest first.
	ListRecentPool(ctx context.Context, since time.Time, limit int) ([]Lead, error)
}

// PreferenceReader provides a user's lead preferences and action log.
type PreferenceReader interface {
	// GetUserProfile returns nil without error when the user never saved preferences.
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*ranking.UserProfile, error)
	ListUserActions(ctx context.Context, userID uuid.UUID) ([]ranking.Action, error)
}

// ScoreWriter walks the lead table and persists recomputed scores.
type ScoreWriter interface {
	ListLeadsForRescore(ctx context.Context, params RescorePageParams) ([]Lead, error)
	UpdateLeadScore(ctx context.Context, id uuid.UUID, update ScoreUpdate) error
}

// LeadsRepository is the full persistence surface of the leads module.
type LeadsRepository interface {
	LeadReader
	PreferenceReader
	ScoreWriter
}

var _ LeadsRepository = (*Repository)(nil)
