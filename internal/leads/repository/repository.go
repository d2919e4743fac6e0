package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadradar_backend/internal/ranking"
	"leadradar_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const leadColumns = `id, business_name, website_url, city, category, analysis, score, quality, score_version, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is a stored lead row. Analysis is the raw JSONB document.
type Lead struct {
	ID           uuid.UUID
	BusinessName string
	WebsiteURL   string
	City         string
	Category     string
	Analysis     []byte
	Score        int
	Quality      string
	ScoreVersion *string
	CreatedAt    time.Time
}

// RescoreCursor is the (created_at, id) position of the last processed lead.
type RescoreCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type RescorePageParams struct {
	// After is nil for the first page.
	After *RescoreCursor
	Limit int
	// Version skips leads already scored with it unless Force is set.
	Version string
	Force   bool
}

type ScoreUpdate struct {
	Score    int
	Quality  string
	Version  string
	ScoredAt time.Time
}

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID,
		&l.BusinessName,
		&l.WebsiteURL,
		&l.City,
		&l.Category,
		&l.Analysis,
		&l.Score,
		&l.Quality,
		&l.ScoreVersion,
		&l.CreatedAt,
	)
	return l, err
}

func collectLeads(rows pgx.Rows, capacity int) ([]Lead, error) {
	defer rows.Close()

	items := make([]Lead, 0, capacity)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) GetLead(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (r *Repository) ListRecentPool(ctx context.Context, since time.Time, limit int) ([]Lead, error) {
	if limit <= 0 {
		return []Lead{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE created_at >= $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list lead pool: %w", err)
	}

	items, err := collectLeads(rows, limit)
	if err != nil {
		return nil, fmt.Errorf("scan lead pool: %w", err)
	}
	return items, nil
}

func (r *Repository) GetUserProfile(ctx context.Context, userID uuid.UUID) (*ranking.UserProfile, error) {
	p := ranking.UserProfile{UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT preferred_industries, excluded_industries, preferred_cities, preferred_regions,
			remote_only, search_radius_km, weekly_capacity, in_progress_projects,
			service_offerings, budget_min, budget_max
		FROM user_lead_preferences
		WHERE user_id = $1
	`, userID).Scan(
		&p.PreferredIndustries,
		&p.ExcludedIndustries,
		&p.PreferredCities,
		&p.PreferredRegions,
		&p.RemoteOnly,
		&p.SearchRadiusKm,
		&p.WeeklyCapacity,
		&p.InProgressProjects,
		&p.ServiceOfferings,
		&p.BudgetMin,
		&p.BudgetMax,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &p, nil
}

// ListUserActions returns the user's action log joined with the lead's
// category and city, oldest first.
func (r *Repository) ListUserActions(ctx context.Context, userID uuid.UUID) ([]ranking.Action, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.lead_id, a.action_type, l.category, l.city, a.created_at
		FROM user_lead_actions a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.user_id = $1
		ORDER BY a.created_at ASC, a.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user actions: %w", err)
	}
	defer rows.Close()

	items := make([]ranking.Action, 0)
	for rows.Next() {
		var (
			a          ranking.Action
			actionType string
		)
		if err := rows.Scan(&a.LeadID, &actionType, &a.Category, &a.City, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user action: %w", err)
		}
		a.Type = ranking.ActionType(actionType)
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan user actions: %w", err)
	}
	return items, nil
}

// ListLeadsForRescore pages through leads in (created_at, id) order.
func (r *Repository) ListLeadsForRescore(ctx context.Context, params RescorePageParams) ([]Lead, error) {
	var (
		afterAt *time.Time
		afterID *uuid.UUID
	)
	if params.After != nil {
		afterAt = &params.After.CreatedAt
		afterID = &params.After.ID
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE ($1::timestamptz IS NULL OR (created_at, id) > ($1::timestamptz, $2::uuid))
			AND ($3::boolean OR score_version IS DISTINCT FROM $4)
		ORDER BY created_at ASC, id ASC
		LIMIT $5
	`, afterAt, afterID, params.Force, params.Version, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list leads for rescore: %w", err)
	}

	items, err := collectLeads(rows, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("scan leads for rescore: %w", err)
	}
	return items, nil
}

func (r *Repository) UpdateLeadScore(ctx context.Context, id uuid.UUID, update ScoreUpdate) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET score = $2, quality = $3, score_version = $4, scored_at = $5, updated_at = now()
		WHERE id = $1
	`, id, update.Score, update.Quality, update.Version, update.ScoredAt)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}
