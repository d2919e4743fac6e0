package transport

import (
	"time"

	"leadradar_backend/internal/ranking"
)

// Request DTOs

type PreviewRequest struct {
	Analysis map[string]any `json:"analysis" validate:"required"`
}

type RescoreRequest struct {
	BatchSize int  `json:"batchSize,omitempty" validate:"omitempty,min=1,max=1000"`
	Force     bool `json:"force,omitempty"`
}

// Response DTOs

type ForYouResponse struct {
	Sections           ranking.Sections `json:"sections"`
	ProfileComplete    bool             `json:"profileComplete"`
	TotalLeadsAnalyzed int              `json:"totalLeadsAnalyzed"`
	CalculatedAt       time.Time        `json:"calculatedAt"`
	CapacityRemaining  int              `json:"capacityRemaining"`
}

type RescoreResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}
