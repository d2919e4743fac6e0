// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"leadradar_backend/platform/config"
	"leadradar_backend/platform/logger"
	"leadradar_backend/platform/metrics"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and JWT settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health lists the collaborators /api/health requires, by name. A failing
	// check turns the response into 503.
	Health map[string]HealthChecker
	// OptionalHealth is reported by /api/health without affecting its status.
	// Use it for collaborators the API degrades around, such as the cache.
	OptionalHealth map[string]HealthChecker
	// Metrics is served on /metrics. Nil disables the endpoint.
	Metrics *metrics.Metrics
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
