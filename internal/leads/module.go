// Package leads provides the lead scoring and ranking bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	apphttp "leadradar_backend/internal/http"
	"leadradar_backend/internal/leads/handler"
	"leadradar_backend/internal/leads/repository"
	"leadradar_backend/internal/leads/service"
	"leadradar_backend/platform/config"
	"leadradar_backend/platform/logger"
	"leadradar_backend/platform/metrics"
	"leadradar_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg config.RankingConfig, m *metrics.Metrics, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, m, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for wiring collaborators and jobs.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
	m.handler.RegisterScoringRoutes(ctx.Protected.Group("/scoring"))
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
