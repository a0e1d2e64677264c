// Package collectors provides the collector directory bounded context module.
package collectors

import (
	"collector_backend/internal/collectors/handler"
	"collector_backend/internal/collectors/repository"
	"collector_backend/internal/collectors/service"
	apphttp "collector_backend/internal/http"
	"collector_backend/platform/db"
	"collector_backend/platform/logger"
	"collector_backend/platform/validator"
)

// Module is the collector directory bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the collectors module.
func NewModule(pool db.Querier, profiles service.ProfileLookup, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, profiles, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "collectors"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for modules that share collector reads.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the directory routes behind signature verification.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Signed.Group("/collectors")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.GET("/:id/leads", m.handler.ListLeads)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
