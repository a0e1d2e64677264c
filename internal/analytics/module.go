// Package analytics provides the conversion analytics bounded context module.
package analytics

import (
	"collector_backend/internal/analytics/handler"
	"collector_backend/internal/analytics/repository"
	"collector_backend/internal/analytics/service"
	apphttp "collector_backend/internal/http"
	"collector_backend/platform/db"
	"collector_backend/platform/logger"
)

// Module is the analytics bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the analytics module.
func NewModule(pool db.Querier, collectors service.CollectorDirectory, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, collectors, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts the analytics routes behind signature verification.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Signed.GET("/collectors/:id/analytics", m.handler.CollectorReport)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
