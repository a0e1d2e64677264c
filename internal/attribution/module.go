// Package attribution provides the attribution ledger bounded context module.
package attribution

import (
	"collector_backend/internal/attribution/handler"
	"collector_backend/internal/attribution/repository"
	"collector_backend/internal/attribution/service"
	"collector_backend/internal/events"
	apphttp "collector_backend/internal/http"
	leadsrepo "collector_backend/internal/leads/repository"
	leadssvc "collector_backend/internal/leads/service"
	"collector_backend/platform/db"
	"collector_backend/platform/logger"
	"collector_backend/platform/validator"
)

// Module is the attribution ledger bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the attribution module.
func NewModule(
	pool db.Querier,
	leadRegistry *leadssvc.Service,
	collectors service.CollectorDirectory,
	profiles service.ProfileLookup,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(
		pool,
		func(q db.Querier) repository.Repository { return repository.New(q) },
		func(q db.Querier) leadsrepo.Repository { return leadsrepo.New(q) },
		leadRegistry,
		collectors,
		profiles,
		bus,
		log,
	)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "attribution"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the ledger routes. Visit and submission events are
// fired from the mini-app itself and carry no launch signature.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/collectors/:id/visits", m.handler.RecordVisit)
	ctx.V1.POST("/collectors/:id/submissions", m.handler.RecordSubmission)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
