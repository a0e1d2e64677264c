package auth

import (
	accountsrepo "collector_backend/internal/accounts/repository"
	accountssvc "collector_backend/internal/accounts/service"
	apphttp "collector_backend/internal/http"
	"collector_backend/platform/config"
	"collector_backend/platform/db"
	"collector_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module is the launch verification bounded context implementing http.Module.
type Module struct {
	handler    *Handler
	middleware gin.HandlerFunc
}

// NewModule creates and initializes the auth module.
func NewModule(pool db.Querier, cfg config.SignatureConfig, log *logger.Logger) *Module {
	accounts := accountssvc.New(accountsrepo.New(pool), log)

	return &Module{
		handler:    NewHandler(),
		middleware: Middleware(cfg, accounts, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Middleware returns the signature verification middleware for the router.
func (m *Module) Middleware() gin.HandlerFunc {
	return m.middleware
}

// RegisterRoutes mounts the verification endpoint behind the middleware.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Signed.GET("/auth", m.handler.Verify)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
