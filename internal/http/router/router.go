// Package router builds the Gin engine and wires module routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apphttp "collector_backend/internal/http"
	"collector_backend/platform/config"
	"collector_backend/platform/httpkit"
	"collector_backend/platform/logger"
)

// Options carries the router dependencies.
type Options struct {
	Config *config.Config
	Logger *logger.Logger
	// AuthMiddleware guards the signed route group. Handlers under it can
	// rely on an account ID being set on the context.
	AuthMiddleware gin.HandlerFunc
	Modules        []apphttp.Module
}

// New builds the Gin engine with platform middleware, the health endpoint
// and every module's routes.
func New(opts Options) *gin.Engine {
	if opts.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(opts.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(opts.Config))

	limiter := httpkit.NewIPRateLimiter(rate.Limit(20), 40, opts.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	signed := engine.Group("/api/v1")
	signed.Use(opts.AuthMiddleware)

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     v1,
		Signed: signed,
	}
	for _, module := range opts.Modules {
		module.RegisterRoutes(ctx)
		opts.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-Launch-Params"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return cors.New(corsCfg)
}
