package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	accountssvc "collector_backend/internal/accounts/service"
	"collector_backend/platform/config"
	"collector_backend/platform/httpkit"
	"collector_backend/platform/logger"
)

// LaunchParamsHeader carries the raw launch query string on non-launch
// requests, where the browser URL no longer holds it.
const LaunchParamsHeader = "X-Launch-Params"

const bearerPrefix = "Bearer "

// launchQuery extracts the raw launch query string from the request. The
// mini-app clients send the full launch URL as a bearer token; older ones
// use the X-Launch-Params header, and the launch request itself still has
// the params in its own query string.
func launchQuery(c *gin.Context) string {
	if authz := c.GetHeader("Authorization"); strings.HasPrefix(authz, bearerPrefix) {
		raw := strings.TrimPrefix(authz, bearerPrefix)
		if idx := strings.IndexByte(raw, '?'); idx >= 0 {
			raw = raw[idx+1:]
		}
		return raw
	}
	if raw := c.GetHeader(LaunchParamsHeader); raw != "" {
		return raw
	}
	return c.Request.URL.RawQuery
}

// Middleware verifies the launch signature and resolves the owning account.
// Verified requests carry the account ID and owner id on the Gin context;
// everything else is rejected with 401 before reaching a handler.
func Middleware(cfg config.SignatureConfig, accounts *accountssvc.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawQuery := launchQuery(c)

		launch, ok := VerifySignature(rawQuery, cfg.GetSignatureSecret())
		if !ok {
			log.AuthEvent("signature_check", "", false, "invalid or missing signature")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid launch signature"})
			return
		}

		account, err := accounts.ResolveOrCreate(c.Request.Context(), launch.OwnerID())
		if err != nil {
			log.AuthEvent("account_resolve", launch.OwnerID(), false, err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(httpkit.ContextAccountIDKey, account.ID)
		c.Set(httpkit.ContextAccountVKIDKey, account.VKID)
		c.Next()
	}
}
