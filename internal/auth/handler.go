package auth

import (
	"github.com/gin-gonic/gin"

	"collector_backend/platform/httpkit"
)

// AuthResponse confirms a verified launch and identifies the account.
type AuthResponse struct {
	AccountID int64  `json:"account_id"`
	VKID      string `json:"vk_id"`
}

// Handler handles the launch verification endpoint.
type Handler struct{}

// NewHandler creates a new auth handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Verify confirms the launch signature and returns the resolved account.
// The middleware has already done the work; reaching the handler means
// the request is verified.
// GET /api/v1/auth
func (h *Handler) Verify(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}
	vkID := c.GetString(httpkit.ContextAccountVKIDKey)

	httpkit.OK(c, AuthResponse{AccountID: accountID, VKID: vkID})
}
