package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collector_backend/internal/collectors/service"
	"collector_backend/internal/collectors/transport"
	"collector_backend/platform/httpkit"
	"collector_backend/platform/validator"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgInvalidCollectorID = "invalid collector id"
)

// Handler handles HTTP requests for the collector directory.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new collectors handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create registers a new collector for the authenticated account.
// POST /api/v1/collectors
func (h *Handler) Create(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}

	var req transport.CreateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	collector, err := h.svc.Create(c.Request.Context(), accountID, req.ToCreateInput())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.NewCollectorResponse(collector))
}

// List returns all collectors owned by the authenticated account.
// GET /api/v1/collectors
func (h *Handler) List(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}

	collectors, err := h.svc.List(c.Request.Context(), accountID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewCollectorListResponse(collectors))
}

// Get returns one collector owned by the authenticated account.
// GET /api/v1/collectors/:id
func (h *Handler) Get(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	collector, err := h.svc.Get(c.Request.Context(), accountID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewCollectorResponse(collector))
}

// Update modifies a collector owned by the authenticated account. Absent
// fields keep their stored value.
// PUT /api/v1/collectors/:id
func (h *Handler) Update(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	collector, err := h.svc.Update(c.Request.Context(), accountID, id, req.ToUpdateInput())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewCollectorResponse(collector))
}

// Delete removes a collector owned by the authenticated account.
// DELETE /api/v1/collectors/:id
func (h *Handler) Delete(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.svc.Delete(c.Request.Context(), accountID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLeads returns the collector's attributed leads with funnel state.
// GET /api/v1/collectors/:id/leads?search=
func (h *Handler) ListLeads(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	leads, err := h.svc.ListLeads(c.Request.Context(), accountID, id, c.Query("search"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewCollectorLeadListResponse(leads))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCollectorID, nil)
		return 0, false
	}
	return id, true
}
