package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collector_backend/internal/analytics/service"
	"collector_backend/internal/analytics/transport"
	"collector_backend/platform/httpkit"
)

const msgInvalidCollectorID = "invalid collector id"

// Handler handles HTTP requests for conversion analytics.
type Handler struct {
	svc *service.Service
}

// New creates a new analytics handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CollectorReport returns the windowed conversion summary for a collector.
// GET /api/v1/collectors/:id/analytics?period=day|week|month
func (h *Handler) CollectorReport(c *gin.Context) {
	accountID, ok := httpkit.MustGetAccountID(c)
	if !ok {
		return
	}

	collectorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCollectorID, nil)
		return
	}

	report, err := h.svc.CollectorReport(c.Request.Context(), accountID, collectorID, c.DefaultQuery("period", "day"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewReportResponse(report))
}
