package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"collector_backend/internal/attribution/service"
	"collector_backend/internal/attribution/transport"
	"collector_backend/platform/httpkit"
	"collector_backend/platform/validator"
)

const (
	msgInvalidRequest     = "invalid request"
	msgValidationFailed   = "validation failed"
	msgInvalidCollectorID = "invalid collector id"
)

// Handler handles HTTP requests for the attribution ledger.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new attribution handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RecordVisit registers a funnel visit for a collector.
// POST /api/v1/collectors/:id/visits
func (h *Handler) RecordVisit(c *gin.Context) {
	collectorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCollectorID, nil)
		return
	}

	var req transport.RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.RecordVisit(c.Request.Context(), collectorID, req.VKID, req.FullName)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.VisitResponse{
		Lead:           transport.NewLeadResponse(result.Lead),
		Record:         transport.NewRecordResponse(result.Record),
		AlreadyVisited: result.AlreadyVisited,
	}
	if result.AlreadyVisited {
		httpkit.OK(c, resp)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

// RecordSubmission registers a form submission for a collector.
// POST /api/v1/collectors/:id/submissions
func (h *Handler) RecordSubmission(c *gin.Context) {
	collectorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCollectorID, nil)
		return
	}

	var req transport.RecordSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	record, err := h.svc.RecordSubmission(c.Request.Context(), collectorID, req.VKID, req.Phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewRecordResponse(record))
}
