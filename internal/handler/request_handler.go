package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/hotspot-portal-api/internal/middleware"
	"github.com/campushub/hotspot-portal-api/internal/service"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/response"
)

// RequestHandler exposes the admin triage queue for access requests.
type RequestHandler struct {
	access  *service.AccessService
	metrics *service.MetricsService
}

// NewRequestHandler constructs RequestHandler.
func NewRequestHandler(access *service.AccessService, metrics *service.MetricsService) *RequestHandler {
	return &RequestHandler{access: access, metrics: metrics}
}

// ListPending godoc
// @Summary List pending hotspot access requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/requests [get]
func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.access.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// Approve godoc
// @Summary Approve a pending request and grant hotspot access
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /admin/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.access.Approve(c.Request.Context(), c.Param("id"), claims.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveRequestDecided("approved")
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "approved"})
}

// Reject godoc
// @Summary Reject a pending request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /admin/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *gin.Context) {
	if err := h.access.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveRequestDecided("rejected")
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "rejected"})
}
