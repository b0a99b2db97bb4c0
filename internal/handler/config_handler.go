package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/hotspot-portal-api/internal/service"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/response"
)

// ConfigHandler exposes the admin view of the hotspot configuration.
type ConfigHandler struct {
	hotspot *service.HotspotService
}

// NewConfigHandler constructs ConfigHandler.
func NewConfigHandler(hotspot *service.HotspotService) *ConfigHandler {
	return &ConfigHandler{hotspot: hotspot}
}

// Get godoc
// @Summary Get the hotspot configuration
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/hotspot-config [get]
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.hotspot.Config(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}

// Update godoc
// @Summary Update the hotspot configuration
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UpdateConfigRequest true "Config payload"
// @Success 200 {object} response.Envelope
// @Router /admin/hotspot-config [put]
func (h *ConfigHandler) Update(c *gin.Context) {
	var req service.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cfg, err := h.hotspot.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}
