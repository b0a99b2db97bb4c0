package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/hotspot-portal-api/internal/middleware"
	"github.com/campushub/hotspot-portal-api/internal/models"
	"github.com/campushub/hotspot-portal-api/internal/service"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/response"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics}
}

// Login godoc
// @Summary Authenticate a student and open a usage session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Logout godoc
// @Summary Close the caller's usage session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.auth.Logout(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Closed && h.metrics != nil {
		h.metrics.ObserveSessionClosed(result.Minutes)
	}
	response.JSON(c, http.StatusOK, result)
}
