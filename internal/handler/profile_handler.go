package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/hotspot-portal-api/internal/middleware"
	"github.com/campushub/hotspot-portal-api/internal/service"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/response"
)

// ProfileHandler exposes the authenticated student's own data: profile,
// usage history and access request workflow.
type ProfileHandler struct {
	students *service.StudentService
	sessions *service.SessionService
	access   *service.AccessService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(students *service.StudentService, sessions *service.SessionService, access *service.AccessService) *ProfileHandler {
	return &ProfileHandler{students: students, sessions: sessions, access: access}
}

// Me godoc
// @Summary Get the caller's profile and usage totals
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	student, err := h.students.Get(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Sessions godoc
// @Summary List the caller's recent usage sessions
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum sessions returned"
// @Success 200 {object} response.Envelope
// @Router /me/sessions [get]
func (h *ProfileHandler) Sessions(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be an integer"))
			return
		}
		limit = parsed
	}
	sessions, err := h.sessions.Recent(c.Request.Context(), claims.StudentID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions)
}

// AccessStatus godoc
// @Summary Report the caller's latest access request status
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/access [get]
func (h *ProfileHandler) AccessStatus(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	status, err := h.access.Status(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// SubmitRequest godoc
// @Summary File a hotspot access request
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope
// @Router /me/access/request [post]
func (h *ProfileHandler) SubmitRequest(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	request, err := h.access.Submit(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}
