package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/hotspot-portal-api/internal/middleware"
	"github.com/campushub/hotspot-portal-api/internal/service"
	appErrors "github.com/campushub/hotspot-portal-api/pkg/errors"
	"github.com/campushub/hotspot-portal-api/pkg/response"
)

// HotspotHandler exposes the connect flow for students with approved
// access: instructions, the WiFi QR code and the session-opening
// connect call.
type HotspotHandler struct {
	hotspot  *service.HotspotService
	students *service.StudentService
	sessions *service.SessionService
}

// NewHotspotHandler constructs HotspotHandler.
func NewHotspotHandler(hotspot *service.HotspotService, students *service.StudentService, sessions *service.SessionService) *HotspotHandler {
	return &HotspotHandler{hotspot: hotspot, students: students, sessions: sessions}
}

// Instructions godoc
// @Summary Get connection instructions for the school hotspot
// @Tags Hotspot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hotspot/instructions [get]
func (h *HotspotHandler) Instructions(c *gin.Context) {
	if !h.requireAccess(c) {
		return
	}
	instructions, err := h.hotspot.Instructions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructions)
}

// QRCode godoc
// @Summary Render the WiFi provisioning QR code
// @Tags Hotspot
// @Produce png
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /hotspot/qrcode [get]
func (h *HotspotHandler) QRCode(c *gin.Context) {
	if !h.requireAccess(c) {
		return
	}
	png, err := h.hotspot.QRCode(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Connect godoc
// @Summary Open (or reattach to) a usage session on the hotspot portal
// @Tags Hotspot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /hotspot/connect [post]
func (h *HotspotHandler) Connect(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if !h.requireAccess(c) {
		return
	}
	session, reused, err := h.sessions.Start(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"session": session, "reused": reused})
}

// requireAccess loads the caller's current record and refuses students
// whose hotspot access has not been approved. The flag is re-read from
// storage rather than trusted from the token, so revocations and fresh
// grants take effect immediately.
func (h *HotspotHandler) requireAccess(c *gin.Context) bool {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return false
	}
	student, err := h.students.Get(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !student.HotspotAccess {
		response.Error(c, appErrors.ErrAccessRequired)
		return false
	}
	return true
}
