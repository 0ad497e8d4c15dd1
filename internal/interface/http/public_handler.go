package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/pkg/response"
	"github.com/lumalink/lumalink/pkg/validation"
)

type PublicHandler struct {
	Profiles *application.ProfileService
	Tips     *application.TipService
	Admin    *application.AdminService
	Logger   *logrus.Logger
}

func NewPublicHandler(profiles *application.ProfileService, tips *application.TipService, admin *application.AdminService, logger *logrus.Logger) *PublicHandler {
	return &PublicHandler{Profiles: profiles, Tips: tips, Admin: admin, Logger: logger}
}

// ProfilePage serves the public link-in-bio page for a username.
func (h *PublicHandler) ProfilePage(c *gin.Context) {
	pp, links, err := h.Profiles.PublicPage(c.Request.Context(), c.Param("username"), c.GetString("real_ip"), c.Request.UserAgent())
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"username":        pp.Username,
		"display_name":    pp.DisplayName,
		"bio":             pp.Bio,
		"image_url":       pp.ImageURL,
		"tip_jar_enabled": pp.TipJarEnabled,
		"tip_jar_message": pp.TipJarMessage,
		"profile_id":      pp.ID,
		"links":           links,
	}, "ok", nil)
}

func (h *PublicHandler) TrackClick(c *gin.Context) {
	if err := h.Profiles.TrackClick(c.Request.Context(), c.Param("id")); err != nil {
		response.Error[any](c, http.StatusNotFound, "link not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "ok", nil)
}

// TipStats exposes a profile's current-month tip totals. The payload only
// carries aggregates, never individual tipper details.
func (h *PublicHandler) TipStats(c *gin.Context) {
	stats, err := h.Tips.MonthlyStats(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "stats unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_amount": stats.TotalAmount,
		"tip_count":    stats.TipCount,
	}, "ok", nil)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"omitempty,max=150"`
	Message string `json:"message" binding:"required,max=2000"`
}

func (h *PublicHandler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if _, err := h.Admin.SubmitMessage(c.Request.Context(), req.Name, req.Email, req.Subject, req.Message); err != nil {
		h.Logger.WithError(err).Warn("contact message insert failed")
		response.Error[any](c, http.StatusInternalServerError, "could not submit message", nil)
		return
	}
	response.Success[any](c, http.StatusCreated, nil, "message received", nil)
}

func (h *PublicHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
