package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/pkg/response"
	"github.com/lumalink/lumalink/pkg/validation"
)

// maxImageUpload caps profile image size at 5 MiB.
const maxImageUpload = 5 << 20

type ProfileHandler struct {
	Profiles *application.ProfileService
	Tips     *application.TipService
	Logger   *logrus.Logger
}

func NewProfileHandler(profiles *application.ProfileService, tips *application.TipService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Tips: tips, Logger: logger}
}

func (h *ProfileHandler) GetDashboard(c *gin.Context) {
	d, err := h.Profiles.GetDashboard(c.Request.Context(), c.GetString("accountID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": d.Profile, "links": d.Links}, "ok", nil)
}

type updateProfileRequest struct {
	DisplayName   *string `json:"display_name" binding:"omitempty,max=100"`
	Bio           *string `json:"bio" binding:"omitempty,max=500"`
	TipJarEnabled *bool   `json:"tip_jar_enabled"`
	TipJarMessage *string `json:"tip_jar_message" binding:"omitempty,max=200"`
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Profiles.UpdateProfile(c.Request.Context(), c.GetString("accountID"), application.UpdateProfileInput{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		TipJarEnabled: req.TipJarEnabled,
		TipJarMessage: req.TipJarMessage,
	})
	if err != nil {
		if errors.Is(err, application.ErrProfileNotFound) {
			response.Error[any](c, http.StatusNotFound, "profile not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	h.Profiles.InvalidatePublicPage(c.Request.Context(), c.GetString("accountUsername"))
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}

func (h *ProfileHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}
	if fh.Size > maxImageUpload {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "image too large", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read image", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Profiles.UploadImage(c.Request.Context(), c.GetString("accountID"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Warn("profile image upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	h.Profiles.InvalidatePublicPage(c.Request.Context(), c.GetString("accountUsername"))
	response.Success(c, http.StatusOK, gin.H{"image_url": url}, "image uploaded", nil)
}

type linkRequest struct {
	Title        string `json:"title" binding:"required,max=100"`
	URL          string `json:"url" binding:"required,url"`
	Icon         string `json:"icon" binding:"omitempty,max=50"`
	DisplayOrder int    `json:"display_order"`
}

func (h *ProfileHandler) AddLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	l, err := h.Profiles.AddLink(c.Request.Context(), c.GetString("accountID"), application.AddLinkInput{
		Title: req.Title,
		URL:   req.URL,
		Icon:  req.Icon,
	})
	if err != nil {
		if errors.Is(err, application.ErrProfileNotFound) {
			response.Error[any](c, http.StatusNotFound, "profile not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "link create failed", nil)
		return
	}
	h.Profiles.InvalidatePublicPage(c.Request.Context(), c.GetString("accountUsername"))
	response.Success(c, http.StatusCreated, l, "link created", nil)
}

func (h *ProfileHandler) UpdateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Profiles.UpdateLink(c.Request.Context(), c.GetString("accountID"), c.Param("id"), application.UpdateLinkInput{
		Title:        req.Title,
		URL:          req.URL,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "link not found", nil)
		return
	}
	h.Profiles.InvalidatePublicPage(c.Request.Context(), c.GetString("accountUsername"))
	response.Success[any](c, http.StatusOK, nil, "link updated", nil)
}

func (h *ProfileHandler) DeleteLink(c *gin.Context) {
	if err := h.Profiles.DeleteLink(c.Request.Context(), c.GetString("accountID"), c.Param("id")); err != nil {
		response.Error[any](c, http.StatusNotFound, "link not found", nil)
		return
	}
	h.Profiles.InvalidatePublicPage(c.Request.Context(), c.GetString("accountUsername"))
	response.Success[any](c, http.StatusOK, nil, "link deleted", nil)
}

func (h *ProfileHandler) GetAnalytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	a, err := h.Profiles.GetAnalytics(c.Request.Context(), c.GetString("accountID"), days)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"total_views":  a.TotalViews,
		"views_by_day": a.ViewsByDay,
		"links":        a.Links,
	}, "ok", nil)
}

// TipStats reports the owner's earnings for the current calendar month.
func (h *ProfileHandler) TipStats(c *gin.Context) {
	d, err := h.Profiles.GetDashboard(c.Request.Context(), c.GetString("accountID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}
	stats, err := h.Tips.MonthlyStats(c.Request.Context(), d.Profile.ID, time.Now().UTC())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "stats unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "ok", nil)
}

func (h *ProfileHandler) RecentTips(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	d, err := h.Profiles.GetDashboard(c.Request.Context(), c.GetString("accountID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
		return
	}
	tips, err := h.Tips.RecentTips(c.Request.Context(), d.Profile.ID, limit)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "tips unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, tips, "ok", nil)
}
