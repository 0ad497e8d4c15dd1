package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/pkg/response"
	"github.com/lumalink/lumalink/pkg/validation"
)

type AdminHandler struct {
	Admin  *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(admin *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: admin, Logger: logger}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Admin.Stats(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.Logger.WithError(err).Error("platform stats failed")
		response.Error[any](c, http.StatusInternalServerError, "stats unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "ok", nil)
}

func (h *AdminHandler) ListAccounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	accounts, total, err := h.Admin.ListAccounts(c.Request.Context(), page, limit)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "listing failed", nil)
		return
	}
	response.Success(c, http.StatusOK, accounts, "ok", gin.H{"page": page, "limit": limit, "total": total})
}

func (h *AdminHandler) SearchAccounts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Admin.SearchAccounts(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("account search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "ok", nil)
}

type accountStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetAccountStatus(c *gin.Context) {
	var req accountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Admin.SetAccountActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		response.Error[any](c, http.StatusNotFound, "account not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "status updated", nil)
}

func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	if err := h.Admin.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error[any](c, http.StatusNotFound, "account not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}

func (h *AdminHandler) ListMessages(c *gin.Context) {
	msgs, err := h.Admin.ListMessages(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "listing failed", nil)
		return
	}
	response.Success(c, http.StatusOK, msgs, "ok", nil)
}

func (h *AdminHandler) MarkMessageRead(c *gin.Context) {
	if err := h.Admin.MarkMessageRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error[any](c, http.StatusNotFound, "message not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "marked read", nil)
}
