package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/pkg/helpers"
	"github.com/lumalink/lumalink/pkg/response"
	"github.com/lumalink/lumalink/pkg/validation"
)

type AuthHandler struct {
	Accounts *application.AccountService
	Cookies  *helpers.Manager
	Logger   *logrus.Logger
}

func NewAuthHandler(accounts *application.AccountService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Cookies: cookies, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	resp, pair, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, resp, "login successful", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	pair, _, err := h.Accounts.Refresh(c.Request.Context(), token)
	if err != nil {
		h.Cookies.Clear(c)
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, nil, "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Accounts.Logout(c.Request.Context(), c.GetString("accountID"))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	a, err := h.Accounts.GetAccount(c.Request.Context(), c.GetString("accountID"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "account not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"account_id": a.ID,
		"email":      a.Email,
		"username":   a.Username,
		"is_admin":   a.IsAdmin,
		"created_at": a.CreatedAt,
	}, "ok", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Accounts.ChangePassword(c.Request.Context(), c.GetString("accountID"), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "current password is incorrect", nil)
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "password change failed", nil)
	default:
		response.Success[any](c, http.StatusOK, nil, "password changed", nil)
	}
}
