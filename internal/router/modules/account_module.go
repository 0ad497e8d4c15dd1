package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumalink/lumalink/internal/container"
	handlers "github.com/lumalink/lumalink/internal/interface/http"
	"github.com/lumalink/lumalink/internal/interface/middleware"
	"github.com/lumalink/lumalink/pkg/helpers"
)

// AccountModule wires authentication routes.
// Public: POST /api/login, POST /api/refresh
// Protected: POST /api/logout, GET /api/me, PUT /api/password

type AccountModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccountID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/password", m.Handler.ChangePassword)
	}
}
