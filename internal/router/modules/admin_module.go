package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumalink/lumalink/internal/container"
	handlers "github.com/lumalink/lumalink/internal/interface/http"
	"github.com/lumalink/lumalink/internal/interface/middleware"
	"github.com/lumalink/lumalink/pkg/helpers"
)

// AdminModule wires the operator routes under /api/admin; all require an
// admin session.

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccountID(), nil))
	{
		admin.GET("/stats", m.Handler.Stats)
		admin.GET("/accounts", m.Handler.ListAccounts)
		admin.GET("/accounts/search", m.Handler.SearchAccounts)
		admin.PUT("/accounts/:id/status", m.Handler.SetAccountStatus)
		admin.DELETE("/accounts/:id", m.Handler.DeleteAccount)
		admin.GET("/messages", m.Handler.ListMessages)
		admin.PUT("/messages/:id/read", m.Handler.MarkMessageRead)
	}
}
