package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumalink/lumalink/internal/container"
	handlers "github.com/lumalink/lumalink/internal/interface/http"
	"github.com/lumalink/lumalink/internal/interface/middleware"
	"github.com/lumalink/lumalink/pkg/helpers"
)

// ProfileModule wires the owner dashboard (all routes require a session):
// GET/PUT /api/profile, POST /api/profile/image
// POST /api/links, PUT/DELETE /api/links/:id
// GET /api/analytics, GET /api/tips, GET /api/tips/stats

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	JWT     *helpers.JWTManager
}

func NewProfileModule(h *handlers.ProfileHandler, jwt *helpers.JWTManager) *ProfileModule {
	return &ProfileModule{Handler: h, JWT: jwt}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByAccountID(), nil))
	{
		auth.GET("/profile", m.Handler.GetDashboard)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/image", m.Handler.UploadImage)

		auth.POST("/links", m.Handler.AddLink)
		auth.PUT("/links/:id", m.Handler.UpdateLink)
		auth.DELETE("/links/:id", m.Handler.DeleteLink)

		auth.GET("/analytics", m.Handler.GetAnalytics)
		auth.GET("/tips", m.Handler.RecentTips)
		auth.GET("/tips/stats", m.Handler.TipStats)
	}
}
