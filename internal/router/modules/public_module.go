package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumalink/lumalink/internal/container"
	handlers "github.com/lumalink/lumalink/internal/interface/http"
	"github.com/lumalink/lumalink/internal/interface/middleware"
)

// PublicModule wires the unauthenticated surface:
// GET /api/u/:username, POST /api/links/:id/click
// GET /api/profiles/:id/tips/stats, POST /api/contact, GET /api/health

type PublicModule struct {
	Handler *handlers.PublicHandler
}

func NewPublicModule(h *handlers.PublicHandler) *PublicModule {
	return &PublicModule{Handler: h}
}

func (m *PublicModule) Register(rg *gin.RouterGroup) {
	pageLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)
	contactLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/health", m.Handler.Health)
	rg.GET("/u/:username", pageLimiter, m.Handler.ProfilePage)
	rg.POST("/links/:id/click", pageLimiter, m.Handler.TrackClick)
	rg.GET("/profiles/:id/tips/stats", pageLimiter, m.Handler.TipStats)
	rg.POST("/contact", contactLimiter, m.Handler.Contact)
}
