package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumalink/lumalink/internal/container"
	handlers "github.com/lumalink/lumalink/internal/interface/http"
	"github.com/lumalink/lumalink/internal/interface/middleware"
)

// CheckoutModule wires the payment entry points:
// Public: POST /api/checkout/session, POST /api/webhooks/stripe
// The webhook route is deliberately not rate limited; the processor retries
// on 429 and signature verification already gates abuse.

type CheckoutModule struct {
	Handler *handlers.CheckoutHandler
}

func NewCheckoutModule(h *handlers.CheckoutHandler) *CheckoutModule {
	return &CheckoutModule{Handler: h}
}

func (m *CheckoutModule) Register(rg *gin.RouterGroup) {
	sessionLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/checkout/session", sessionLimiter, m.Handler.CreateSession)
	rg.POST("/webhooks/stripe", m.Handler.Webhook)
}
