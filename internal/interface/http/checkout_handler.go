package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
	"github.com/lumalink/lumalink/pkg/response"
	"github.com/lumalink/lumalink/pkg/validation"
)

// maxWebhookBody caps the raw payload read for signature verification.
const maxWebhookBody = 1 << 16

type CheckoutHandler struct {
	Checkout     *application.CheckoutService
	Provisioning *application.ProvisioningService
	Tips         *application.TipService
	Gateway      gateway.PaymentGateway
	Logger       *logrus.Logger
}

func NewCheckoutHandler(checkout *application.CheckoutService, provisioning *application.ProvisioningService, tips *application.TipService, gw gateway.PaymentGateway, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout, Provisioning: provisioning, Tips: tips, Gateway: gw, Logger: logger}
}

type createSessionRequest struct {
	Purpose   string `json:"purpose" binding:"required,oneof=signup tip"`
	Email     string `json:"email" binding:"omitempty,email"`
	Username  string `json:"username"`
	ProfileID string `json:"profile_id"`
	Amount    int64  `json:"amount"`
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ctx := c.Request.Context()
	var (
		sess *gateway.CheckoutSession
		err  error
	)
	switch req.Purpose {
	case gateway.PurposeSignup:
		if req.Email == "" || req.Username == "" {
			response.Error[any](c, http.StatusBadRequest, "email and username are required for signup", nil)
			return
		}
		sess, err = h.Checkout.StartSignup(ctx, req.Email, req.Username)
	case gateway.PurposeTip:
		if req.ProfileID == "" {
			response.Error[any](c, http.StatusBadRequest, "profile_id is required for a tip", nil)
			return
		}
		sess, err = h.Checkout.StartTip(ctx, req.ProfileID, req.Amount, req.Email)
	}
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"session_id":   sess.ID,
		"redirect_url": sess.RedirectURL,
	}, "checkout session created", nil)
}

func (h *CheckoutHandler) writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "username already taken", nil)
	case errors.Is(err, gateway.ErrInvalidAmount):
		response.Error[any](c, http.StatusBadRequest, "tip amount outside allowed bounds", nil)
	case errors.Is(err, application.ErrTipJarDisabled):
		response.Error[any](c, http.StatusBadRequest, "tip jar is not enabled for this profile", nil)
	case errors.Is(err, repository.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
	case errors.Is(err, gateway.ErrGatewayUnavailable):
		response.Error[any](c, http.StatusBadGateway, "payment gateway unavailable", nil)
	default:
		// username validation messages are safe to show
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	}
}

// Webhook receives payment processor notifications. The body is read raw and
// unmodified; signature verification happens before any parsing. A
// signature-valid event is always acked with 200, even when provisioning
// rejects it, so the processor does not retry forever; rejections are logged
// by the engines for operator follow-up.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read payload", nil)
		return
	}

	ev, err := h.Gateway.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Logger.WithError(err).Warn("webhook rejected")
		response.Error[any](c, http.StatusBadRequest, "invalid signature", nil)
		return
	}

	if ev.Type != gateway.EventCheckoutCompleted {
		response.Success[any](c, http.StatusOK, gin.H{"received": true}, "event ignored", nil)
		return
	}

	ctx := c.Request.Context()
	var outcome application.Outcome
	switch ev.Metadata["purpose"] {
	case gateway.PurposeSignup:
		outcome, err = h.Provisioning.HandleCheckoutCompleted(ctx, ev)
	case gateway.PurposeTip:
		outcome, err = h.Tips.HandleCheckoutCompleted(ctx, ev)
	default:
		h.Logger.WithField("session", ev.SessionRef).Warn("completed session without a known purpose")
		outcome = application.OutcomeRejected
	}
	if err != nil {
		// transient failure after a verified payment: ack anyway and leave a
		// durable trace for reconciliation
		h.Logger.WithError(err).WithField("session", ev.SessionRef).Error("webhook processing failed after verification")
	}

	response.Success[any](c, http.StatusOK, gin.H{"received": true, "outcome": outcome}, "event processed", nil)
}
