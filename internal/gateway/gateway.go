package gateway

import (
	"context"
	"errors"
)

// Checkout purposes carried in session metadata. The webhook handler uses the
// purpose to route a completed session to the right engine.
const (
	PurposeSignup = "signup"
	PurposeTip    = "tip"
)

// EventCheckoutCompleted is the only event type the engines act on.
const EventCheckoutCompleted = "checkout.session.completed"

var (
	// ErrSignatureInvalid means the webhook payload failed signature
	// verification and must be rejected before any parsing or side effect.
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	// ErrGatewayUnavailable means the outbound call to the payment processor
	// failed; the client may retry session creation.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrInvalidAmount means a tip amount outside the configured bounds.
	ErrInvalidAmount = errors.New("amount outside allowed bounds")
)

// CheckoutParams describes a hosted checkout session to create. Amount is in
// minor currency units and only consulted for tips; signups use the fixed
// configured price. Metadata is signed into the session and echoed back on the
// completion event, so values set here cannot be forged post-hoc.
type CheckoutParams struct {
	Purpose  string
	Amount   int64
	Email    string
	Metadata map[string]string
}

// CheckoutSession is the opaque result of session creation.
type CheckoutSession struct {
	ID          string
	RedirectURL string
}

// Event is a verified webhook notification. SessionRef is the idempotency key
// for everything downstream.
type Event struct {
	Type          string
	SessionRef    string
	CustomerRef   string
	PaymentRef    string
	AmountTotal   int64
	CustomerEmail string
	Metadata      map[string]string
}

// PaymentGateway is the boundary to the external payment processor. It holds
// no state; implementations are safe for concurrent use.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error)
	VerifyEvent(payload []byte, sigHeader string) (*Event, error)
}
