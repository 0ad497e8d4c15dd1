package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig carries the pricing rules the adapter enforces at session
// creation time. Amounts are minor currency units.
type StripeConfig struct {
	SecretKey        string
	WebhookSecret    string
	Currency         string
	SignupPriceCents int64
	TipMinCents      int64
	TipMaxCents      int64
	SuccessURL       string
	CancelURL        string
}

// StripeGateway implements PaymentGateway against Stripe hosted checkout.
// It wraps an explicitly constructed API client; the package-level stripe key
// is never set.
type StripeGateway struct {
	api *client.API
	cfg StripeConfig
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{api: api, cfg: cfg}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	var amount int64
	var name, description string
	switch p.Purpose {
	case PurposeSignup:
		amount = g.cfg.SignupPriceCents
		name = "Profile"
		description = "One-time payment for lifetime access to your link-in-bio profile"
	case PurposeTip:
		if p.Amount < g.cfg.TipMinCents || p.Amount > g.cfg.TipMaxCents {
			return nil, ErrInvalidAmount
		}
		amount = p.Amount
		name = "Tip"
		description = "One-off tip for a creator"
	default:
		return nil, fmt.Errorf("unknown checkout purpose %q", p.Purpose)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(g.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(name),
					Description: stripe.String(description),
				},
				UnitAmount: stripe.Int64(amount),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
	}
	params.Context = ctx
	if p.Email != "" {
		params.CustomerEmail = stripe.String(p.Email)
	}
	params.AddMetadata("purpose", p.Purpose)
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return &CheckoutSession{ID: s.ID, RedirectURL: s.URL}, nil
}

// VerifyEvent checks the signature over the exact raw bytes before any JSON
// decoding. webhook.ConstructEvent uses a constant-time HMAC comparison.
func (g *StripeGateway) VerifyEvent(payload []byte, sigHeader string) (*Event, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, g.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	out := &Event{Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	out.SessionRef = s.ID
	out.AmountTotal = s.AmountTotal
	out.Metadata = s.Metadata
	if s.Customer != nil {
		out.CustomerRef = s.Customer.ID
	}
	if s.PaymentIntent != nil {
		out.PaymentRef = s.PaymentIntent.ID
	}
	if s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	} else if s.CustomerEmail != "" {
		out.CustomerEmail = s.CustomerEmail
	}
	return out, nil
}

var _ PaymentGateway = (*StripeGateway)(nil)
