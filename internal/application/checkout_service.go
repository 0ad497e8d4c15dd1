package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
	"github.com/lumalink/lumalink/pkg/validation"
)

var (
	ErrUsernameTaken  = errors.New("username already taken")
	ErrTipJarDisabled = errors.New("tip jar is not enabled for this profile")
)

// CheckoutService starts hosted checkout sessions. All account/tip state
// changes happen later, on the webhook; this only validates inputs and calls
// out to the gateway.
type CheckoutService struct {
	Gateway  gateway.PaymentGateway
	Accounts repo.AccountRepository
	Profiles repo.ProfileRepository
	Logger   *logrus.Logger
}

func NewCheckoutService(gw gateway.PaymentGateway, accounts repo.AccountRepository, profiles repo.ProfileRepository, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{Gateway: gw, Accounts: accounts, Profiles: profiles, Logger: logger}
}

// StartSignup validates the requested username and opens a fixed-price
// checkout session carrying username and email in signed metadata.
func (s *CheckoutService) StartSignup(ctx context.Context, email, username string) (*gateway.CheckoutSession, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if _, err := s.Accounts.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	return s.Gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		Purpose: gateway.PurposeSignup,
		Email:   email,
		Metadata: map[string]string{
			"username": username,
			"email":    email,
		},
	})
}

// StartTip opens a variable-amount checkout session for a profile's tip jar.
// Amount bounds are enforced by the gateway adapter.
func (s *CheckoutService) StartTip(ctx context.Context, profileID string, amount int64, tipperEmail string) (*gateway.CheckoutSession, error) {
	profile, err := s.Profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive || !profile.TipJarEnabled {
		return nil, ErrTipJarDisabled
	}

	return s.Gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		Purpose: gateway.PurposeTip,
		Amount:  amount,
		Email:   tipperEmail,
		Metadata: map[string]string{
			"profile_id": profile.ID,
		},
	})
}
