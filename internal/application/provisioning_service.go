package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
	"github.com/lumalink/lumalink/pkg/helpers"
	"github.com/lumalink/lumalink/pkg/mailer"
	"github.com/lumalink/lumalink/pkg/validation"
)

// Outcome classifies how a verified checkout-completed event was handled.
// None of these are transport errors: the webhook is acked regardless, and
// Rejected cases are logged for manual reconciliation since the customer
// already paid.
type Outcome string

const (
	OutcomeProvisioned        Outcome = "provisioned"
	OutcomeAlreadyProvisioned Outcome = "already_provisioned"
	OutcomeRejected           Outcome = "rejected"
)

// EmailPublisher queues an email job; satisfied by helpers.RabbitPublisher.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ProvisioningService turns verified signup checkout events into exactly one
// account+profile pair per session reference.
type ProvisioningService struct {
	Accounts        repo.AccountRepository
	Logger          *logrus.Logger
	Emails          EmailPublisher
	ES              *elasticsearch.Client
	ESAccountsIndex string
	LoginURL        string
}

func NewProvisioningService(accounts repo.AccountRepository, logger *logrus.Logger, emails EmailPublisher, es *elasticsearch.Client, esIndex, loginURL string) *ProvisioningService {
	return &ProvisioningService{
		Accounts:        accounts,
		Logger:          logger,
		Emails:          emails,
		ES:              es,
		ESAccountsIndex: esIndex,
		LoginURL:        loginURL,
	}
}

// HandleCheckoutCompleted provisions an account for a signature-verified
// signup event. Idempotent on the session reference: the unique constraint in
// storage is authoritative, the upfront lookup is only a fast path for the
// common retry case.
func (s *ProvisioningService) HandleCheckoutCompleted(ctx context.Context, ev *gateway.Event) (Outcome, error) {
	username := ev.Metadata["username"]
	email := ev.Metadata["email"]
	fields := logrus.Fields{"session": ev.SessionRef, "username": username, "email": email}

	if ev.SessionRef == "" || username == "" || email == "" {
		s.Logger.WithFields(fields).Error("signup event missing metadata, cannot provision paid account")
		return OutcomeRejected, nil
	}

	if _, err := s.Accounts.GetBySessionRef(ctx, ev.SessionRef); err == nil {
		return OutcomeAlreadyProvisioned, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	if err := validation.ValidateUsername(username); err != nil {
		s.Logger.WithFields(fields).WithError(err).
			Error("paid signup rejected: invalid username, needs manual reconciliation")
		return OutcomeRejected, nil
	}

	tempPassword, err := helpers.GenerateTempPassword(16)
	if err != nil {
		return "", err
	}
	hash, err := helpers.HashPassword(tempPassword)
	if err != nil {
		return "", err
	}

	account := &entity.Account{
		Email:            email,
		Username:         username,
		PasswordHash:     hash,
		StripeCustomerID: ev.CustomerRef,
		StripeSessionID:  ev.SessionRef,
	}
	profile := &entity.Profile{
		DisplayName: username, // default until the owner edits it
		IsActive:    true,
	}

	if err := s.Accounts.CreateWithProfile(ctx, account, profile); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateSession):
			// concurrent webhook delivery lost the insert race; not an error
			return OutcomeAlreadyProvisioned, nil
		case errors.Is(err, repo.ErrUsernameTaken), errors.Is(err, repo.ErrEmailTaken):
			s.Logger.WithFields(fields).WithError(err).
				Error("paid signup rejected: conflict after payment, flag for manual refund")
			return OutcomeRejected, nil
		}
		return "", err
	}

	s.Logger.WithFields(fields).WithField("account_id", account.ID).Info("account provisioned")

	// Surface the one-time credential out-of-band; the plaintext is not kept.
	if s.Emails != nil {
		job := mailer.EmailJob{
			To:       email,
			Template: mailer.TemplateWelcome,
			Data: map[string]any{
				"Username":     username,
				"TempPassword": tempPassword,
				"LoginURL":     s.LoginURL,
			},
		}
		if err := s.Emails.PublishJSON(ctx, job); err != nil {
			s.Logger.WithFields(fields).WithError(err).Warn("welcome email enqueue failed")
		}
	}

	_ = s.indexAccount(ctx, account)
	return OutcomeProvisioned, nil
}

func (s *ProvisioningService) indexAccount(ctx context.Context, a *entity.Account) error {
	if s.ES == nil || s.ESAccountsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         a.ID,
		"email":      a.Email,
		"username":   a.Username,
		"created_at": a.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESAccountsIndex, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("account_id", a.ID).Warn("es index response error")
	}
	return nil
}
