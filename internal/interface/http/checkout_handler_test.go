package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/application"
	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
)

type stubGateway struct {
	event  *gateway.Event
	verErr error
}

func (g *stubGateway) CreateCheckoutSession(context.Context, gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	return &gateway.CheckoutSession{ID: "sess_new", RedirectURL: "https://pay.example.com/s"}, nil
}

func (g *stubGateway) VerifyEvent([]byte, string) (*gateway.Event, error) {
	if g.verErr != nil {
		return nil, g.verErr
	}
	return g.event, nil
}

type memAccounts struct {
	bySession map[string]*entity.Account
	creates   int
}

func (m *memAccounts) CreateWithProfile(_ context.Context, a *entity.Account, p *entity.Profile) error {
	if _, ok := m.bySession[a.StripeSessionID]; ok {
		return repo.ErrDuplicateSession
	}
	a.ID = "acct-1"
	p.ID = "prof-1"
	m.bySession[a.StripeSessionID] = a
	m.creates++
	return nil
}
func (m *memAccounts) GetByID(context.Context, string) (*entity.Account, error) {
	return nil, repo.ErrNotFound
}
func (m *memAccounts) GetByEmail(context.Context, string) (*entity.Account, error) {
	return nil, repo.ErrNotFound
}
func (m *memAccounts) GetByUsername(context.Context, string) (*entity.Account, error) {
	return nil, repo.ErrNotFound
}
func (m *memAccounts) GetBySessionRef(_ context.Context, ref string) (*entity.Account, error) {
	if a, ok := m.bySession[ref]; ok {
		return a, nil
	}
	return nil, repo.ErrNotFound
}
func (m *memAccounts) UpdatePassword(context.Context, string, string) error { return nil }
func (m *memAccounts) List(context.Context, int, int) ([]entity.Account, int64, error) {
	return nil, 0, nil
}
func (m *memAccounts) Delete(context.Context, string) error { return nil }
func (m *memAccounts) Count(context.Context) (int64, error) { return 0, nil }
func (m *memAccounts) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func webhookRouter(gw gateway.PaymentGateway, accounts repo.AccountRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := quietLogger()
	provisioning := application.NewProvisioningService(accounts, logger, nil, nil, "", "")
	h := NewCheckoutHandler(nil, provisioning, nil, gw, logger)

	r := gin.New()
	r.POST("/webhooks/stripe", h.Webhook)
	return r
}

func postWebhook(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookInvalidSignature(t *testing.T) {
	accounts := &memAccounts{bySession: map[string]*entity.Account{}}
	gw := &stubGateway{verErr: gateway.ErrSignatureInvalid}

	w := postWebhook(webhookRouter(gw, accounts))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if accounts.creates != 0 {
		t.Fatalf("creates = %d, want 0 side effects on bad signature", accounts.creates)
	}
}

func TestWebhookValidSignupProvisions(t *testing.T) {
	accounts := &memAccounts{bySession: map[string]*entity.Account{}}
	gw := &stubGateway{event: &gateway.Event{
		Type:       gateway.EventCheckoutCompleted,
		SessionRef: "sess_1",
		Metadata:   map[string]string{"purpose": gateway.PurposeSignup, "username": "cool_guy", "email": "c@example.com"},
	}}

	w := postWebhook(webhookRouter(gw, accounts))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if accounts.creates != 1 {
		t.Fatalf("creates = %d, want 1", accounts.creates)
	}
}

func TestWebhookRejectedEventStillAcked(t *testing.T) {
	// A paid event with a reserved username cannot be provisioned, but the
	// processor must still receive 200 so it stops retrying.
	accounts := &memAccounts{bySession: map[string]*entity.Account{}}
	gw := &stubGateway{event: &gateway.Event{
		Type:       gateway.EventCheckoutCompleted,
		SessionRef: "sess_2",
		Metadata:   map[string]string{"purpose": gateway.PurposeSignup, "username": "admin", "email": "a@example.com"},
	}}

	w := postWebhook(webhookRouter(gw, accounts))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if accounts.creates != 0 {
		t.Fatalf("creates = %d, want 0", accounts.creates)
	}
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	accounts := &memAccounts{bySession: map[string]*entity.Account{}}
	gw := &stubGateway{event: &gateway.Event{Type: "payment_intent.created"}}

	w := postWebhook(webhookRouter(gw, accounts))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if accounts.creates != 0 {
		t.Fatalf("creates = %d, want 0", accounts.creates)
	}
}
