package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
)

type stubAccountRepo struct {
	bySession  map[string]*entity.Account
	byUsername map[string]*entity.Account
	byEmail    map[string]*entity.Account
	creates    int
	createErr  error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{
		bySession:  map[string]*entity.Account{},
		byUsername: map[string]*entity.Account{},
		byEmail:    map[string]*entity.Account{},
	}
}

func (s *stubAccountRepo) CreateWithProfile(_ context.Context, a *entity.Account, p *entity.Profile) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.bySession[a.StripeSessionID]; ok {
		return repo.ErrDuplicateSession
	}
	if _, ok := s.byUsername[a.Username]; ok {
		return repo.ErrUsernameTaken
	}
	if _, ok := s.byEmail[a.Email]; ok {
		return repo.ErrEmailTaken
	}
	a.ID = "acct-" + a.Username
	p.ID = "prof-" + a.Username
	p.AccountID = a.ID
	s.bySession[a.StripeSessionID] = a
	s.byUsername[a.Username] = a
	s.byEmail[a.Email] = a
	s.creates++
	return nil
}

func (s *stubAccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	for _, a := range s.byUsername {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *stubAccountRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	if a, ok := s.byEmail[email]; ok {
		return a, nil
	}
	return nil, repo.ErrNotFound
}

func (s *stubAccountRepo) GetByUsername(_ context.Context, username string) (*entity.Account, error) {
	if a, ok := s.byUsername[username]; ok {
		return a, nil
	}
	return nil, repo.ErrNotFound
}

func (s *stubAccountRepo) GetBySessionRef(_ context.Context, ref string) (*entity.Account, error) {
	if a, ok := s.bySession[ref]; ok {
		return a, nil
	}
	return nil, repo.ErrNotFound
}

func (s *stubAccountRepo) UpdatePassword(context.Context, string, string) error { return nil }
func (s *stubAccountRepo) List(context.Context, int, int) ([]entity.Account, int64, error) {
	return nil, 0, nil
}
func (s *stubAccountRepo) Delete(context.Context, string) error      { return nil }
func (s *stubAccountRepo) Count(context.Context) (int64, error)      { return int64(s.creates), nil }
func (s *stubAccountRepo) CountCreatedSince(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type captureEmails struct {
	jobs []any
}

func (c *captureEmails) PublishJSON(_ context.Context, body any) error {
	c.jobs = append(c.jobs, body)
	return nil
}

func signupEvent(session, username, email string) *gateway.Event {
	return &gateway.Event{
		Type:        gateway.EventCheckoutCompleted,
		SessionRef:  session,
		CustomerRef: "cus_123",
		AmountTotal: 2900,
		Metadata:    map[string]string{"purpose": gateway.PurposeSignup, "username": username, "email": email},
	}
}

func TestProvisioningFreshEvent(t *testing.T) {
	accounts := newStubAccountRepo()
	emails := &captureEmails{}
	svc := NewProvisioningService(accounts, testLogger(), emails, nil, "", "https://example.com/login")

	out, err := svc.HandleCheckoutCompleted(context.Background(), signupEvent("sess_1", "cool_guy", "cool@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != OutcomeProvisioned {
		t.Fatalf("outcome = %q, want provisioned", out)
	}
	if accounts.creates != 1 {
		t.Fatalf("creates = %d, want 1", accounts.creates)
	}

	a, err := accounts.GetBySessionRef(context.Background(), "sess_1")
	if err != nil {
		t.Fatalf("account not stored: %v", err)
	}
	if a.Username != "cool_guy" || a.Email != "cool@example.com" {
		t.Errorf("stored account = %q/%q", a.Username, a.Email)
	}
	if a.PasswordHash == "" {
		t.Error("password hash not set")
	}
	if len(emails.jobs) != 1 {
		t.Errorf("welcome emails queued = %d, want 1", len(emails.jobs))
	}
}

func TestProvisioningReplayIsIdempotent(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := NewProvisioningService(accounts, testLogger(), nil, nil, "", "")
	ev := signupEvent("sess_1", "cool_guy", "cool@example.com")

	if out, _ := svc.HandleCheckoutCompleted(context.Background(), ev); out != OutcomeProvisioned {
		t.Fatalf("first delivery outcome = %q", out)
	}
	for i := 0; i < 3; i++ {
		out, err := svc.HandleCheckoutCompleted(context.Background(), ev)
		if err != nil {
			t.Fatalf("replay %d: %v", i, err)
		}
		if out != OutcomeAlreadyProvisioned {
			t.Fatalf("replay %d outcome = %q, want already_provisioned", i, out)
		}
	}
	if accounts.creates != 1 {
		t.Fatalf("creates = %d after replays, want 1", accounts.creates)
	}
}

func TestProvisioningLostInsertRace(t *testing.T) {
	// Fast-path lookup misses but the insert hits the unique constraint, as
	// with two concurrent deliveries of the same event.
	accounts := newStubAccountRepo()
	accounts.createErr = repo.ErrDuplicateSession
	svc := NewProvisioningService(accounts, testLogger(), nil, nil, "", "")

	out, err := svc.HandleCheckoutCompleted(context.Background(), signupEvent("sess_1", "cool_guy", "c@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != OutcomeAlreadyProvisioned {
		t.Fatalf("outcome = %q, want already_provisioned", out)
	}
}

func TestProvisioningRejectsReservedUsername(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := NewProvisioningService(accounts, testLogger(), nil, nil, "", "")

	out, err := svc.HandleCheckoutCompleted(context.Background(), signupEvent("sess_2", "admin", "a@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != OutcomeRejected {
		t.Fatalf("outcome = %q, want rejected", out)
	}
	if accounts.creates != 0 {
		t.Fatalf("creates = %d, want 0", accounts.creates)
	}
}

func TestProvisioningRejectsMissingMetadata(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := NewProvisioningService(accounts, testLogger(), nil, nil, "", "")

	cases := []struct {
		name string
		ev   *gateway.Event
	}{
		{"no username", signupEvent("sess_3", "", "a@example.com")},
		{"no email", signupEvent("sess_4", "someone", "")},
		{"no session ref", signupEvent("", "someone", "a@example.com")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := svc.HandleCheckoutCompleted(context.Background(), tc.ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != OutcomeRejected {
				t.Fatalf("outcome = %q, want rejected", out)
			}
		})
	}
	if accounts.creates != 0 {
		t.Fatalf("creates = %d, want 0", accounts.creates)
	}
}

func TestProvisioningRejectsConflictAfterPayment(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := NewProvisioningService(accounts, testLogger(), nil, nil, "", "")

	if out, _ := svc.HandleCheckoutCompleted(context.Background(), signupEvent("sess_1", "taken", "first@example.com")); out != OutcomeProvisioned {
		t.Fatalf("setup outcome = %q", out)
	}

	// Same username, different paid session: conflict, not a replay.
	out, err := svc.HandleCheckoutCompleted(context.Background(), signupEvent("sess_2", "taken", "second@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != OutcomeRejected {
		t.Fatalf("outcome = %q, want rejected", out)
	}
	if accounts.creates != 1 {
		t.Fatalf("creates = %d, want 1", accounts.creates)
	}
}
