package application

import (
	"context"
	"testing"
	"time"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
)

type stubTipRepo struct {
	bySession map[string]*entity.Tip
	creates   int

	statsFrom time.Time
	statsTo   time.Time
	stats     entity.MonthlyTipStats
}

func newStubTipRepo() *stubTipRepo {
	return &stubTipRepo{bySession: map[string]*entity.Tip{}}
}

func (s *stubTipRepo) Create(_ context.Context, t *entity.Tip) error {
	if _, ok := s.bySession[t.StripeSessionID]; ok {
		return repo.ErrDuplicateSession
	}
	t.ID = "tip-" + t.StripeSessionID
	s.bySession[t.StripeSessionID] = t
	s.creates++
	return nil
}

func (s *stubTipRepo) GetBySessionRef(_ context.Context, ref string) (*entity.Tip, error) {
	if t, ok := s.bySession[ref]; ok {
		return t, nil
	}
	return nil, repo.ErrNotFound
}

func (s *stubTipRepo) ListByProfile(context.Context, string, int) ([]entity.Tip, error) {
	return nil, nil
}

func (s *stubTipRepo) StatsForRange(_ context.Context, _ string, from, to time.Time) (entity.MonthlyTipStats, error) {
	s.statsFrom = from
	s.statsTo = to
	return s.stats, nil
}

func (s *stubTipRepo) TotalVolume(context.Context) (int64, error) { return 0, nil }
func (s *stubTipRepo) Count(context.Context) (int64, error)       { return int64(s.creates), nil }

type stubProfileRepo struct {
	profiles map[string]*entity.Profile
}

func (s *stubProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, repo.ErrNotFound
}

func (s *stubProfileRepo) GetByAccountID(context.Context, string) (*entity.Profile, error) {
	return nil, repo.ErrNotFound
}
func (s *stubProfileRepo) GetPublicByUsername(context.Context, string) (*repo.PublicProfile, error) {
	return nil, repo.ErrNotFound
}
func (s *stubProfileRepo) Update(context.Context, *entity.Profile) error            { return nil }
func (s *stubProfileRepo) SetActiveByAccountID(context.Context, string, bool) error { return nil }
func (s *stubProfileRepo) CountActive(context.Context) (int64, error)               { return 0, nil }
func (s *stubProfileRepo) AddLink(context.Context, *entity.Link) error              { return nil }
func (s *stubProfileRepo) UpdateLink(context.Context, string, *entity.Link) error   { return nil }
func (s *stubProfileRepo) DeactivateLink(context.Context, string, string) error     { return nil }
func (s *stubProfileRepo) ListActiveLinks(context.Context, string) ([]entity.Link, error) {
	return nil, nil
}
func (s *stubProfileRepo) IncrementLinkClicks(context.Context, string) error   { return nil }
func (s *stubProfileRepo) RecordPageView(context.Context, *entity.PageView) error { return nil }
func (s *stubProfileRepo) CountPageViews(context.Context, string) (int64, error) {
	return 0, nil
}
func (s *stubProfileRepo) PageViewsByDay(context.Context, string, int) ([]repo.DayCount, error) {
	return nil, nil
}

func tipJarProfile(id string, active, enabled bool) *stubProfileRepo {
	return &stubProfileRepo{profiles: map[string]*entity.Profile{
		id: {ID: id, DisplayName: "Someone", IsActive: active, TipJarEnabled: enabled},
	}}
}

func tipEvent(session, profileID string, amount int64) *gateway.Event {
	return &gateway.Event{
		Type:          gateway.EventCheckoutCompleted,
		SessionRef:    session,
		AmountTotal:   amount,
		CustomerEmail: "tipper@example.com",
		Metadata:      map[string]string{"purpose": gateway.PurposeTip, "profile_id": profileID},
	}
}

func newTipService(tips repo.TipRepository, profiles repo.ProfileRepository) *TipService {
	return NewTipService(tips, profiles, testLogger(), nil, 10, 500, 50000, "usd")
}

func TestSplitAmount(t *testing.T) {
	cases := []struct {
		amount, feePercent, creator, fee int64
	}{
		{1000, 10, 900, 100},
		{500, 10, 450, 50},
		{50000, 10, 45000, 5000},
		{999, 10, 899, 100}, // 899.1 rounds down
		{105, 10, 95, 10},   // 94.5 rounds half-up
		{1000, 0, 1000, 0},
		{1000, 100, 0, 1000},
	}
	for _, tc := range cases {
		creator, fee := SplitAmount(tc.amount, tc.feePercent)
		if creator != tc.creator || fee != tc.fee {
			t.Errorf("SplitAmount(%d, %d) = %d/%d, want %d/%d",
				tc.amount, tc.feePercent, creator, fee, tc.creator, tc.fee)
		}
		if creator+fee != tc.amount {
			t.Errorf("SplitAmount(%d, %d): shares sum to %d", tc.amount, tc.feePercent, creator+fee)
		}
	}
}

func TestTipRecorded(t *testing.T) {
	tips := newStubTipRepo()
	svc := newTipService(tips, tipJarProfile("prof-1", true, true))

	out, err := svc.HandleCheckoutCompleted(context.Background(), tipEvent("sess_t1", "prof-1", 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != OutcomeProvisioned {
		t.Fatalf("outcome = %q, want provisioned", out)
	}

	tip, err := tips.GetBySessionRef(context.Background(), "sess_t1")
	if err != nil {
		t.Fatalf("tip not stored: %v", err)
	}
	if tip.Amount != 1000 || tip.CreatorShare != 900 || tip.PlatformFee != 100 {
		t.Errorf("stored split = %d/%d/%d, want 1000/900/100", tip.Amount, tip.CreatorShare, tip.PlatformFee)
	}
	if tip.TipperEmail != "tipper@example.com" {
		t.Errorf("tipper email = %q", tip.TipperEmail)
	}
}

func TestTipReplayIsIdempotent(t *testing.T) {
	tips := newStubTipRepo()
	svc := newTipService(tips, tipJarProfile("prof-1", true, true))
	ev := tipEvent("sess_t1", "prof-1", 1000)

	if out, _ := svc.HandleCheckoutCompleted(context.Background(), ev); out != OutcomeProvisioned {
		t.Fatalf("first delivery outcome = %q", out)
	}
	out, err := svc.HandleCheckoutCompleted(context.Background(), ev)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if out != OutcomeAlreadyProvisioned {
		t.Fatalf("replay outcome = %q, want already_provisioned", out)
	}
	if tips.creates != 1 {
		t.Fatalf("creates = %d, want 1", tips.creates)
	}
}

func TestTipRejections(t *testing.T) {
	cases := []struct {
		name     string
		profiles repo.ProfileRepository
		ev       *gateway.Event
	}{
		{"unknown profile", tipJarProfile("prof-1", true, true), tipEvent("s1", "prof-x", 1000)},
		{"inactive profile", tipJarProfile("prof-1", false, true), tipEvent("s2", "prof-1", 1000)},
		{"tip jar disabled", tipJarProfile("prof-1", true, false), tipEvent("s3", "prof-1", 1000)},
		{"below minimum", tipJarProfile("prof-1", true, true), tipEvent("s4", "prof-1", 499)},
		{"above maximum", tipJarProfile("prof-1", true, true), tipEvent("s5", "prof-1", 50001)},
		{"missing profile id", tipJarProfile("prof-1", true, true), tipEvent("s6", "", 1000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tips := newStubTipRepo()
			svc := newTipService(tips, tc.profiles)
			out, err := svc.HandleCheckoutCompleted(context.Background(), tc.ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != OutcomeRejected {
				t.Fatalf("outcome = %q, want rejected", out)
			}
			if tips.creates != 0 {
				t.Fatalf("creates = %d, want 0", tips.creates)
			}
		})
	}
}

func TestMonthlyStatsRange(t *testing.T) {
	tips := newStubTipRepo()
	svc := newTipService(tips, tipJarProfile("prof-1", true, true))

	now := time.Date(2025, time.March, 17, 14, 30, 0, 0, time.UTC)
	if _, err := svc.MonthlyStats(context.Background(), "prof-1", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFrom := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !tips.statsFrom.Equal(wantFrom) || !tips.statsTo.Equal(wantTo) {
		t.Errorf("stats range = [%v, %v), want [%v, %v)", tips.statsFrom, tips.statsTo, wantFrom, wantTo)
	}
}

func TestMonthlyStatsEmptyMonthIsZeros(t *testing.T) {
	tips := newStubTipRepo()
	svc := newTipService(tips, tipJarProfile("prof-1", true, true))

	stats, err := svc.MonthlyStats(context.Background(), "prof-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAmount != 0 || stats.TipCount != 0 || stats.TotalEarnings != 0 || stats.PlatformFees != 0 {
		t.Errorf("empty month stats = %+v, want zeros", stats)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		minor    int64
		currency string
		want     string
	}{
		{1050, "usd", "10.50 USD"},
		{500, "usd", "5.00 USD"},
		{9, "eur", "0.09 EUR"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.minor, tc.currency); got != tc.want {
			t.Errorf("FormatAmount(%d, %q) = %q, want %q", tc.minor, tc.currency, got, tc.want)
		}
	}
}
