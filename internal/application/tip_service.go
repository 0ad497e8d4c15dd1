package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/internal/gateway"
	"github.com/lumalink/lumalink/pkg/mailer"
)

// TipService turns verified tip checkout events into exactly one immutable
// tip record per session reference, and serves the derived monthly stats.
type TipService struct {
	Tips       repo.TipRepository
	Profiles   repo.ProfileRepository
	Logger     *logrus.Logger
	Emails     EmailPublisher
	FeePercent int64
	MinCents   int64
	MaxCents   int64
	Currency   string
}

func NewTipService(tips repo.TipRepository, profiles repo.ProfileRepository, logger *logrus.Logger, emails EmailPublisher, feePercent, minCents, maxCents int64, currency string) *TipService {
	return &TipService{
		Tips:       tips,
		Profiles:   profiles,
		Logger:     logger,
		Emails:     emails,
		FeePercent: feePercent,
		MinCents:   minCents,
		MaxCents:   maxCents,
		Currency:   currency,
	}
}

// SplitAmount divides a tip between creator and platform using integer
// minor-unit arithmetic. The creator share is rounded half-up; the platform
// fee takes the remainder, so the two always sum to the amount exactly.
func SplitAmount(amount, feePercent int64) (creatorShare, platformFee int64) {
	creatorShare = (amount*(100-feePercent) + 50) / 100
	platformFee = amount - creatorShare
	return creatorShare, platformFee
}

// HandleCheckoutCompleted records a tip for a signature-verified event.
// Replays and concurrent deliveries resolve to a single row via the unique
// constraint on the session reference.
func (s *TipService) HandleCheckoutCompleted(ctx context.Context, ev *gateway.Event) (Outcome, error) {
	profileID := ev.Metadata["profile_id"]
	fields := logrus.Fields{"session": ev.SessionRef, "profile_id": profileID, "amount": ev.AmountTotal}

	if ev.SessionRef == "" || profileID == "" {
		s.Logger.WithFields(fields).Error("tip event missing metadata, dropping")
		return OutcomeRejected, nil
	}

	if _, err := s.Tips.GetBySessionRef(ctx, ev.SessionRef); err == nil {
		return OutcomeAlreadyProvisioned, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	profile, err := s.Profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithFields(fields).Error("tip for unknown profile, paid but not recordable")
			return OutcomeRejected, nil
		}
		return "", err
	}
	if !profile.IsActive || !profile.TipJarEnabled {
		s.Logger.WithFields(fields).Error("tip for profile with disabled tip jar, needs manual reconciliation")
		return OutcomeRejected, nil
	}

	// Bounds were enforced at session creation; re-check before persisting.
	if ev.AmountTotal < s.MinCents || ev.AmountTotal > s.MaxCents {
		s.Logger.WithFields(fields).Error("tip amount outside bounds at confirmation, not persisting")
		return OutcomeRejected, nil
	}

	creatorShare, platformFee := SplitAmount(ev.AmountTotal, s.FeePercent)
	tip := &entity.Tip{
		ProfileID:       profile.ID,
		Amount:          ev.AmountTotal,
		CreatorShare:    creatorShare,
		PlatformFee:     platformFee,
		TipperEmail:     ev.CustomerEmail,
		StripeSessionID: ev.SessionRef,
	}
	if err := s.Tips.Create(ctx, tip); err != nil {
		if errors.Is(err, repo.ErrDuplicateSession) {
			return OutcomeAlreadyProvisioned, nil
		}
		return "", err
	}

	s.Logger.WithFields(fields).WithField("tip_id", tip.ID).Info("tip recorded")

	if s.Emails != nil && ev.CustomerEmail != "" {
		job := mailer.EmailJob{
			To:       ev.CustomerEmail,
			Template: mailer.TemplateTipReceipt,
			Data: map[string]any{
				"DisplayName": profile.DisplayName,
				"AmountText":  FormatAmount(tip.Amount, s.Currency),
			},
		}
		if err := s.Emails.PublishJSON(ctx, job); err != nil {
			s.Logger.WithFields(fields).WithError(err).Warn("tip receipt enqueue failed")
		}
	}
	return OutcomeProvisioned, nil
}

// MonthlyStats aggregates the tips of the calendar month containing now, in
// now's location. An empty month yields zeros, not an error.
func (s *TipService) MonthlyStats(ctx context.Context, profileID string, now time.Time) (entity.MonthlyTipStats, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)
	return s.Tips.StatsForRange(ctx, profileID, from, to)
}

// RecentTips lists the latest tips for the owner dashboard.
func (s *TipService) RecentTips(ctx context.Context, profileID string, limit int) ([]entity.Tip, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Tips.ListByProfile(ctx, profileID, limit)
}

// FormatAmount renders minor units as a human amount, e.g. 1050 usd -> "10.50 USD".
func FormatAmount(minor int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", minor/100, minor%100, strings.ToUpper(currency))
}
