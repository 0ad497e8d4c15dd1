package repository

import (
	"context"
	"time"

	"github.com/lumalink/lumalink/internal/domain/entity"
)

// TipRepository persists immutable tip records. Create must be guarded by the
// unique constraint on the session reference; a violation is returned as
// ErrDuplicateSession so concurrent webhook retries resolve to a single row.
type TipRepository interface {
	Create(ctx context.Context, t *entity.Tip) error
	GetBySessionRef(ctx context.Context, sessionRef string) (*entity.Tip, error)
	ListByProfile(ctx context.Context, profileID string, limit int) ([]entity.Tip, error)
	StatsForRange(ctx context.Context, profileID string, from, to time.Time) (entity.MonthlyTipStats, error)
	TotalVolume(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// ContactRepository stores public contact-form submissions for admin review.
type ContactRepository interface {
	Create(ctx context.Context, m *entity.ContactMessage) error
	List(ctx context.Context) ([]entity.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}
