package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumalink/lumalink/internal/domain/entity"
	"github.com/lumalink/lumalink/internal/domain/repository"
)

type TipRepository struct {
	pool *pgxpool.Pool
}

func NewTipRepository(pool *pgxpool.Pool) *TipRepository {
	return &TipRepository{pool: pool}
}

// Create inserts one immutable tip row. The unique index on stripe_session_id
// closes the race between concurrent webhook deliveries: exactly one insert
// wins, the rest see ErrDuplicateSession.
func (r *TipRepository) Create(ctx context.Context, t *entity.Tip) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tips (profile_id, amount, creator_share, platform_fee, tipper_email, stripe_session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, t.ProfileID, t.Amount, t.CreatorShare, t.PlatformFee, t.TipperEmail, t.StripeSessionID)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *TipRepository) GetBySessionRef(ctx context.Context, sessionRef string) (*entity.Tip, error) {
	t := &entity.Tip{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, profile_id, amount, creator_share, platform_fee, tipper_email, stripe_session_id, created_at
		FROM tips
		WHERE stripe_session_id = $1
	`, sessionRef)
	if err := row.Scan(&t.ID, &t.ProfileID, &t.Amount, &t.CreatorShare, &t.PlatformFee,
		&t.TipperEmail, &t.StripeSessionID, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TipRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]entity.Tip, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, amount, creator_share, platform_fee, tipper_email, stripe_session_id, created_at
		FROM tips
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Tip
	for rows.Next() {
		t := entity.Tip{}
		if err := rows.Scan(&t.ID, &t.ProfileID, &t.Amount, &t.CreatorShare, &t.PlatformFee,
			&t.TipperEmail, &t.StripeSessionID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// StatsForRange aggregates over [from, to). COALESCE keeps an empty month at
// zero instead of NULL.
func (r *TipRepository) StatsForRange(ctx context.Context, profileID string, from, to time.Time) (entity.MonthlyTipStats, error) {
	s := entity.MonthlyTipStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*), COALESCE(SUM(creator_share), 0), COALESCE(SUM(platform_fee), 0)
		FROM tips
		WHERE profile_id = $1 AND created_at >= $2 AND created_at < $3
	`, profileID, from, to).Scan(&s.TotalAmount, &s.TipCount, &s.TotalEarnings, &s.PlatformFees)
	return s, err
}

func (r *TipRepository) TotalVolume(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM tips`).Scan(&n)
	return n, err
}

func (r *TipRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tips`).Scan(&n)
	return n, err
}

var _ repository.TipRepository = (*TipRepository)(nil)
