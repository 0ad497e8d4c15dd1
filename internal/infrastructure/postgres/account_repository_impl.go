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

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, email, username, password_hash, stripe_customer_id, stripe_session_id, is_admin, created_at, updated_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	if err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.StripeCustomerID,
		&a.StripeSessionID, &a.IsAdmin, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// CreateWithProfile inserts the account and its profile in one transaction.
// The unique constraints on username, email and stripe_session_id are the
// authoritative idempotency guard; violations come back as domain errors.
func (r *AccountRepository) CreateWithProfile(ctx context.Context, a *entity.Account, p *entity.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (email, username, password_hash, stripe_customer_id, stripe_session_id, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.Email, a.Username, a.PasswordHash, a.StripeCustomerID, a.StripeSessionID, a.IsAdmin)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return mapUniqueViolation(err)
	}

	p.AccountID = a.ID
	row = tx.QueryRow(ctx, `
		INSERT INTO profiles (account_id, display_name, bio, image_url, tip_jar_enabled, tip_jar_message, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, p.AccountID, p.DisplayName, p.Bio, p.ImageURL, p.TipJarEnabled, p.TipJarMessage, p.IsActive)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapUniqueViolation(err)
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE lower(username) = lower($1)`, username))
}

func (r *AccountRepository) GetBySessionRef(ctx context.Context, sessionRef string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE stripe_session_id = $1`, sessionRef))
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]entity.Account, int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]entity.Account, 0, limit)
	for rows.Next() {
		a := entity.Account{}
		if err := rows.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.StripeCustomerID,
			&a.StripeSessionID, &a.IsAdmin, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete removes the account; profiles, links, tips and page views go with it
// via ON DELETE CASCADE declared in the migrations.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&n)
	return n, err
}

func (r *AccountRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
