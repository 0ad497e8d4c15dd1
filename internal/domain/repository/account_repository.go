package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lumalink/lumalink/internal/domain/entity"
)

// Storage-level errors surfaced to the application layer. Unique-constraint
// violations are mapped to these by the postgres implementation so callers can
// tell an idempotent replay apart from a genuine conflict.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateSession = errors.New("checkout session already consumed")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already registered")
)

// AccountRepository defines account persistence. CreateWithProfile is the
// provisioning write path: account and profile are inserted in one transaction,
// so either both rows exist afterwards or neither does.
type AccountRepository interface {
	CreateWithProfile(ctx context.Context, a *entity.Account, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	GetBySessionRef(ctx context.Context, sessionRef string) (*entity.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]entity.Account, int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
