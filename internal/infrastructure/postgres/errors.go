package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lumalink/lumalink/internal/domain/repository"
)

// mapUniqueViolation translates a 23505 into the domain error matching the
// constraint that fired. The session-reference constraints are the idempotency
// guards; username/email are genuine conflicts.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "stripe_session_id"):
		return repository.ErrDuplicateSession
	case strings.Contains(pgErr.ConstraintName, "username"):
		return repository.ErrUsernameTaken
	case strings.Contains(pgErr.ConstraintName, "email"):
		return repository.ErrEmailTaken
	}
	return err
}
