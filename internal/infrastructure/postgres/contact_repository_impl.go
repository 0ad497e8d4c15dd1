package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumalink/lumalink/internal/domain/entity"
	"github.com/lumalink/lumalink/internal/domain/repository"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.Name, m.Email, m.Subject, m.Message)
	return row.Scan(&m.ID, &m.CreatedAt)
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.ContactMessage
	for rows.Next() {
		m := entity.ContactMessage{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ContactRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `UPDATE contact_messages SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
