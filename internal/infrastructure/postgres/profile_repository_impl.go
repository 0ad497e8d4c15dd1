package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumalink/lumalink/internal/domain/entity"
	"github.com/lumalink/lumalink/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, account_id, display_name, bio, image_url, tip_jar_enabled, tip_jar_message, is_active, created_at, updated_at`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	if err := row.Scan(&p.ID, &p.AccountID, &p.DisplayName, &p.Bio, &p.ImageURL,
		&p.TipJarEnabled, &p.TipJarMessage, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE account_id = $1`, accountID))
}

func (r *ProfileRepository) GetPublicByUsername(ctx context.Context, username string) (*repository.PublicProfile, error) {
	pp := &repository.PublicProfile{}
	row := r.pool.QueryRow(ctx, `
		SELECT p.id, p.account_id, p.display_name, p.bio, p.image_url,
		       p.tip_jar_enabled, p.tip_jar_message, p.is_active, p.created_at, p.updated_at,
		       a.username
		FROM profiles p
		JOIN accounts a ON a.id = p.account_id
		WHERE lower(a.username) = lower($1) AND p.is_active = true
	`, username)
	if err := row.Scan(&pp.ID, &pp.AccountID, &pp.DisplayName, &pp.Bio, &pp.ImageURL,
		&pp.TipJarEnabled, &pp.TipJarMessage, &pp.IsActive, &pp.CreatedAt, &pp.UpdatedAt,
		&pp.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return pp, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET display_name = $1, bio = $2, image_url = $3,
		    tip_jar_enabled = $4, tip_jar_message = $5, updated_at = now()
		WHERE id = $6
	`, p.DisplayName, p.Bio, p.ImageURL, p.TipJarEnabled, p.TipJarMessage, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) SetActiveByAccountID(ctx context.Context, accountID string, active bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles SET is_active = $1, updated_at = now() WHERE account_id = $2
	`, active, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM profiles WHERE is_active = true`).Scan(&n)
	return n, err
}

func (r *ProfileRepository) AddLink(ctx context.Context, l *entity.Link) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO links (profile_id, title, url, icon, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, l.ProfileID, l.Title, l.URL, l.Icon, l.DisplayOrder)
	return row.Scan(&l.ID, &l.CreatedAt)
}

// UpdateLink is owner-scoped: the link must belong to a profile owned by the
// given account, so one user cannot edit another's links.
func (r *ProfileRepository) UpdateLink(ctx context.Context, accountID string, l *entity.Link) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE links
		SET title = $1, url = $2, icon = $3, display_order = $4
		WHERE id = $5
		  AND profile_id IN (SELECT id FROM profiles WHERE account_id = $6)
	`, l.Title, l.URL, l.Icon, l.DisplayOrder, l.ID, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) DeactivateLink(ctx context.Context, accountID, linkID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE links SET is_active = false
		WHERE id = $1
		  AND profile_id IN (SELECT id FROM profiles WHERE account_id = $2)
	`, linkID, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) ListActiveLinks(ctx context.Context, profileID string) ([]entity.Link, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, title, url, icon, display_order, is_active, clicks, created_at
		FROM links
		WHERE profile_id = $1 AND is_active = true
		ORDER BY display_order, created_at
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Link
	for rows.Next() {
		l := entity.Link{}
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Title, &l.URL, &l.Icon,
			&l.DisplayOrder, &l.IsActive, &l.Clicks, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) IncrementLinkClicks(ctx context.Context, linkID string) error {
	res, err := r.pool.Exec(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = $1 AND is_active = true`, linkID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) RecordPageView(ctx context.Context, v *entity.PageView) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO page_views (profile_id, ip, user_agent)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, v.ProfileID, v.IP, v.UserAgent)
	return row.Scan(&v.ID, &v.CreatedAt)
}

func (r *ProfileRepository) CountPageViews(ctx context.Context, profileID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM page_views WHERE profile_id = $1`, profileID).Scan(&n)
	return n, err
}

func (r *ProfileRepository) PageViewsByDay(ctx context.Context, profileID string, days int) ([]repository.DayCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date(created_at), 'YYYY-MM-DD') AS day, count(*)
		FROM page_views
		WHERE profile_id = $1 AND created_at >= current_date - $2::int
		GROUP BY date(created_at)
		ORDER BY day
	`, profileID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.DayCount
	for rows.Next() {
		dc := repository.DayCount{}
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
