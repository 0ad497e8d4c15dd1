package repository

import (
	"context"

	"github.com/lumalink/lumalink/internal/domain/entity"
)

// PublicProfile is a profile joined with its owner's username for the public
// page, which is addressed by username rather than id.
type PublicProfile struct {
	entity.Profile
	Username string `json:"username"`
}

// DayCount is one day of page views for the dashboard analytics chart.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// ProfileRepository covers profile and link persistence plus page-view
// tracking for the owner dashboard.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByAccountID(ctx context.Context, accountID string) (*entity.Profile, error)
	GetPublicByUsername(ctx context.Context, username string) (*PublicProfile, error)
	Update(ctx context.Context, p *entity.Profile) error
	SetActiveByAccountID(ctx context.Context, accountID string, active bool) error
	CountActive(ctx context.Context) (int64, error)

	AddLink(ctx context.Context, l *entity.Link) error
	UpdateLink(ctx context.Context, accountID string, l *entity.Link) error
	DeactivateLink(ctx context.Context, accountID, linkID string) error
	ListActiveLinks(ctx context.Context, profileID string) ([]entity.Link, error)
	IncrementLinkClicks(ctx context.Context, linkID string) error

	RecordPageView(ctx context.Context, v *entity.PageView) error
	CountPageViews(ctx context.Context, profileID string) (int64, error)
	PageViewsByDay(ctx context.Context, profileID string, days int) ([]DayCount, error)
}
