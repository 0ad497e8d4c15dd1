package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/pkg/helpers"
)

var ErrProfileNotFound = errors.New("profile not found")

// publicPageTTL bounds how stale a cached public page can be after an edit.
const publicPageTTL = 60 * time.Second

// ProfileService covers the owner dashboard (profile and link management,
// analytics) and the public profile page. Public pages are cached briefly in
// Redis; owner edits invalidate the entry.
type ProfileService struct {
	Profiles  repo.ProfileRepository
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, rdb *redis.Client, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Redis: rdb, GCS: gcs, GCSBucket: gcsBucket, Logger: logger}
}

type publicPage struct {
	Profile *repo.PublicProfile `json:"profile"`
	Links   []entity.Link       `json:"links"`
}

func publicPageKey(username string) string {
	return "profile:public:" + strings.ToLower(username)
}

// Dashboard is the owner's profile together with its active links.
type Dashboard struct {
	Profile *entity.Profile
	Links   []entity.Link
}

func (s *ProfileService) GetDashboard(ctx context.Context, accountID string) (*Dashboard, error) {
	p, err := s.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	links, err := s.Profiles.ListActiveLinks(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Profile: p, Links: links}, nil
}

type UpdateProfileInput struct {
	DisplayName   *string
	Bio           *string
	TipJarEnabled *bool
	TipJarMessage *string
}

func (s *ProfileService) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*entity.Profile, error) {
	p, err := s.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	if in.DisplayName != nil {
		p.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.TipJarEnabled != nil {
		p.TipJarEnabled = *in.TipJarEnabled
	}
	if in.TipJarMessage != nil {
		p.TipJarMessage = *in.TipJarMessage
	}
	if err := s.Profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadImage stores a profile image in GCS and records its public URL.
func (s *ProfileService) UploadImage(ctx context.Context, accountID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	p, err := s.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return "", ErrProfileNotFound
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profiles", p.ID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.ImageURL = url
	if err := s.Profiles.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

type AddLinkInput struct {
	Title string
	URL   string
	Icon  string
}

func (s *ProfileService) AddLink(ctx context.Context, accountID string, in AddLinkInput) (*entity.Link, error) {
	p, err := s.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	l := &entity.Link{
		ProfileID: p.ID,
		Title:     in.Title,
		URL:       in.URL,
		Icon:      in.Icon,
		IsActive:  true,
	}
	if err := s.Profiles.AddLink(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

type UpdateLinkInput struct {
	Title        string
	URL          string
	Icon         string
	DisplayOrder int
}

func (s *ProfileService) UpdateLink(ctx context.Context, accountID, linkID string, in UpdateLinkInput) error {
	l := &entity.Link{
		ID:           linkID,
		Title:        in.Title,
		URL:          in.URL,
		Icon:         in.Icon,
		DisplayOrder: in.DisplayOrder,
	}
	return s.Profiles.UpdateLink(ctx, accountID, l)
}

func (s *ProfileService) DeleteLink(ctx context.Context, accountID, linkID string) error {
	return s.Profiles.DeactivateLink(ctx, accountID, linkID)
}

// PublicPage resolves a public profile by username and records the page view.
// View tracking is best-effort; a failed insert never blocks the page.
func (s *ProfileService) PublicPage(ctx context.Context, username, ip, userAgent string) (*repo.PublicProfile, []entity.Link, error) {
	if s.Redis != nil {
		var cached publicPage
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, publicPageKey(username), &cached); err == nil && ok && cached.Profile != nil {
			s.recordView(ctx, cached.Profile.ID, ip, userAgent)
			return cached.Profile, cached.Links, nil
		}
	}

	pp, err := s.Profiles.GetPublicByUsername(ctx, username)
	if err != nil {
		return nil, nil, ErrProfileNotFound
	}
	links, err := s.Profiles.ListActiveLinks(ctx, pp.ID)
	if err != nil {
		return nil, nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, publicPageKey(username), publicPage{Profile: pp, Links: links}, publicPageTTL); err != nil {
			s.Logger.WithError(err).Warn("public page cache write failed")
		}
	}

	s.recordView(ctx, pp.ID, ip, userAgent)
	return pp, links, nil
}

func (s *ProfileService) recordView(ctx context.Context, profileID, ip, userAgent string) {
	view := &entity.PageView{ProfileID: profileID, IP: ip, UserAgent: userAgent}
	if err := s.Profiles.RecordPageView(ctx, view); err != nil {
		s.Logger.WithError(err).WithField("profile_id", profileID).Warn("page view insert failed")
	}
}

// InvalidatePublicPage drops the cached page after an owner edit.
func (s *ProfileService) InvalidatePublicPage(ctx context.Context, username string) {
	if s.Redis == nil || username == "" {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, publicPageKey(username)); err != nil {
		s.Logger.WithError(err).WithField("username", username).Warn("public page cache invalidation failed")
	}
}

func (s *ProfileService) TrackClick(ctx context.Context, linkID string) error {
	return s.Profiles.IncrementLinkClicks(ctx, linkID)
}

// Analytics is the owner dashboard summary: total views, a daily series for
// the recent window, and per-link click counts.
type Analytics struct {
	TotalViews int64
	ViewsByDay []repo.DayCount
	Links      []entity.Link
}

func (s *ProfileService) GetAnalytics(ctx context.Context, accountID string, days int) (*Analytics, error) {
	if days <= 0 || days > 90 {
		days = 30
	}
	p, err := s.Profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	total, err := s.Profiles.CountPageViews(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	byDay, err := s.Profiles.PageViewsByDay(ctx, p.ID, days)
	if err != nil {
		return nil, err
	}
	links, err := s.Profiles.ListActiveLinks(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &Analytics{TotalViews: total, ViewsByDay: byDay, Links: links}, nil
}
