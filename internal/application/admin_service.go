package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
)

// AdminService backs the operator dashboard: platform totals, account
// listing/search, suspension, deletion, and contact-form review.
type AdminService struct {
	Accounts         repo.AccountRepository
	Profiles         repo.ProfileRepository
	Tips             repo.TipRepository
	Contacts         repo.ContactRepository
	Logger           *logrus.Logger
	ES               *elasticsearch.Client
	ESAccountsIndex  string
	SignupPriceCents int64
}

func NewAdminService(accounts repo.AccountRepository, profiles repo.ProfileRepository, tips repo.TipRepository, contacts repo.ContactRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, signupPriceCents int64) *AdminService {
	return &AdminService{
		Accounts:         accounts,
		Profiles:         profiles,
		Tips:             tips,
		Contacts:         contacts,
		Logger:           logger,
		ES:               es,
		ESAccountsIndex:  esIndex,
		SignupPriceCents: signupPriceCents,
	}
}

// PlatformStats are aggregate operator metrics. SignupRevenue assumes every
// account paid the current fixed price.
type PlatformStats struct {
	TotalAccounts  int64 `json:"total_accounts"`
	ActiveProfiles int64 `json:"active_profiles"`
	MonthlySignups int64 `json:"monthly_signups"`
	SignupRevenue  int64 `json:"signup_revenue_cents"`
	TipCount       int64 `json:"tip_count"`
	TipVolume      int64 `json:"tip_volume_cents"`
}

func (s *AdminService) Stats(ctx context.Context, now time.Time) (*PlatformStats, error) {
	total, err := s.Accounts.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.Profiles.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly, err := s.Accounts.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	tipCount, err := s.Tips.Count(ctx)
	if err != nil {
		return nil, err
	}
	tipVolume, err := s.Tips.TotalVolume(ctx)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		TotalAccounts:  total,
		ActiveProfiles: active,
		MonthlySignups: monthly,
		SignupRevenue:  total * s.SignupPriceCents,
		TipCount:       tipCount,
		TipVolume:      tipVolume,
	}, nil
}

func (s *AdminService) ListAccounts(ctx context.Context, page, limit int) ([]entity.Account, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Accounts.List(ctx, limit, (page-1)*limit)
}

// SearchAccounts queries the Elasticsearch index on email and username.
func (s *AdminService) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESAccountsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "username^2"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESAccountsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// SetAccountActive suspends or reactivates the public profile of an account.
func (s *AdminService) SetAccountActive(ctx context.Context, accountID string, active bool) error {
	return s.Profiles.SetActiveByAccountID(ctx, accountID, active)
}

// DeleteAccount removes the account and, via cascade, its profile, links,
// tips and page views. The search index entry is cleaned up best-effort.
func (s *AdminService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.Accounts.Delete(ctx, accountID); err != nil {
		return err
	}
	s.deleteFromIndex(ctx, accountID)
	return nil
}

func (s *AdminService) deleteFromIndex(ctx context.Context, accountID string) {
	if s.ES == nil || s.ESAccountsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESAccountsIndex, DocumentID: accountID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// SubmitMessage stores a public contact-form submission.
func (s *AdminService) SubmitMessage(ctx context.Context, name, email, subject, message string) (*entity.ContactMessage, error) {
	m := &entity.ContactMessage{Name: name, Email: email, Subject: subject, Message: message}
	if err := s.Contacts.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *AdminService) ListMessages(ctx context.Context) ([]entity.ContactMessage, error) {
	return s.Contacts.List(ctx)
}

func (s *AdminService) MarkMessageRead(ctx context.Context, id string) error {
	return s.Contacts.MarkRead(ctx, id)
}
