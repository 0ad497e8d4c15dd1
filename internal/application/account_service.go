package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lumalink/lumalink/internal/domain/entity"
	repo "github.com/lumalink/lumalink/internal/domain/repository"
	"github.com/lumalink/lumalink/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// AccountService handles authentication and credential management for
// provisioned accounts.
type AccountService struct {
	Accounts repo.AccountRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func NewAccountService(accounts repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AccountService {
	return &AccountService{Accounts: accounts, JWT: jwt, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
}

func sessionKey(accountID string) string {
	return "account:session:" + accountID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate validates email/password and returns the account without issuing tokens.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	a, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil || a == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AccountService) IssueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"account_id": a.ID,
			"email":      a.Email,
			"username":   a.Username,
			"is_admin":   strconv.FormatBool(a.IsAdmin),
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{AccountID: a.ID, Email: a.Email, Username: a.Username, IsAdmin: a.IsAdmin}
	return resp, pair, nil
}

func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	a, err := s.Accounts.GetByID(ctx, claims.UserID)
	if err != nil || a == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	// Validate current session id matches the token's sid
	if s.Redis != nil {
		key := sessionKey(a.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, a.ID, nil
}

func (s *AccountService) Logout(ctx context.Context, accountID string) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(accountID)).Err()
	}
}

// ChangePassword verifies the current password before writing the new hash.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	a, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil || a == nil {
		return ErrAccountNotFound
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return err
	}
	return s.Accounts.UpdatePassword(ctx, accountID, hash)
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	a, err := s.Accounts.GetByID(ctx, accountID)
	if err != nil || a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}
