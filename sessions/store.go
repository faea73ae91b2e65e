package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
)

const tokenLength = 32 // bytes of entropy per session token

// Store issues, validates and destroys sessions on top of a Repo.
type Store struct {
	repo    Repo
	ttl     time.Duration
	nowTime func() time.Time // injectable for testing
}

type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

func NewStore(repo Repo, ttl time.Duration, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[sessions.NewStore] repo is required")
	}
	if ttl <= 0 {
		return nil, errors.New("[sessions.NewStore] ttl must be positive")
	}
	s := &Store{repo: repo, ttl: ttl, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Create generates a cryptographically random token, persists the session
// with an absolute expiry of now + TTL, and returns the record.
func (s *Store) Create(ctx context.Context, username string, roles []string) (*Session, error) {
	tokenBytes := make([]byte, tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, errors.Wrap(err, "[Store.Create] rand.Read")
	}

	now := s.nowTime()
	session := &Session{
		Token:     base64.URLEncoding.EncodeToString(tokenBytes),
		Username:  username,
		Roles:     roles,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Store.Create] repo.Insert")
	}
	return session, nil
}

// Lookup returns the session for token, or ErrSessionNotFound. A record the
// repo still holds but whose own expiry instant has passed is treated as
// absent; this guards against store TTL granularity and clock skew.
func (s *Store) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.ErrSessionNotFound
	}
	session, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "[Store.Lookup] repo.Get")
	}
	if session.Expired(s.nowTime()) {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

// Destroy deletes the session for token. Idempotent: destroying an absent
// or never-issued token succeeds.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return errors.Wrap(s.repo.Delete(ctx, token), "[Store.Destroy] repo.Delete")
}

// PurgeExpired physically removes sessions that are past their expiry.
func (s *Store) PurgeExpired(ctx context.Context) error {
	return errors.Wrap(s.repo.DeleteExpired(ctx, s.nowTime()), "[Store.PurgeExpired] repo.DeleteExpired")
}
