package repofake

import (
	"context"
	"sync"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
	"github.com/invoclear/go-extract-server/users"
)

// FakeCredentialRepo is an in-memory implementation of users.Repo for tests.
type FakeCredentialRepo struct {
	mu          sync.RWMutex
	credentials map[string]*users.Credential
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{credentials: make(map[string]*users.Credential)}
}

var _ users.Repo = (*FakeCredentialRepo)(nil)

func (r *FakeCredentialRepo) Upsert(_ context.Context, c *users.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.credentials[c.Username] = &clone
	return nil
}

func (r *FakeCredentialRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.credentials, username)
	return nil
}

func (r *FakeCredentialRepo) Get(_ context.Context, username string) (*users.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.credentials[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *FakeCredentialRepo) List(_ context.Context, offset, limit int) ([]*users.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*users.Credential
	for _, c := range r.credentials {
		clone := *c
		out = append(out, &clone)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
