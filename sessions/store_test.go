package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
	"github.com/invoclear/go-extract-server/sessions"
)

const sessionTTL = 30 * 24 * time.Hour

func newTestStore(t *testing.T, now *time.Time) *sessions.Store {
	t.Helper()
	store, err := sessions.NewStore(sessions.NewInMemoryRepo(), sessionTTL,
		sessions.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return store
}

func TestStoreCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, &now)

	created, err := store.Create(ctx, "alice", []string{"bulk"})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	require.Equal(t, now.Add(sessionTTL), created.ExpiresAt)

	got, err := store.Lookup(ctx, created.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"bulk"}, got.Roles)
}

func TestStoreTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newTestStore(t, &now)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := store.Create(ctx, "alice", nil)
		require.NoError(t, err)
		require.False(t, seen[s.Token])
		seen[s.Token] = true
	}
}

func TestStoreLookupLogicallyExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, &now)

	created, err := store.Create(ctx, "alice", nil)
	require.NoError(t, err)

	// Just before expiry the session is alive.
	now = created.ExpiresAt.Add(-time.Second)
	_, err = store.Lookup(ctx, created.Token)
	require.NoError(t, err)

	// Past the expiration instant the record must read as absent even
	// though the repo has not purged it.
	now = created.ExpiresAt.Add(time.Second)
	_, err = store.Lookup(ctx, created.Token)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestStoreLookupAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newTestStore(t, &now)

	_, err := store.Lookup(ctx, "never-issued")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	_, err = store.Lookup(ctx, "")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestStoreDestroyIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := newTestStore(t, &now)

	created, err := store.Create(ctx, "alice", nil)
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, created.Token))
	require.NoError(t, store.Destroy(ctx, created.Token))
	require.NoError(t, store.Destroy(ctx, "never-issued"))

	_, err = store.Lookup(ctx, created.Token)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := sessions.NewInMemoryRepo()
	store, err := sessions.NewStore(repo, sessionTTL,
		sessions.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	created, err := store.Create(ctx, "alice", nil)
	require.NoError(t, err)

	now = created.ExpiresAt.Add(time.Hour)
	require.NoError(t, store.PurgeExpired(ctx))

	_, err = repo.Get(ctx, created.Token)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
