package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
	"github.com/invoclear/go-extract-server/internal/storage"
	"github.com/invoclear/go-extract-server/sessions"
)

func newSqliteRepo(t *testing.T) *sessions.SqliteRepo {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sessions.NewSqliteRepo(db)
}

func TestSqliteRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	now := time.Now().Truncate(time.Second)
	session := &sessions.Session{
		Token:     "token-1",
		Username:  "alice",
		Roles:     []string{"bulk"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, repo.Insert(ctx, session))

	got, err := repo.Get(ctx, "token-1")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"bulk"}, got.Roles)
	require.Equal(t, session.ExpiresAt.Unix(), got.ExpiresAt.Unix())

	_, err = repo.Get(ctx, "token-2")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSqliteRepoDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := newSqliteRepo(t)

	now := time.Now()
	require.NoError(t, repo.Insert(ctx, &sessions.Session{
		Token: "dead", Username: "alice",
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Insert(ctx, &sessions.Session{
		Token: "live", Username: "alice",
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	require.NoError(t, repo.DeleteExpired(ctx, now))

	_, err := repo.Get(ctx, "dead")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.Get(ctx, "live")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "live"))
	require.NoError(t, repo.Delete(ctx, "live")) // idempotent
}
