package sessions

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
)

// SqliteRepo stores sessions in the sqlite database opened by internal/storage.
type SqliteRepo struct {
	db *sql.DB
}

func NewSqliteRepo(db *sql.DB) *SqliteRepo {
	return &SqliteRepo{db: db}
}

var _ Repo = (*SqliteRepo)(nil)

func (r *SqliteRepo) Insert(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, username, roles, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.Token, s.Username, strings.Join(s.Roles, ","), s.CreatedAt.Unix(), s.ExpiresAt.Unix())
	return errors.Wrap(err, "[sessions.SqliteRepo.Insert] exec")
}

func (r *SqliteRepo) Get(ctx context.Context, token string) (*Session, error) {
	var (
		s         Session
		roles     string
		createdAt int64
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT token, username, roles, created_at, expires_at
		FROM sessions WHERE token = ?`, token).
		Scan(&s.Token, &s.Username, &roles, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[sessions.SqliteRepo.Get] scan")
	}
	if roles != "" {
		s.Roles = strings.Split(roles, ",")
	}
	s.CreatedAt = time.Unix(createdAt, 0)
	s.ExpiresAt = time.Unix(expiresAt, 0)
	return &s, nil
}

func (r *SqliteRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return errors.Wrap(err, "[sessions.SqliteRepo.Delete] exec")
}

func (r *SqliteRepo) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, cutoff.Unix())
	return errors.Wrap(err, "[sessions.SqliteRepo.DeleteExpired] exec")
}
