package users

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/invoclear/go-extract-server/internal/errors"
)

// SqliteRepo stores credential records in the sqlite database opened by
// internal/storage.
type SqliteRepo struct {
	db *sql.DB
}

func NewSqliteRepo(db *sql.DB) *SqliteRepo {
	return &SqliteRepo{db: db}
}

var _ Repo = (*SqliteRepo)(nil)

func (r *SqliteRepo) Upsert(ctx context.Context, c *Credential) error {
	if c.Username == "" {
		return errors.New("[SqliteRepo.Upsert] username is required")
	}
	var expires *int64
	if c.Expires != nil {
		unix := c.Expires.Unix()
		expires = &unix
	}
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials
			(username, salt, iterations, digest, password_hash, roles, max_pages, max_files, expires_at, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			salt = excluded.salt,
			iterations = excluded.iterations,
			digest = excluded.digest,
			password_hash = excluded.password_hash,
			roles = excluded.roles,
			max_pages = excluded.max_pages,
			max_files = excluded.max_files,
			expires_at = excluded.expires_at,
			status = excluded.status`,
		c.Username, c.Salt, c.Iterations, c.Digest, c.PasswordHash,
		joinRoles(c.Roles), c.Quota.MaxPages, c.Quota.MaxFiles,
		expires, string(c.Status), createdAt.Unix())
	return errors.Wrap(err, "[SqliteRepo.Upsert] exec")
}

func (r *SqliteRepo) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE username = ?`, username)
	return errors.Wrap(err, "[SqliteRepo.Delete] exec")
}

func (r *SqliteRepo) Get(ctx context.Context, username string) (*Credential, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, salt, iterations, digest, password_hash, roles, max_pages, max_files, expires_at, status, created_at
		FROM credentials WHERE username = ?`, username)
	return scanCredential(row)
}

func (r *SqliteRepo) List(ctx context.Context, offset, limit int) ([]*Credential, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, salt, iterations, digest, password_hash, roles, max_pages, max_files, expires_at, status, created_at
		FROM credentials ORDER BY username LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "[SqliteRepo.List] query")
	}
	defer rows.Close()

	var out []*Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "[SqliteRepo.List] rows")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*Credential, error) {
	var (
		c         Credential
		roles     string
		status    string
		expires   sql.NullInt64
		createdAt int64
	)
	err := row.Scan(&c.Username, &c.Salt, &c.Iterations, &c.Digest, &c.PasswordHash,
		&roles, &c.Quota.MaxPages, &c.Quota.MaxFiles, &expires, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[scanCredential] scan")
	}
	c.Roles = splitRoles(roles)
	c.Status = Status(status)
	c.CreatedAt = time.Unix(createdAt, 0)
	if expires.Valid {
		t := time.Unix(expires.Int64, 0)
		c.Expires = &t
	}
	return &c, nil
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

func splitRoles(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
