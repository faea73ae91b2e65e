// Package storage opens the sqlite database backing the credential and
// session stores and applies the schema on startup.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	username        TEXT PRIMARY KEY,
	salt            BLOB NOT NULL,
	iterations      INTEGER NOT NULL,
	digest          TEXT NOT NULL,
	password_hash   BLOB NOT NULL,
	roles           TEXT NOT NULL DEFAULT '',
	max_pages       INTEGER NOT NULL DEFAULT 0,
	max_files       INTEGER NOT NULL DEFAULT 0,
	expires_at      INTEGER,
	status          TEXT NOT NULL DEFAULT 'active',
	created_at      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	token       TEXT PRIMARY KEY,
	username    TEXT NOT NULL,
	roles       TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`

// Open opens (creating if necessary) the sqlite database at path and applies
// the schema. The returned handle is safe for concurrent use.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "[storage.Open] sql.Open")
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent request handling.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "[storage.Open] apply schema")
	}
	return db, nil
}
