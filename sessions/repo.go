package sessions

import (
	"context"
	"time"
)

// Repo defines the durable storage behind the session store. Implementations
// may purge expired rows on their own schedule; logical expiry is enforced
// by Store.Lookup either way.
type Repo interface {
	// Insert persists a new session keyed by its token
	Insert(ctx context.Context, session *Session) error

	// Get retrieves a session by token
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by token; deleting an absent token is not an error
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes sessions whose expiry instant is before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) error
}
