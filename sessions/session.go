package sessions

import "time"

// Session is the server-issued proof of a successful login. Records are
// immutable once created: there is no sliding-expiration refresh, so no
// read-modify-write races exist on this type.
type Session struct {
	Token     string    // high-entropy random identifier, the lookup key
	Username  string    // owning account
	Roles     []string  // snapshot of roles at login time
	CreatedAt time.Time // when the session was created
	ExpiresAt time.Time // absolute instant after which the record is dead
}

// Expired reports whether the session is logically dead at now, regardless
// of whether the backing store has physically purged it yet.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
