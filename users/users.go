package users

import (
	"time"
)

// Status is the lifecycle flag of a credential record.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Quota holds the structured account limits. Informational in this service
// beyond the page-count ceiling; downstream consumers may enforce the rest.
type Quota struct {
	MaxPages int `json:"max_pages,omitempty"`
	MaxFiles int `json:"max_files,omitempty"`
}

// Credential is one account record. It is created out-of-band by the
// provisioning tool (cmd/useradd) and read-only to the serving path:
// login and logout never mutate it.
type Credential struct {
	Username     string     `json:"username"`
	PasswordHash []byte     `json:"-"` // PBKDF2 digest - never serialize
	Salt         []byte     `json:"-"`
	Iterations   int        `json:"-"`
	Digest       string     `json:"-"` // digest algorithm name, e.g. "sha256"
	Roles        []string   `json:"roles,omitempty"`
	Quota        Quota      `json:"quota,omitempty"`
	Expires      *time.Time `json:"expires,omitempty"`
	Status       Status     `json:"status,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
}

// Expired reports whether the record's expiry date has passed. A record with
// no expiry never expires.
func (c *Credential) Expired(now time.Time) bool {
	return c.Expires != nil && now.After(*c.Expires)
}

// Disabled reports whether the record must never authenticate.
func (c *Credential) Disabled() bool {
	return c.Status == StatusDisabled
}
