// Package trial encodes the anonymous free-trial counter into a signed token
// the caller holds. The server never persists this counter centrally: the
// limit is only as strong as the tamper-resistance of the token, which is a
// deliberate statelessness trade-off. A client that discards its cookie
// starts over at zero.
package trial

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type claims struct {
	jwt.RegisteredClaims
	Count int `json:"count"`
}

// Codec signs and verifies the caller-held trial counter.
type Codec struct {
	secret  []byte
	ttl     time.Duration
	limit   int
	nowTime func() time.Time // injectable for testing
}

type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

func NewCodec(secret []byte, ttl time.Duration, limit int, options ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("[trial.NewCodec] secret is required")
	}
	if limit < 1 {
		return nil, errors.New("[trial.NewCodec] limit must be positive")
	}
	c := &Codec{secret: secret, ttl: ttl, limit: limit, nowTime: time.Now}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Read parses a caller-supplied token and returns its counter. Absent,
// malformed, tampered or expired tokens all read as 0: new visitors get the
// trial, and a broken cookie never locks anyone out.
func (c *Codec) Read(token string) int {
	if token == "" {
		return 0
	}
	parsed := &claims{}
	t, err := jwt.ParseWithClaims(token, parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.nowTime))
	if err != nil || !t.Valid || parsed.Count < 0 {
		return 0
	}
	return parsed.Count
}

// Exceeded reports whether count has used up the free trial.
func (c *Codec) Exceeded(count int) bool {
	return count >= c.limit
}

// Issue signs a fresh token carrying count, valid for the codec's TTL.
func (c *Codec) Issue(count int) (string, error) {
	now := c.nowTime()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Count: count,
	})
	signed, err := token.SignedString(c.secret)
	return signed, errors.Wrap(err, "[Codec.Issue] sign")
}

// Limit returns the configured trial limit.
func (c *Codec) Limit() int {
	return c.limit
}
