package users

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 cost for newly created records.
	// Existing records carry their own iteration count so this can be
	// raised without invalidating them.
	DefaultIterations = 210000

	DefaultDigest = "sha256"

	saltLength = 16
	keyLength  = 32
)

// PasswordRecord is the self-describing verification material stored on a
// Credential: the digest plus every parameter needed to reproduce it.
type PasswordRecord struct {
	Hash       []byte
	Salt       []byte
	Iterations int
	Digest     string
}

// DerivePassword runs PBKDF2 over password with the given parameters.
// Deterministic for fixed inputs, no side effects.
func DerivePassword(password string, salt []byte, iterations int, digest string) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}
	h, err := digestFunc(digest)
	if err != nil {
		return nil, err
	}
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, h), nil
}

// HashPassword creates a fresh PasswordRecord for password using a random
// salt and the current default parameters.
func HashPassword(password string) (*PasswordRecord, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	digest, err := DerivePassword(password, salt, DefaultIterations, DefaultDigest)
	if err != nil {
		return nil, err
	}
	return &PasswordRecord{
		Hash:       digest,
		Salt:       salt,
		Iterations: DefaultIterations,
		Digest:     DefaultDigest,
	}, nil
}

// VerifyPassword recomputes the derivation with the record's stored
// parameters and compares against the stored digest in constant time.
// Every internal failure (unsupported digest, corrupt record) reports false;
// callers must not distinguish why verification failed.
func VerifyPassword(password string, c *Credential) bool {
	if c == nil || len(c.PasswordHash) == 0 {
		return false
	}
	derived, err := DerivePassword(password, c.Salt, c.Iterations, c.Digest)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, c.PasswordHash) == 1
}

func digestFunc(name string) (func() hash.Hash, error) {
	switch name {
	case "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	}
	return nil, fmt.Errorf("unsupported digest algorithm %q", name)
}
