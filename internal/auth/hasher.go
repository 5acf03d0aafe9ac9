package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns passwords into stored credentials and checks candidates
// against them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// SHA256Hasher stores a single unsalted SHA-256 hex digest. It is weak on
// purpose; the seeded accounts use it.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	return SHA256Hex(password), nil
}

func (SHA256Hasher) Verify(password, stored string) bool {
	return SHA256Hex(password) == stored
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (BcryptHasher) Verify(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewHasher returns the hasher registered under name ("sha256" or "bcrypt").
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %s", name)
	}
}

// SHA256Hex returns the lowercase hex SHA-256 digest of s.
func SHA256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// DoubleSHA256Hex hashes the hex digest of s a second time.
func DoubleSHA256Hex(s string) string {
	return SHA256Hex(SHA256Hex(s))
}
