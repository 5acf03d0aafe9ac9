// Package auth verifies terminal logins against a small identity registry
// and issues the tokens that bind HTTP clients to their terminal session.
package auth

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/skairipa/hannaterm/internal/logging"
	"github.com/skairipa/hannaterm/internal/metrics"
)

// MaxFailedAttempts is the number of wrong passwords after which an
// account refuses every further attempt until an administrator resets it.
const MaxFailedAttempts = 3

// Session owns the identity registry and the failed attempt counters of one
// terminal.
type Session struct {
	users            map[string]*Identity
	attempts         map[string]int
	hasher           Hasher
	sharedSecretHash string
}

// Option configures a Session.
type Option func(*Session)

// WithHasher sets the password strategy. The default is SHA256Hasher.
func WithHasher(h Hasher) Option {
	return func(s *Session) { s.hasher = h }
}

// WithIdentities replaces the default accounts.
func WithIdentities(ids ...Identity) Option {
	return func(s *Session) {
		s.users = make(map[string]*Identity, len(ids))
		for _, id := range ids {
			c := id.clone()
			s.users[id.Username] = &c
		}
	}
}

// WithPasswordHashes overrides stored credentials by username. Unknown
// usernames are ignored.
func WithPasswordHashes(hashes map[string]string) Option {
	return func(s *Session) {
		for username, hash := range hashes {
			if id, ok := s.users[username]; ok {
				id.PasswordHash = hash
			}
		}
	}
}

// WithSharedSecretHash sets the double SHA-256 digest of the shared passphrase.
func WithSharedSecretHash(hash string) Option {
	return func(s *Session) { s.sharedSecretHash = hash }
}

// NewSession creates a Session seeded with DefaultIdentities.
func NewSession(opts ...Option) *Session {
	s := &Session{
		attempts: make(map[string]int),
		hasher:   SHA256Hasher{},
	}
	WithIdentities(DefaultIdentities()...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify checks a password. A locked account is rejected without looking
// at the password; a correct password resets the failed attempt counter.
func (s *Session) Verify(username, password string) (Identity, error) {
	if s.attempts[username] >= MaxFailedAttempts {
		metrics.RecordAuthAttempt("locked")
		logging.Warn("login refused: account locked", zap.String("username", username))
		return Identity{}, ErrAccountLocked
	}

	id, ok := s.users[username]
	if !ok {
		metrics.RecordAuthAttempt("unknown_user")
		logging.Warn("login failed: unknown user", zap.String("username", username))
		return Identity{}, ErrUserNotFound
	}

	if !s.hasher.Verify(password, id.PasswordHash) {
		s.attempts[username]++
		metrics.RecordAuthAttempt("incorrect_password")
		logging.Warn("login failed: invalid password",
			zap.String("username", username),
			zap.Int("attempts", s.attempts[username]))
		if s.attempts[username] == MaxFailedAttempts {
			metrics.RecordLockout()
		}
		return Identity{}, ErrIncorrectPassword
	}

	s.attempts[username] = 0
	metrics.RecordAuthAttempt("success")
	logging.Debug("login succeeded", zap.String("username", username))
	return id.clone(), nil
}

// VerifySharedSecret compares the double SHA-256 of candidate with the
// configured digest. There is no attempt limit on this path.
func (s *Session) VerifySharedSecret(candidate string) bool {
	if s.sharedSecretHash == "" {
		return false
	}
	return DoubleSHA256Hex(candidate) == s.sharedSecretHash
}

// SetUserPassword replaces a stored credential, encoded for the configured
// hasher, and clears the account's failed attempt counter.
func (s *Session) SetUserPassword(username, hash string) error {
	id, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	id.PasswordHash = hash
	delete(s.attempts, username)
	logging.Info("password hash overridden", zap.String("username", username))
	return nil
}

// SetSharedSecretHash sets the shared passphrase digest. The digest may be
// passed in several segments which are concatenated.
func (s *Session) SetSharedSecretHash(segments ...string) {
	s.sharedSecretHash = strings.Join(segments, "")
}

// UserExists reports whether username is registered.
func (s *Session) UserExists(username string) bool {
	_, ok := s.users[username]
	return ok
}

// Lookup returns a copy of the named identity.
func (s *Session) Lookup(username string) (Identity, bool) {
	id, ok := s.users[username]
	if !ok {
		return Identity{}, false
	}
	return id.clone(), true
}

// ListUsers returns all usernames in sorted order.
func (s *Session) ListUsers() []string {
	names := make([]string, 0, len(s.users))
	for name := range s.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FailedAttempts returns the current failed attempt count for username.
func (s *Session) FailedAttempts(username string) int {
	return s.attempts[username]
}

// Hasher returns the configured password strategy.
func (s *Session) Hasher() Hasher {
	return s.hasher
}
