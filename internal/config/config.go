// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skairipa/hannaterm/internal/auth"
	"github.com/skairipa/hannaterm/internal/bridge"
	"github.com/skairipa/hannaterm/internal/session"
	"github.com/skairipa/hannaterm/internal/snapshot"
	"github.com/skairipa/hannaterm/internal/vfs"
)

// Config holds server and console configuration.
type Config struct {
	// Server
	ListenAddr  string
	MetricsAddr string

	// Logging
	LogLevel  string
	LogFormat string

	// TLS (optional, if both set the server uses HTTPS)
	TLSCertFile string
	TLSKeyFile  string

	// Sessions
	JWTSecret          string
	SessionTTL         time.Duration
	SessionIdleTimeout time.Duration
	Hostname           string
	Location           *time.Location

	// Auth
	HashAlgorithm        string
	PasswordHashes       map[string]string
	SharedSecretSegments []string

	// Filesystem
	StrictKinds bool

	// Snapshots ("none", "memory", "local", "s3" or "postgres")
	SnapshotBackend string
	SnapshotDir     string
	DatabaseURL     string
	S3Endpoint      string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Region        string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:         envOr("LISTEN_ADDR", ":8080"),
		MetricsAddr:        envOr("METRICS_ADDR", ":9090"),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		LogFormat:          envOr("LOG_FORMAT", "json"),
		TLSCertFile:        envOr("TLS_CERT_FILE", ""),
		TLSKeyFile:         envOr("TLS_KEY_FILE", ""),
		JWTSecret:          envOr("JWT_SECRET", ""),
		SessionTTL:         envDuration("SESSION_TTL", 12*time.Hour),
		SessionIdleTimeout: envDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		Hostname:           envOr("HOSTNAME_LABEL", "hanna-terminal"),
		HashAlgorithm:      envOr("HASH_ALGORITHM", "sha256"),
		StrictKinds:        envBool("STRICT_KINDS", false),
		SnapshotBackend:    envOr("SNAPSHOT_BACKEND", "none"),
		SnapshotDir:        envOr("SNAPSHOT_DIR", "/data/snapshots"),
		DatabaseURL:        envOr("DATABASE_URL", ""),
		S3Endpoint:         envOr("S3_ENDPOINT", ""),
		S3Bucket:           envOr("S3_BUCKET", "hannaterm"),
		S3AccessKey:        envOr("S3_ACCESS_KEY", ""),
		S3SecretKey:        envOr("S3_SECRET_KEY", ""),
		S3Region:           envOr("S3_REGION", "us-east-1"),
	}

	loc, err := time.LoadLocation(envOr("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.PasswordHashes, err = parsePasswordHashes(os.Getenv("USER_PASSWORD_HASHES"))
	if err != nil {
		return nil, err
	}
	if v := os.Getenv("SHARED_SECRET_HASH"); v != "" {
		cfg.SharedSecretSegments = strings.Split(v, ":")
	}

	switch cfg.HashAlgorithm {
	case "sha256", "bcrypt":
	default:
		return nil, fmt.Errorf("HASH_ALGORITHM must be sha256 or bcrypt, got %q", cfg.HashAlgorithm)
	}

	switch cfg.SnapshotBackend {
	case "none", "memory", "local", "s3":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres snapshot backend")
		}
	default:
		return nil, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	return cfg, nil
}

// LoadServer is Load plus the settings only the HTTP server needs.
func LoadServer() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// TLSEnabled reports whether the server should use HTTPS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Snapshot returns the snapshot store configuration.
func (c *Config) Snapshot() snapshot.Config {
	return snapshot.Config{
		Backend:     c.SnapshotBackend,
		Dir:         c.SnapshotDir,
		DatabaseURL: c.DatabaseURL,
		S3: snapshot.S3Config{
			Endpoint:  c.S3Endpoint,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Region:    c.S3Region,
			Prefix:    "snapshots",
		},
	}
}

// ControllerOptions translates the terminal settings into options shared
// by every session controller.
func (c *Config) ControllerOptions() ([]session.Option, error) {
	hasher, err := auth.NewHasher(c.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	authOpts := []auth.Option{auth.WithHasher(hasher)}
	if len(c.PasswordHashes) > 0 {
		authOpts = append(authOpts, auth.WithPasswordHashes(c.PasswordHashes))
	}
	if len(c.SharedSecretSegments) > 0 {
		authOpts = append(authOpts, auth.WithSharedSecretHash(strings.Join(c.SharedSecretSegments, "")))
	}

	opts := []session.Option{
		session.WithHostname(c.Hostname),
		session.WithClock(bridge.SystemClock{Location: c.Location}),
		session.WithAuthOptions(authOpts...),
	}
	if c.StrictKinds {
		opts = append(opts, session.WithFSOptions(vfs.WithStrictKinds()))
	}
	return opts, nil
}

// parsePasswordHashes reads "user:hash,user:hash".
func parsePasswordHashes(v string) (map[string]string, error) {
	out := make(map[string]string)
	if v == "" {
		return out, nil
	}
	for _, pair := range strings.Split(v, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		user, hash, ok := strings.Cut(pair, ":")
		if !ok || user == "" || hash == "" {
			return nil, fmt.Errorf("USER_PASSWORD_HASHES: malformed entry %q", pair)
		}
		out[user] = hash
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
