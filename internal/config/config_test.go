package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/skairipa/hannaterm/internal/auth"
	"github.com/skairipa/hannaterm/internal/session"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Errorf("addrs = %q, %q", cfg.ListenAddr, cfg.MetricsAddr)
	}
	if cfg.SessionTTL != 12*time.Hour || cfg.SessionIdleTimeout != 30*time.Minute {
		t.Errorf("durations = %v, %v", cfg.SessionTTL, cfg.SessionIdleTimeout)
	}
	if cfg.Hostname != "hanna-terminal" || cfg.HashAlgorithm != "sha256" || cfg.SnapshotBackend != "none" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v", cfg.Location)
	}
	if len(cfg.PasswordHashes) != 0 || cfg.SharedSecretSegments != nil {
		t.Errorf("unexpected auth overrides: %v %v", cfg.PasswordHashes, cfg.SharedSecretSegments)
	}
	if cfg.TLSEnabled() {
		t.Error("TLS enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":1234")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("SESSION_TTL", "garbage")
	t.Setenv("STRICT_KINDS", "true")
	t.Setenv("USER_PASSWORD_HASHES", "skairipa:abc, root:def")
	t.Setenv("SHARED_SECRET_HASH", "aaaa:bbbb:cccc")
	t.Setenv("SNAPSHOT_BACKEND", "local")
	t.Setenv("SNAPSHOT_DIR", "/tmp/snaps")
	t.Setenv("HASH_ALGORITHM", "bcrypt")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":1234" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.SessionIdleTimeout != 5*time.Minute {
		t.Errorf("SessionIdleTimeout = %v", cfg.SessionIdleTimeout)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("invalid SESSION_TTL should fall back, got %v", cfg.SessionTTL)
	}
	if !cfg.StrictKinds || cfg.HashAlgorithm != "bcrypt" {
		t.Errorf("cfg = %+v", cfg)
	}
	if want := map[string]string{"skairipa": "abc", "root": "def"}; !reflect.DeepEqual(cfg.PasswordHashes, want) {
		t.Errorf("PasswordHashes = %v", cfg.PasswordHashes)
	}
	if want := []string{"aaaa", "bbbb", "cccc"}; !reflect.DeepEqual(cfg.SharedSecretSegments, want) {
		t.Errorf("SharedSecretSegments = %v", cfg.SharedSecretSegments)
	}
	snap := cfg.Snapshot()
	if snap.Backend != "local" || snap.Dir != "/tmp/snaps" {
		t.Errorf("Snapshot() = %+v", snap)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad hash algorithm", map[string]string{"HASH_ALGORITHM": "md5"}},
		{"bad backend", map[string]string{"SNAPSHOT_BACKEND": "tape"}},
		{"postgres without url", map[string]string{"SNAPSHOT_BACKEND": "postgres"}},
		{"half tls", map[string]string{"TLS_CERT_FILE": "cert.pem"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus_Mons"}},
		{"malformed hashes", map[string]string{"USER_PASSWORD_HASHES": "skairipa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadServerRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadServer(); err == nil {
		t.Error("expected an error without JWT_SECRET")
	}
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := LoadServer()
	if err != nil || cfg.JWTSecret != "s3cret" {
		t.Errorf("LoadServer = %+v, %v", cfg, err)
	}
}

func TestControllerOptions(t *testing.T) {
	secret := auth.DoubleSHA256Hex("open sesame")
	cfg := &Config{
		HashAlgorithm:        "sha256",
		Hostname:             "box",
		Location:             time.UTC,
		PasswordHashes:       map[string]string{"root": auth.SHA256Hex("pw")},
		SharedSecretSegments: []string{secret[:32], secret[32:]},
		StrictKinds:          true,
	}
	opts, err := cfg.ControllerOptions()
	if err != nil {
		t.Fatal(err)
	}

	c := session.New(opts...)
	if got := c.Execute("root"); got != session.UsernameOK {
		t.Fatalf("username step = %q", got)
	}
	if got := c.Execute("pw"); !strings.HasPrefix(got, session.LoginSuccess) {
		t.Fatalf("password step = %q", got)
	}
	if got := c.Prompt(); got != "root@box:/root # " {
		t.Errorf("Prompt = %q", got)
	}
	if !c.FS().Strict() {
		t.Error("strict kinds not applied")
	}
	if !c.VerifySharedSecret("open sesame") {
		t.Error("shared secret segments not applied")
	}
}

func TestControllerOptionsBadHasher(t *testing.T) {
	cfg := &Config{HashAlgorithm: "md5"}
	if _, err := cfg.ControllerOptions(); err == nil {
		t.Error("expected error for unknown hash algorithm")
	}
}
