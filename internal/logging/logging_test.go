package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLevels(t *testing.T) {
	if err := Init(Config{Level: "warn", Format: "console", OutputPath: "stderr"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if L().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	SetLevel("debug")
	if !L().Core().Enabled(zapcore.DebugLevel) {
		t.Error("SetLevel(debug) did not take effect")
	}
	SetLevel("bogus")
	if !L().Core().Enabled(zapcore.DebugLevel) {
		t.Error("invalid level should be ignored")
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	if err := Init(Config{Level: "loud", Format: "json", OutputPath: "stderr"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !L().Core().Enabled(zapcore.InfoLevel) || L().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected info level")
	}
}

func TestWithRequestID(t *testing.T) {
	InitNop()
	ctx := WithRequestID(context.Background(), "req-1")
	if GetRequestID(ctx) != "req-1" {
		t.Errorf("GetRequestID = %q", GetRequestID(ctx))
	}
	if WithContext(ctx) == L() {
		t.Error("expected a derived logger in context")
	}
	if GetRequestID(context.Background()) != "" {
		t.Error("expected empty request id")
	}
}

func TestMiddlewareSetsRequestID(t *testing.T) {
	InitNop()
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("request id %q not propagated (header %q)", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "given" {
		t.Errorf("request id = %q, want given", seen)
	}
}

func TestWithSessionKeepsRequestID(t *testing.T) {
	InitNop()
	ctx := WithRequestID(context.Background(), "req-2")
	ctx = WithSession(ctx, "sess-1")
	if GetRequestID(ctx) != "req-2" {
		t.Errorf("GetRequestID after WithSession = %q", GetRequestID(ctx))
	}
}

func TestInitFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := Init(Config{Level: "info", Format: "json", OutputPath: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer InitNop()

	Info("terminal ready", zap.String("host", "hanna-terminal"))
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"terminal ready"`) || !strings.Contains(line, `"host":"hanna-terminal"`) {
		t.Errorf("log line = %q", line)
	}
}
