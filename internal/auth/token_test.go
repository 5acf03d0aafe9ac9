package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour)
	tok, exp, err := ti.Issue("sess-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Error("expiry is in the past")
	}
	claims, err := ti.Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.SessionID != "sess-1" || claims.Subject != "sess-1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	tok, _, _ := NewTokenIssuer("a", time.Hour).Issue("s")
	if _, err := NewTokenIssuer("b", time.Hour).Validate(tok); err == nil {
		t.Error("token signed with another secret was accepted")
	}

	ti := NewTokenIssuer("a", time.Minute)
	tok, _, _ = ti.Issue("s")
	ti.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := ti.Validate(tok); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestMiddleware(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	var got *Claims
	h := ti.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClaims(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rec.Code)
	}

	tok, _, _ := ti.Issue("abc")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || got == nil || got.SessionID != "abc" {
		t.Errorf("bearer: status = %d, claims = %+v", rec.Code, got)
	}

	got = nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token="+tok, nil))
	if got == nil {
		t.Error("query token fallback not honoured")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d", rec.Code)
	}
}
