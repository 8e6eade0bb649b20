package service

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/platform/requestctx"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestVerifier(t *testing.T) (*TokenVerifier, ed25519.PrivateKey) {
	t.Helper()
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	verifier, err := NewTokenVerifier(TokenVerifierConfig{
		Issuer:   "fractional-auth",
		Audience: "fractional-ledger",
		Key:      public,
		Now:      func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return verifier, private
}

func signToken(t *testing.T, key ed25519.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "fractional-auth",
		Audience:  jwt.ClaimStrings{"fractional-ledger"},
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(testNow),
	}
}

func TestTokenVerifierAcceptsValidToken(t *testing.T) {
	verifier, key := newTestVerifier(t)
	subject, err := verifier.Verify(signToken(t, key, validClaims()))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("subject = %q, want alice", subject)
	}
}

func TestTokenVerifierRejectsInvalidTokens(t *testing.T) {
	verifier, key := newTestVerifier(t)
	_, otherKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "empty", token: func() string { return "" }},
		{name: "malformed", token: func() string { return "not-a-token" }},
		{name: "wrong key", token: func() string { return signToken(t, otherKey, validClaims()) }},
		{name: "wrong issuer", token: func() string {
			claims := validClaims()
			claims.Issuer = "someone-else"
			return signToken(t, key, claims)
		}},
		{name: "wrong audience", token: func() string {
			claims := validClaims()
			claims.Audience = jwt.ClaimStrings{"web"}
			return signToken(t, key, claims)
		}},
		{name: "missing expiry", token: func() string {
			claims := validClaims()
			claims.ExpiresAt = nil
			return signToken(t, key, claims)
		}},
		{name: "expired", token: func() string {
			claims := validClaims()
			claims.ExpiresAt = jwt.NewNumericDate(testNow.Add(-time.Minute))
			return signToken(t, key, claims)
		}},
		{name: "not yet valid", token: func() string {
			claims := validClaims()
			claims.NotBefore = jwt.NewNumericDate(testNow.Add(time.Minute))
			return signToken(t, key, claims)
		}},
		{name: "missing subject", token: func() string {
			claims := validClaims()
			claims.Subject = " "
			return signToken(t, key, claims)
		}},
		{name: "wrong algorithm", token: func() string {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("secret"))
			if err != nil {
				t.Fatalf("sign hs256: %v", err)
			}
			return signed
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.Verify(tc.token())
			if err == nil {
				t.Fatal("expected error")
			}
			if apperrors.CodeOf(err) != apperrors.CodeLedgerUnauthorized {
				t.Fatalf("code = %s, want %s", apperrors.CodeOf(err), apperrors.CodeLedgerUnauthorized)
			}
		})
	}
}

func TestNewTokenVerifierValidatesConfig(t *testing.T) {
	if _, err := NewTokenVerifier(TokenVerifierConfig{Issuer: "a", Audience: "b", Key: []byte("short")}); err == nil {
		t.Fatal("expected key size error")
	}
	public, _, _ := ed25519.GenerateKey(rand.Reader)
	if _, err := NewTokenVerifier(TokenVerifierConfig{Key: public}); err == nil {
		t.Fatal("expected issuer and audience error")
	}
}

func TestLoadTokenVerifierConfigFromEnv(t *testing.T) {
	public, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	t.Setenv("FRACTIONAL_LEDGER_MCP_JWT_ISSUER", "fractional-auth")
	t.Setenv("FRACTIONAL_LEDGER_MCP_JWT_AUDIENCE", "fractional-ledger")
	t.Setenv("FRACTIONAL_LEDGER_MCP_JWT_PUBLIC_KEY", base64.RawStdEncoding.EncodeToString(public))

	cfg, err := LoadTokenVerifierConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Issuer != "fractional-auth" || cfg.Audience != "fractional-ledger" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.Key.Equal(public) {
		t.Fatal("expected decoded public key")
	}
	if cfg.Now == nil {
		t.Fatal("expected default clock")
	}

	t.Setenv("FRACTIONAL_LEDGER_MCP_JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString([]byte("too-short")))
	if _, err := LoadTokenVerifierConfigFromEnv(nil); err == nil {
		t.Fatal("expected key size error")
	}
	t.Setenv("FRACTIONAL_LEDGER_MCP_JWT_ISSUER", "")
	if _, err := LoadTokenVerifierConfigFromEnv(nil); err == nil || !strings.Contains(err.Error(), "MCP_JWT_ISSUER") {
		t.Fatalf("expected issuer required error, got %v", err)
	}
}

type fakeVerifier struct {
	tokens map[string]string
}

func (f fakeVerifier) Verify(token string) (string, error) {
	if actor, ok := f.tokens[token]; ok {
		return actor, nil
	}
	return "", errors.New("unknown token")
}

func newGuardTransport(t *testing.T) *HTTPTransport {
	t.Helper()
	host, _ := newTestHost(t)
	transport, err := NewHTTPTransport(host, "", fakeVerifier{tokens: map[string]string{"alice-token": "alice", "bob-token": "bob"}})
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	return transport
}

func TestNewHTTPTransportRequiresCollaborators(t *testing.T) {
	host, _ := newTestHost(t)
	if _, err := NewHTTPTransport(nil, "", fakeVerifier{}); err == nil {
		t.Fatal("expected error for nil host")
	}
	if _, err := NewHTTPTransport(host, "", nil); err == nil {
		t.Fatal("expected error for nil verifier")
	}
}

func TestGuardStampsActorAndBindsSession(t *testing.T) {
	transport := newGuardTransport(t)
	var seenActor string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenActor = requestctx.ActorIDFromContext(r.Context())
		w.Header().Set(sessionIDHeader, "session-1")
		w.WriteHeader(http.StatusOK)
	})
	handler := transport.guard(next)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Host = "localhost:8081"
	req.Header.Set("Authorization", "Bearer alice-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if seenActor != "alice" {
		t.Fatalf("actor = %q, want alice", seenActor)
	}
	if owner, ok := transport.sessionOwner("session-1"); !ok || owner != "alice" {
		t.Fatalf("session owner = %q (%v)", owner, ok)
	}

	hijack := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	hijack.Host = "localhost:8081"
	hijack.Header.Set("Authorization", "Bearer bob-token")
	hijack.Header.Set(sessionIDHeader, "session-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, hijack)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("hijack status = %d, want 403", rec.Code)
	}

	closeReq := httptest.NewRequest(http.MethodDelete, "/mcp", nil)
	closeReq.Host = "localhost:8081"
	closeReq.Header.Set("Authorization", "Bearer alice-token")
	closeReq.Header.Set(sessionIDHeader, "session-1")
	handler.ServeHTTP(httptest.NewRecorder(), closeReq)
	if _, ok := transport.sessionOwner("session-1"); ok {
		t.Fatal("expected session to be forgotten after delete")
	}
}

func TestGuardRejectsRequests(t *testing.T) {
	transport := newGuardTransport(t)
	handler := transport.guard(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not run")
	}))

	tests := []struct {
		name   string
		host   string
		origin string
		auth   string
		want   int
	}{
		{name: "foreign host", host: "evil.example", auth: "Bearer alice-token", want: http.StatusForbidden},
		{name: "foreign origin", host: "localhost", origin: "http://evil.example", auth: "Bearer alice-token", want: http.StatusForbidden},
		{name: "missing token", host: "127.0.0.1:8081", want: http.StatusUnauthorized},
		{name: "wrong scheme", host: "[::1]:8081", auth: "Basic abc", want: http.StatusUnauthorized},
		{name: "unknown token", host: "localhost", auth: "Bearer nope", want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
			req.Host = tc.host
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestAllowedHostsFromEnv(t *testing.T) {
	t.Setenv("FRACTIONAL_LEDGER_MCP_ALLOWED_HOSTS", "ledger.internal, ")
	transport := newGuardTransport(t)
	if !transport.isAllowedHostHeader("ledger.internal:8081") {
		t.Fatal("expected configured host to be allowed")
	}
	if !transport.isAllowedHostHeader("LEDGER.internal") {
		t.Fatal("expected host match to ignore case")
	}
	if transport.isAllowedHostHeader("other.internal") {
		t.Fatal("expected unknown host to be rejected")
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := map[string]struct {
		want string
		ok   bool
	}{
		"localhost:8081": {want: "localhost", ok: true},
		"[::1]:8081":     {want: "::1", ok: true},
		"[::1]":          {want: "::1", ok: true},
		"::1":            {want: "::1", ok: true},
		"example.com":    {want: "example.com", ok: true},
		"":               {ok: false},
		"[::1":           {ok: false},
	}
	for input, tc := range tests {
		got, ok := normalizeHost(input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("normalizeHost(%q) = %q, %v; want %q, %v", input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	transport := newGuardTransport(t)
	req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
	rec := httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}
