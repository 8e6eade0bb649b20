package service

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/fractional/internal/platform/config"
	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
)

// bearerTokenEnv holds raw env values before post-parse validation.
type bearerTokenEnv struct {
	Issuer    string `env:"MCP_JWT_ISSUER"`
	Audience  string `env:"MCP_JWT_AUDIENCE"`
	PublicKey string `env:"MCP_JWT_PUBLIC_KEY"`
}

// TokenVerifierConfig defines how bearer tokens are verified.
type TokenVerifierConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// TokenVerifier verifies EdDSA-signed bearer tokens and yields the subject as
// the acting account.
type TokenVerifier struct {
	cfg TokenVerifierConfig
}

// LoadTokenVerifierConfigFromEnv reads bearer token verification settings.
func LoadTokenVerifierConfigFromEnv(now func() time.Time) (TokenVerifierConfig, error) {
	var raw bearerTokenEnv
	if err := config.ParseEnv(&raw); err != nil {
		return TokenVerifierConfig{}, fmt.Errorf("parse mcp jwt env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return TokenVerifierConfig{}, fmt.Errorf("%sMCP_JWT_ISSUER is required", config.EnvPrefix)
	}
	if audience == "" {
		return TokenVerifierConfig{}, fmt.Errorf("%sMCP_JWT_AUDIENCE is required", config.EnvPrefix)
	}
	if publicKey == "" {
		return TokenVerifierConfig{}, fmt.Errorf("%sMCP_JWT_PUBLIC_KEY is required", config.EnvPrefix)
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return TokenVerifierConfig{}, fmt.Errorf("decode mcp jwt public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return TokenVerifierConfig{}, fmt.Errorf("mcp jwt public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return TokenVerifierConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// NewTokenVerifier validates cfg and builds a verifier.
func NewTokenVerifier(cfg TokenVerifierConfig) (*TokenVerifier, error) {
	if strings.TrimSpace(cfg.Issuer) == "" || strings.TrimSpace(cfg.Audience) == "" {
		return nil, fmt.Errorf("issuer and audience are required")
	}
	if len(cfg.Key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes", ed25519.PublicKeySize)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenVerifier{cfg: cfg}, nil
}

// Verify checks the token signature and registered claims and returns the
// subject.
func (v *TokenVerifier) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", unauthorized("bearer token is required")
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.cfg.Key, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", mapJWTError(err)
	}

	now := v.cfg.Now().UTC()
	if claims.Issuer != v.cfg.Issuer {
		return "", unauthorized("bearer token issuer mismatch")
	}
	if !audienceContains(claims.Audience, v.cfg.Audience) {
		return "", unauthorized("bearer token audience mismatch")
	}
	if claims.ExpiresAt == nil {
		return "", unauthorized("bearer token expiry is required")
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return "", unauthorized("bearer token expired")
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return "", unauthorized("bearer token not active yet")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", unauthorized("bearer token subject is required")
	}
	return subject, nil
}

func unauthorized(message string) error {
	return apperrors.New(apperrors.CodeLedgerUnauthorized, message)
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.Wrap(apperrors.CodeLedgerUnauthorized, "bearer token is malformed", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.CodeLedgerUnauthorized, "bearer token signature is invalid", err)
	default:
		return apperrors.Wrap(apperrors.CodeLedgerUnauthorized, "bearer token is invalid", err)
	}
}

func audienceContains(audience jwt.ClaimStrings, expected string) bool {
	for _, value := range audience {
		if value == expected {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// validateLocalRequest checks Host and Origin against the allowed hosts so a
// remote page cannot reach a local server through DNS rebinding.
func (t *HTTPTransport) validateLocalRequest(r *http.Request) error {
	if r == nil {
		return fmt.Errorf("invalid request")
	}
	if !t.isAllowedHostHeader(r.Host) {
		return fmt.Errorf("invalid host")
	}

	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid origin")
	}
	if !t.isAllowedHostHeader(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

// isAllowedHostHeader reports whether a Host or Origin value is loopback or
// explicitly allowed.
func (t *HTTPTransport) isAllowedHostHeader(host string) bool {
	resolved, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolved) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(resolved)]
	return ok
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		result[strings.ToLower(trimmed)] = struct{}{}
	}
	return result
}

// normalizeHost strips the port from a Host or Origin authority.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}
	if strings.HasPrefix(host, "[") {
		if splitHost, _, err := net.SplitHostPort(host); err == nil {
			return splitHost, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]"), true
		}
		return "", false
	}
	if strings.Count(host, ":") > 1 {
		return host, true
	}
	if strings.Contains(host, ":") {
		splitHost, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return splitHost, true
	}
	return host, true
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="fractional-ledger"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}
