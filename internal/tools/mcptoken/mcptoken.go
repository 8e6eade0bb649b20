// Package mcptoken issues the EdDSA keys and bearer tokens accepted by the
// ledger's MCP HTTP transport.
package mcptoken

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/fractional/internal/platform/config"
	"github.com/louisbranch/fractional/internal/platform/id"
)

const (
	modeKeygen = "keygen"
	modeMint   = "mint"
)

// SigningConfig holds the private key and claims used when minting.
type SigningConfig struct {
	PrivateKey string `env:"MCP_JWT_PRIVATE_KEY"`
	Issuer     string `env:"MCP_JWT_ISSUER"`
	Audience   string `env:"MCP_JWT_AUDIENCE"`
}

// Config selects the tool mode and token claims.
type Config struct {
	Mode    string
	Subject string
	TTL     time.Duration
}

// ParseConfig parses "keygen" or "mint [flags]" arguments.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{TTL: time.Hour}
	fs.StringVar(&cfg.Subject, "subject", "", "account the token acts as (mint)")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime (mint)")
	if len(args) == 0 {
		return Config{}, fmt.Errorf("mode is required: %s or %s", modeKeygen, modeMint)
	}
	cfg.Mode = strings.TrimSpace(args[0])
	if err := fs.Parse(args[1:]); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the configured mode.
func Run(cfg Config, out io.Writer, reader io.Reader, now func() time.Time) error {
	if out == nil {
		return errors.New("output is required")
	}
	switch cfg.Mode {
	case modeKeygen:
		return Keygen(out, reader)
	case modeMint:
		var raw SigningConfig
		if err := config.ParseEnv(&raw); err != nil {
			return err
		}
		token, err := Mint(raw, cfg.Subject, cfg.TTL, now)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, token)
		return err
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// Keygen writes a fresh Ed25519 key pair as env exports.
func Keygen(out io.Writer, reader io.Reader) error {
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate mcp jwt key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export %sMCP_JWT_PRIVATE_KEY=%s\n", config.EnvPrefix, base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "export %sMCP_JWT_PUBLIC_KEY=%s\n", config.EnvPrefix, base64.RawStdEncoding.EncodeToString(publicKey))
	return err
}

// Mint signs a bearer token for subject.
func Mint(raw SigningConfig, subject string, ttl time.Duration, now func() time.Time) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	if issuer == "" || audience == "" {
		return "", fmt.Errorf("%sMCP_JWT_ISSUER and %sMCP_JWT_AUDIENCE are required", config.EnvPrefix, config.EnvPrefix)
	}
	keyBytes, err := decodeBase64(strings.TrimSpace(raw.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("decode mcp jwt private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("mcp jwt private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if now == nil {
		now = time.Now
	}
	issuedAt := now().UTC()
	tokenID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		ID:        tokenID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(ed25519.PrivateKey(keyBytes))
	if err != nil {
		return "", fmt.Errorf("sign mcp token: %w", err)
	}
	return signed, nil
}

func decodeBase64(value string) ([]byte, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
