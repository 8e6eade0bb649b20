// Package hmackey generates the root keys that sign ledger journal events.
package hmackey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/fractional/internal/platform/config"
)

// Config holds configuration for HMAC key generation.
type Config struct {
	Bytes int
	// KeyID, when set, emits a rotation-ready EVENT_HMAC_KEYS entry instead
	// of a single EVENT_HMAC_KEY.
	KeyID string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: 32}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "number of random bytes")
	fs.StringVar(&cfg.KeyID, "key-id", "", "key id for a keyring entry (id=key)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates the key and writes it to out as an env assignment.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if cfg.Bytes < 16 {
		return errors.New("bytes must be at least 16")
	}
	if out == nil {
		return errors.New("output is required")
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if strings.ContainsAny(keyID, "=,") {
		return fmt.Errorf("key id %q must not contain '=' or ','", keyID)
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	key := hex.EncodeToString(buf)
	if keyID == "" {
		_, err := fmt.Fprintf(out, "%sEVENT_HMAC_KEY=%s\n", config.EnvPrefix, key)
		return err
	}
	if _, err := fmt.Fprintf(out, "%sEVENT_HMAC_KEYS=%s=%s\n", config.EnvPrefix, keyID, key); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%sEVENT_HMAC_KEY_ID=%s\n", config.EnvPrefix, keyID)
	return err
}
