package integrity

import (
	"fmt"
	"strings"

	"github.com/louisbranch/fractional/internal/platform/config"
)

const defaultKeyID = "v1"

// keyringEnv is read with the FRACTIONAL_LEDGER_ prefix.
type keyringEnv struct {
	Keys  string `env:"EVENT_HMAC_KEYS"`
	Key   string `env:"EVENT_HMAC_KEY"`
	KeyID string `env:"EVENT_HMAC_KEY_ID" envDefault:"v1"`
}

// KeyringFromEnv loads the HMAC keyring from FRACTIONAL_LEDGER_EVENT_HMAC_KEYS
// ("id=key,id=key") or the single FRACTIONAL_LEDGER_EVENT_HMAC_KEY, signing
// with FRACTIONAL_LEDGER_EVENT_HMAC_KEY_ID.
func KeyringFromEnv() (*Keyring, error) {
	var cfg keyringEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		keyID = defaultKeyID
	}

	entries := strings.TrimSpace(cfg.Keys)
	if entries == "" {
		raw := strings.TrimSpace(cfg.Key)
		if raw == "" {
			return nil, fmt.Errorf("%sEVENT_HMAC_KEY is required", config.EnvPrefix)
		}
		return NewKeyring(map[string][]byte{keyID: []byte(raw)}, keyID)
	}

	keys := make(map[string][]byte)
	for _, entry := range strings.Split(entries, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, value, ok := strings.Cut(entry, "=")
		id, value = strings.TrimSpace(id), strings.TrimSpace(value)
		if !ok || id == "" || value == "" {
			return nil, fmt.Errorf("invalid %sEVENT_HMAC_KEYS entry", config.EnvPrefix)
		}
		keys[id] = []byte(value)
	}
	return NewKeyring(keys, keyID)
}
