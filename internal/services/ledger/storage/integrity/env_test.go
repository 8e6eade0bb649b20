package integrity

import "testing"

func clearKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEY", "")
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEYS", "")
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEY_ID", "")
}

func TestKeyringFromEnvRequiresKey(t *testing.T) {
	clearKeyEnv(t)
	if _, err := KeyringFromEnv(); err == nil {
		t.Fatal("expected error when no key is configured")
	}
}

func TestKeyringFromEnvSingleKey(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEY", "secret")

	ring, err := KeyringFromEnv()
	if err != nil {
		t.Fatalf("keyring from env: %v", err)
	}
	if ring.ActiveKeyID() != "v1" {
		t.Fatalf("expected default key id v1, got %s", ring.ActiveKeyID())
	}
}

func TestKeyringFromEnvKeySet(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEYS", "v1=old, v2=new")
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEY_ID", "v2")

	ring, err := KeyringFromEnv()
	if err != nil {
		t.Fatalf("keyring from env: %v", err)
	}
	if ring.ActiveKeyID() != "v2" {
		t.Fatalf("expected key id v2, got %s", ring.ActiveKeyID())
	}
}

func TestKeyringFromEnvRejectsMalformedEntries(t *testing.T) {
	for _, raw := range []string{"v1", "=secret", "v1="} {
		t.Run(raw, func(t *testing.T) {
			clearKeyEnv(t)
			t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEYS", raw)
			if _, err := KeyringFromEnv(); err == nil {
				t.Fatalf("expected error for %q", raw)
			}
		})
	}
}

func TestKeyringFromEnvActiveKeyMustExist(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEYS", "v1=old")
	t.Setenv("FRACTIONAL_LEDGER_EVENT_HMAC_KEY_ID", "v9")
	if _, err := KeyringFromEnv(); err == nil {
		t.Fatal("expected error for unknown active key id")
	}
}
