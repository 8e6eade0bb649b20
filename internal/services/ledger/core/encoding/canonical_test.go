package encoding

import (
	"encoding/json"
	"testing"
)

func TestCanonicalJSONSortsKeysAtEveryDepth(t *testing.T) {
	got, err := CanonicalJSON(map[string]any{
		"b": 1,
		"a": map[string]any{"z": true, "y": []any{map[string]any{"d": 1, "c": 2}}},
	})
	if err != nil {
		t.Fatalf("canonical json: %v", err)
	}
	want := `{"a":{"y":[{"c":2,"d":1}],"z":true},"b":1}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCanonicalJSONRawInputIsStable(t *testing.T) {
	first, err := CanonicalJSON(json.RawMessage(`{ "amount": "10",  "to": "<bob>" }`))
	if err != nil {
		t.Fatalf("canonical json: %v", err)
	}
	second, err := CanonicalJSON([]byte(`{"to":"<bob>","amount":"10"}`))
	if err != nil {
		t.Fatalf("canonical json: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected identical output, got %s vs %s", first, second)
	}
	if string(first) != `{"amount":"10","to":"<bob>"}` {
		t.Fatalf("unexpected canonical output %s", first)
	}
}

func TestCanonicalJSONPreservesLargeNumbers(t *testing.T) {
	got, err := CanonicalJSON(json.RawMessage(`{"n":123456789012345678901234567890}`))
	if err != nil {
		t.Fatalf("canonical json: %v", err)
	}
	if string(got) != `{"n":123456789012345678901234567890}` {
		t.Fatalf("number not preserved: %s", got)
	}
}

func TestCanonicalJSONRejectsInvalid(t *testing.T) {
	if _, err := CanonicalJSON(json.RawMessage(`{`)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestContentHashIsKeyOrderIndependent(t *testing.T) {
	a, err := ContentHash(map[string]any{"x": 1, "y": 2})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := ContentHash(json.RawMessage(`{"y":2,"x":1}`))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a != b {
		t.Fatalf("expected equal hashes, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
}
