package filter

import (
	"testing"
	"time"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

func TestParseEventFilterEmpty(t *testing.T) {
	cond, err := ParseEventFilter("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cond.Empty() {
		t.Fatalf("expected empty condition, got %q", cond.Clause)
	}
	if !cond.Match(event.Event{Type: "asset.minted"}) {
		t.Fatal("empty condition should match everything")
	}
}

func TestParseEventFilterSQL(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{
			name:       "equality",
			filter:     `type = "asset.transferred"`,
			wantClause: "event_type = ?",
			wantParams: []any{"asset.transferred"},
		},
		{
			name:       "and",
			filter:     `entity_type = "asset" AND entity_id = "1"`,
			wantClause: "(entity_type = ? AND entity_id = ?)",
			wantParams: []any{"asset", "1"},
		},
		{
			name:       "or",
			filter:     `actor_id = "alice" OR actor_id = "bob"`,
			wantClause: "(actor_id = ? OR actor_id = ?)",
			wantParams: []any{"alice", "bob"},
		},
		{
			name:       "timestamp",
			filter:     `ts >= timestamp("2026-03-01T00:00:00Z")`,
			wantClause: "timestamp_ms >= ?",
			wantParams: []any{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseEventFilter(tt.filter)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cond.Clause != tt.wantClause {
				t.Fatalf("clause = %q, want %q", cond.Clause, tt.wantClause)
			}
			if len(cond.Params) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", cond.Params, tt.wantParams)
			}
			for i := range tt.wantParams {
				if cond.Params[i] != tt.wantParams[i] {
					t.Fatalf("param %d = %v, want %v", i, cond.Params[i], tt.wantParams[i])
				}
			}
		})
	}
}

func TestConditionMatch(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	evt := event.Event{
		Type:       "asset.transferred",
		ActorID:    "alice",
		EntityType: "asset",
		EntityID:   "1",
		Timestamp:  at,
	}

	tests := []struct {
		filter string
		want   bool
	}{
		{`type = "asset.transferred"`, true},
		{`type != "asset.transferred"`, false},
		{`entity_id = "1" AND actor_id = "alice"`, true},
		{`entity_id = "2" OR actor_id = "alice"`, true},
		{`entity_id = "2" OR actor_id = "bob"`, false},
		{`ts > timestamp("2026-03-01T09:00:00Z")`, true},
		{`ts < timestamp("2026-03-01T09:00:00Z")`, false},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			cond, err := ParseEventFilter(tt.filter)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := cond.Match(evt); got != tt.want {
				t.Fatalf("match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEventFilterErrors(t *testing.T) {
	for _, filter := range []string{
		`unknown_field = "x"`,
		`type = `,
		`ts > timestamp("yesterday")`,
	} {
		t.Run(filter, func(t *testing.T) {
			if _, err := ParseEventFilter(filter); err == nil {
				t.Fatalf("expected error for %q", filter)
			}
		})
	}
}
