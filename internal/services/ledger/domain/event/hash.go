package event

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/fractional/internal/services/ledger/core/encoding"
)

// hashEnvelope lists every field covered by the content hash. Seq and the
// integrity fields are excluded so the hash can be computed before append.
type hashEnvelope struct {
	Type          string          `json:"type"`
	Timestamp     string          `json:"timestamp"`
	ActorID       string          `json:"actor_id"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	RequestID     string          `json:"request_id"`
	InvocationID  string          `json:"invocation_id"`
	CorrelationID string          `json:"correlation_id"`
	CausationID   string          `json:"causation_id"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHash computes the content hash of a single event.
func EventHash(evt Event) (string, error) {
	payload := json.RawMessage(evt.PayloadJSON)
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return encoding.ContentHash(hashEnvelope{
		Type:          string(evt.Type),
		Timestamp:     evt.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorID:       evt.ActorID,
		EntityType:    evt.EntityType,
		EntityID:      evt.EntityID,
		RequestID:     evt.RequestID,
		InvocationID:  evt.InvocationID,
		CorrelationID: evt.CorrelationID,
		CausationID:   evt.CausationID,
		Payload:       payload,
	})
}

// ChainHash links an event to its predecessor by hashing the sequence, the
// event's content hash, and the previous chain hash.
func ChainHash(evt Event, prevHash string) (string, error) {
	hash := evt.Hash
	if hash == "" {
		computed, err := EventHash(evt)
		if err != nil {
			return "", err
		}
		hash = computed
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s:%s", evt.Seq, hash, prevHash)))
	return hex.EncodeToString(sum[:]), nil
}
