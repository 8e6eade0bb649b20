package event

import "time"

// Type identifies the event type string.
type Type string

// Event is the canonical journal envelope.
type Event struct {
	Seq           uint64
	Type          Type
	Timestamp     time.Time
	ActorID       string
	EntityType    string
	EntityID      string
	RequestID     string
	InvocationID  string
	CorrelationID string
	CausationID   string
	PayloadJSON   []byte

	// Integrity fields are assigned by the journal on append.
	Hash           string
	PrevHash       string
	ChainHash      string
	Signature      string
	SignatureKeyID string
}
