package command

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/fractional/internal/services/ledger/core/encoding"
)

var (
	// ErrTypeRequired indicates a missing command type.
	ErrTypeRequired = errors.New("command type is required")
	// ErrTypeUnknown indicates an unregistered command type.
	ErrTypeUnknown = errors.New("command type is not registered")
	// ErrActorIDRequired indicates a command without a caller.
	ErrActorIDRequired = errors.New("actor id is required")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be valid")
)

// Type names a ledger operation, e.g. "asset.transfer".
type Type string

func (t Type) normalized() Type {
	return Type(strings.TrimSpace(string(t)))
}

// Command is one requested ledger mutation. The envelope ids are copied onto
// every event the command produces.
type Command struct {
	Type          Type
	ActorID       string
	RequestID     string
	InvocationID  string
	CorrelationID string
	CausationID   string
	PayloadJSON   []byte
}

// PayloadValidator checks a canonical payload document.
type PayloadValidator func(json.RawMessage) error

// Definition describes how the engine admits one command type.
type Definition struct {
	Type            Type
	ValidatePayload PayloadValidator
	// Pausable commands are refused while the ledger is paused.
	Pausable bool
}

// Registry holds the admitted command types.
type Registry struct {
	byType map[Type]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[Type]Definition)}
}

// Register admits a command type. Each type may be registered once.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = def.Type.normalized()
	switch _, dup := r.byType[def.Type]; {
	case def.Type == "":
		return ErrTypeRequired
	case dup:
		return fmt.Errorf("command type already registered: %s", def.Type)
	}
	r.byType[def.Type] = def
	return nil
}

// ValidateForDecision trims the envelope, rewrites the payload in canonical
// form and runs the type's payload validator.
func (r *Registry) ValidateForDecision(cmd Command) (Command, error) {
	cmd.Type = cmd.Type.normalized()
	if cmd.Type == "" {
		return Command{}, ErrTypeRequired
	}
	def, ok := r.byType[cmd.Type]
	if !ok {
		return Command{}, fmt.Errorf("%s: %w", cmd.Type, ErrTypeUnknown)
	}
	if cmd.ActorID = strings.TrimSpace(cmd.ActorID); cmd.ActorID == "" {
		return Command{}, ErrActorIDRequired
	}

	payload, err := canonicalPayload(cmd.PayloadJSON)
	if err != nil {
		return Command{}, err
	}
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(payload); err != nil {
			return Command{}, fmt.Errorf("%s payload invalid: %w", cmd.Type, err)
		}
	}
	cmd.PayloadJSON = payload
	return cmd, nil
}

// canonicalPayload treats an absent payload as an empty object.
func canonicalPayload(raw []byte) (json.RawMessage, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return nil, ErrPayloadInvalid
	}
	canonical, err := encoding.CanonicalJSON(json.RawMessage(raw))
	if err != nil {
		return nil, fmt.Errorf("canonical payload json: %w", err)
	}
	return canonical, nil
}

// Definition looks up a registered command type.
func (r *Registry) Definition(cmdType Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	def, ok := r.byType[cmdType.normalized()]
	return def, ok
}

// ListDefinitions returns the registered definitions ordered by type.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.byType) == 0 {
		return nil
	}
	defs := make([]Definition, 0, len(r.byType))
	for _, def := range r.byType {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b Definition) int { return cmp.Compare(a.Type, b.Type) })
	return defs
}
