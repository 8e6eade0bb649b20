package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// Journal persists a decided batch of events in one transaction and returns
// them with sequence numbers and integrity fields assigned.
type Journal interface {
	AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
}

// Pauser reports whether the ledger-wide pause switch is on.
type Pauser interface {
	Paused() bool
}

// Observer receives every committed batch after it has been folded into state.
type Observer func(ctx context.Context, events []event.Event)

// Result captures the outcome of executing a command.
type Result struct {
	Events []event.Event
}

// Handler is the single writer of ledger state. Commands run one at a time:
// validate, gate, decide, append, then fold.
type Handler struct {
	Commands   *command.Registry
	Events     *event.Registry
	Journal    Journal
	Authorizer authz.Authorizer
	Pauser     Pauser
	Now        func() time.Time

	mu        sync.RWMutex
	state     asset.State
	loaded    bool
	observers []Observer
}

// Restore replaces the committed state, typically with the result of a
// journal replay at startup.
func (h *Handler) Restore(state asset.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
	h.loaded = true
}

// Observe registers fn to be called after each committed batch.
func (h *Handler) Observe(fn Observer) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, fn)
}

// View runs fn against committed state under a read lock. fn must not keep
// references to the state's maps.
func (h *Handler) View(fn func(asset.State)) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn(h.currentLocked())
}

// Snapshot returns a deep copy of committed state.
func (h *Handler) Snapshot() asset.State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentLocked().Clone()
}

// Execute validates, authorizes, decides, persists and folds cmd. Nothing is
// persisted or applied unless every step before it succeeded.
func (h *Handler) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	if h == nil {
		return Result{}, errors.New("command handler is required")
	}
	if h.Commands == nil {
		return Result{}, errors.New("command registry is required")
	}
	if h.Events == nil {
		return Result{}, errors.New("event registry is required")
	}
	if h.Journal == nil {
		return Result{}, errors.New("journal is required")
	}

	result, observers, err := h.execute(ctx, cmd)
	if err != nil {
		return result, err
	}
	// Observers run outside the lock so they may read state back.
	for _, observe := range observers {
		observe(ctx, result.Events)
	}
	return result, nil
}

func (h *Handler) execute(ctx context.Context, cmd command.Command) (Result, []Observer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkPause(cmd); err != nil {
		return Result{}, nil, err
	}
	validated, err := h.Commands.ValidateForDecision(cmd)
	if err != nil {
		return Result{}, nil, commandError(err)
	}
	req, err := asset.RequirementFor(validated)
	if err != nil {
		return Result{}, nil, commandError(err)
	}
	if err := authz.Check(ctx, h.Authorizer, req, validated.ActorID); err != nil {
		return Result{}, nil, err
	}

	state := h.currentLocked()
	decision := asset.Decide(state, validated, h.Now)
	if decision.Rejected() {
		return Result{}, nil, rejectionError(decision.Rejections[0])
	}
	if len(decision.Events) == 0 {
		return Result{}, nil, nil
	}

	events := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		normalized, err := h.Events.ValidateForAppend(evt)
		if err != nil {
			return Result{}, nil, apperrors.Wrap(apperrors.CodeEventInvalid, "decided event is invalid", err)
		}
		events = append(events, normalized)
	}

	stored, err := h.Journal.AppendEvents(ctx, events)
	if err != nil {
		return Result{}, nil, fmt.Errorf("append events: %w", err)
	}
	next, err := asset.Apply(state, stored)
	if err != nil {
		return Result{Events: stored}, nil, wrapNonRetryable(fmt.Errorf("apply committed events: %w", err))
	}
	h.state = next
	h.loaded = true

	observers := append([]Observer(nil), h.observers...)
	return Result{Events: stored}, observers, nil
}

func (h *Handler) checkPause(cmd command.Command) error {
	if h.Pauser == nil || !h.Pauser.Paused() {
		return nil
	}
	def, ok := h.Commands.Definition(cmd.Type)
	if ok && !def.Pausable {
		return nil
	}
	return authz.ErrPaused
}

func (h *Handler) currentLocked() asset.State {
	if !h.loaded {
		return asset.NewState()
	}
	return h.state
}

// commandError keeps structured errors intact and classifies the registry's
// plain errors as invalid commands.
func commandError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.CodeCommandInvalid, err.Error(), err)
}

func rejectionError(r command.Rejection) error {
	return apperrors.WithMetadata(apperrors.Code(r.Code), r.Message, r.Metadata)
}
