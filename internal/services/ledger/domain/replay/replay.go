// Package replay rebuilds ledger state from the event journal.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

const defaultPageSize = 200

// ErrEventStoreRequired indicates a missing event store.
var ErrEventStoreRequired = errors.New("event store is required")

// EventStore lists events for replay.
type EventStore interface {
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
}

// Verifier checks an event's hashes and signature against its predecessor.
type Verifier interface {
	Verify(journal string, evt event.Event, prevHash string) error
}

// Options configures replay behavior.
type Options struct {
	// UntilSeq stops replay after this sequence number when non-zero.
	UntilSeq uint64
	PageSize int
	// Verifier, when set, authenticates every event; Journal scopes its keys.
	Verifier Verifier
	Journal  string
}

// Result captures replay outcomes.
type Result struct {
	State   asset.State
	LastSeq uint64
	Applied int
}

// Replay folds every journaled event into a fresh state in sequence order.
// Gaps, broken hash links, bad signatures, and events that violate ledger
// rules all stop replay with an integrity error.
func Replay(ctx context.Context, store EventStore, options Options) (Result, error) {
	if store == nil {
		return Result{}, ErrEventStoreRequired
	}
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	journal := strings.TrimSpace(options.Journal)

	result := Result{State: asset.NewState()}
	prevHash := ""
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		events, err := store.ListEvents(ctx, result.LastSeq, pageSize)
		if err != nil {
			return result, fmt.Errorf("list events after %d: %w", result.LastSeq, err)
		}
		if len(events) == 0 {
			return result, nil
		}
		for _, evt := range events {
			if options.UntilSeq > 0 && evt.Seq > options.UntilSeq {
				return result, nil
			}
			expectedSeq := result.LastSeq + 1
			if evt.Seq != expectedSeq {
				return result, violation(fmt.Errorf("event sequence gap: expected %d got %d", expectedSeq, evt.Seq))
			}
			if evt.PrevHash != prevHash {
				return result, violation(fmt.Errorf("event %d does not link to its predecessor", evt.Seq))
			}
			if options.Verifier != nil {
				if err := options.Verifier.Verify(journal, evt, prevHash); err != nil {
					return result, violation(err)
				}
			}
			next, err := asset.Fold(result.State, evt)
			if err != nil {
				return result, violation(err)
			}
			result.State = next
			result.LastSeq = evt.Seq
			result.Applied++
			prevHash = evt.ChainHash
		}
	}
}

func violation(err error) error {
	return apperrors.Wrap(apperrors.CodeIntegrityViolated, "journal integrity violated", err)
}
