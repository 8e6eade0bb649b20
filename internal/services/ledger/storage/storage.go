package storage

import (
	"context"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/platform/grpc/pagination"
	"github.com/louisbranch/fractional/internal/services/ledger/core/filter"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// DefaultJournal names the journal when none is configured. It scopes the
// derived signing keys.
const DefaultJournal = "ledger"

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// EventStore owns the event journal that drives replay; it is the source of
// truth for state reconstruction.
type EventStore interface {
	// AppendEvents atomically appends a batch and returns it with sequence
	// numbers and integrity fields set. Either every event is stored or none.
	AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
	// ListEvents returns up to limit events with seq > afterSeq, ascending.
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
	// ListEventsPage returns a filtered page of events.
	ListEventsPage(ctx context.Context, req ListEventsPageRequest) (ListEventsPageResult, error)
	// LatestSeq returns the last assigned sequence number, or 0.
	LatestSeq(ctx context.Context) (uint64, error)
}

// MetadataStore keeps the opaque metadata URI of each asset.
type MetadataStore interface {
	PutURI(ctx context.Context, tokenID uint64, uri string) error
	// GetURI returns ErrNotFound when no URI was stored for tokenID.
	GetURI(ctx context.Context, tokenID uint64) (string, error)
}

// Store bundles both boundaries with a release hook.
type Store interface {
	EventStore
	MetadataStore
	Close() error
}

// ListEventsPageRequest describes one page of event history.
type ListEventsPageRequest struct {
	// CursorSeq continues after (or, descending, before) this sequence number.
	CursorSeq uint64
	// PageSize is the maximum number of events to return.
	PageSize int
	// Descending orders results newest first.
	Descending bool
	// Filter restricts the events returned.
	Filter filter.Condition
}

// ListEventsPageResult contains one page of event history.
type ListEventsPageResult struct {
	Events []event.Event
	// HasNextPage indicates more events exist past the last one returned.
	HasNextPage bool
	// TotalCount is the number of events matching the filter.
	TotalCount int
}

// EventPageSize bounds journal page sizes.
var EventPageSize = pagination.PageSizeConfig{Default: 50, Max: 200}

// NormalizePageSize applies the journal's default and maximum page sizes.
func NormalizePageSize(size int) int {
	return pagination.ClampPageSize(size, EventPageSize)
}
