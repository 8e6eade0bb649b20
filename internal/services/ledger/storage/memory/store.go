// Package memory provides an in-process journal and metadata store for tests
// and ephemeral ledgers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
	"github.com/louisbranch/fractional/internal/services/ledger/storage"
	"github.com/louisbranch/fractional/internal/services/ledger/storage/integrity"
)

// Store keeps the journal and metadata in memory.
type Store struct {
	journal string
	keyring *integrity.Keyring

	mu     sync.RWMutex
	events []event.Event
	uris   map[uint64]string
}

// Option configures a Store.
type Option func(*Store)

// WithKeyring signs appended events with keyring.
func WithKeyring(keyring *integrity.Keyring) Option {
	return func(s *Store) {
		s.keyring = keyring
	}
}

// WithJournal names the journal used for key derivation.
func WithJournal(name string) Option {
	return func(s *Store) {
		if name = strings.TrimSpace(name); name != "" {
			s.journal = name
		}
	}
}

// New returns an empty store. Without a keyring events are hashed and
// chained but not signed.
func New(opts ...Option) *Store {
	s := &Store{journal: storage.DefaultJournal, uris: make(map[uint64]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AppendEvents appends the batch atomically.
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := uint64(len(s.events))
	prevHash := ""
	if seq > 0 {
		prevHash = s.events[seq-1].ChainHash
	}
	stored := make([]event.Event, 0, len(events))
	for _, evt := range events {
		seq++
		evt.Seq = seq
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		sealed, err := s.seal(evt, prevHash)
		if err != nil {
			return nil, err
		}
		stored = append(stored, sealed)
		prevHash = sealed.ChainHash
	}
	s.events = append(s.events, stored...)
	return append([]event.Event(nil), stored...), nil
}

func (s *Store) seal(evt event.Event, prevHash string) (event.Event, error) {
	if s.keyring != nil {
		return s.keyring.Seal(s.journal, evt, prevHash)
	}
	hash, err := event.EventHash(evt)
	if err != nil {
		return event.Event{}, fmt.Errorf("event hash: %w", err)
	}
	evt.Hash = hash
	evt.PrevHash = prevHash
	chainHash, err := event.ChainHash(evt, prevHash)
	if err != nil {
		return event.Event{}, fmt.Errorf("chain hash: %w", err)
	}
	evt.ChainHash = chainHash
	return evt, nil
}

// ListEvents returns up to limit events after afterSeq.
func (s *Store) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if afterSeq >= uint64(len(s.events)) {
		return nil, nil
	}
	end := afterSeq + uint64(limit)
	if end > uint64(len(s.events)) {
		end = uint64(len(s.events))
	}
	return append([]event.Event(nil), s.events[afterSeq:end]...), nil
}

// ListEventsPage returns a filtered page of events.
func (s *Store) ListEventsPage(ctx context.Context, req storage.ListEventsPageRequest) (storage.ListEventsPageResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListEventsPageResult{}, err
	}
	pageSize := storage.NormalizePageSize(req.PageSize)

	s.mu.RLock()
	matching := make([]event.Event, 0)
	for _, evt := range s.events {
		if req.Filter.Match(evt) {
			matching = append(matching, evt)
		}
	}
	s.mu.RUnlock()

	if req.Descending {
		sort.Slice(matching, func(i, j int) bool { return matching[i].Seq > matching[j].Seq })
	}
	total := len(matching)

	page := make([]event.Event, 0, pageSize+1)
	for _, evt := range matching {
		if req.CursorSeq > 0 {
			if req.Descending && evt.Seq >= req.CursorSeq {
				continue
			}
			if !req.Descending && evt.Seq <= req.CursorSeq {
				continue
			}
		}
		page = append(page, evt)
		if len(page) > pageSize {
			break
		}
	}
	hasMore := len(page) > pageSize
	if hasMore {
		page = page[:pageSize]
	}
	return storage.ListEventsPageResult{Events: page, HasNextPage: hasMore, TotalCount: total}, nil
}

// LatestSeq returns the last assigned sequence number.
func (s *Store) LatestSeq(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.events)), nil
}

// PutURI stores the metadata URI for tokenID.
func (s *Store) PutURI(ctx context.Context, tokenID uint64, uri string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uris[tokenID] = uri
	return nil
}

// GetURI returns the metadata URI for tokenID.
func (s *Store) GetURI(ctx context.Context, tokenID uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	uri, ok := s.uris[tokenID]
	if !ok {
		return "", storage.ErrNotFound
	}
	return uri, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

var _ storage.Store = (*Store)(nil)
