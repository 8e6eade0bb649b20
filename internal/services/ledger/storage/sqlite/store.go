package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/fractional/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
	"github.com/louisbranch/fractional/internal/services/ledger/storage"
	"github.com/louisbranch/fractional/internal/services/ledger/storage/integrity"
	"github.com/louisbranch/fractional/internal/services/ledger/storage/sqlite/migrations"
)

const eventColumns = "seq, event_type, timestamp_ms, actor_id, entity_type, entity_id, request_id, invocation_id, correlation_id, causation_id, payload_json, event_hash, prev_event_hash, chain_hash, signature_key_id, event_signature"

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is the SQLite-backed journal and metadata store.
type Store struct {
	sqlDB   *sql.DB
	keyring *integrity.Keyring
	journal string
}

// Option configures a Store.
type Option func(*Store)

// WithJournal names the journal used for key derivation.
func WithJournal(name string) Option {
	return func(s *Store) {
		if name = strings.TrimSpace(name); name != "" {
			s.journal = name
		}
	}
}

// Open opens (or creates) the database at path and applies pending
// migrations. Every appended event is signed with keyring.
func Open(ctx context.Context, path string, keyring *integrity.Keyring, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if keyring == nil {
		return nil, fmt.Errorf("event integrity keyring is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.JournalFS, "journal"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store := &Store{sqlDB: sqlDB, keyring: keyring, journal: storage.DefaultJournal}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Close closes the underlying database. It is nil-safe.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// AppendEvents seals and inserts the batch in one transaction.
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var lastSeq uint64
	var prevHash string
	err = tx.QueryRowContext(ctx, "SELECT seq, chain_hash FROM events ORDER BY seq DESC LIMIT 1").Scan(&lastSeq, &prevHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load previous event: %w", err)
	}

	stored := make([]event.Event, 0, len(events))
	for _, evt := range events {
		lastSeq++
		evt.Seq = lastSeq
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		sealed, err := s.keyring.Seal(s.journal, evt, prevHash)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			int64(sealed.Seq),
			string(sealed.Type),
			toMillis(sealed.Timestamp),
			sealed.ActorID,
			sealed.EntityType,
			sealed.EntityID,
			sealed.RequestID,
			sealed.InvocationID,
			sealed.CorrelationID,
			sealed.CausationID,
			string(sealed.PayloadJSON),
			sealed.Hash,
			sealed.PrevHash,
			sealed.ChainHash,
			sealed.SignatureKeyID,
			sealed.Signature,
		); err != nil {
			return nil, fmt.Errorf("insert event %d: %w", sealed.Seq, err)
		}
		stored = append(stored, sealed)
		prevHash = sealed.ChainHash
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// ListEvents returns up to limit events after afterSeq in sequence order.
func (s *Store) ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE seq > ? ORDER BY seq ASC LIMIT ?",
		int64(afterSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows, limit)
}

// ListEventsPage returns a filtered page of events.
func (s *Store) ListEventsPage(ctx context.Context, req storage.ListEventsPageRequest) (storage.ListEventsPageResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListEventsPageResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("storage is not configured")
	}
	req.PageSize = storage.NormalizePageSize(req.PageSize)
	plan := buildListEventsPageSQLPlan(req)

	rows, err := s.sqlDB.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM events WHERE %s %s %s", eventColumns, plan.whereClause, plan.orderClause, plan.limitClause),
		plan.params...,
	)
	if err != nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("query events: %w", err)
	}
	events, err := scanEvents(rows, req.PageSize+1)
	rows.Close()
	if err != nil {
		return storage.ListEventsPageResult{}, err
	}

	hasMore := len(events) > req.PageSize
	if hasMore {
		events = events[:req.PageSize]
	}

	var total int
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE "+plan.countWhereClause,
		plan.countParams...,
	).Scan(&total); err != nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("count events: %w", err)
	}

	return storage.ListEventsPageResult{Events: events, HasNextPage: hasMore, TotalCount: total}, nil
}

// LatestSeq returns the last assigned sequence number, or 0.
func (s *Store) LatestSeq(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var seq int64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM events").Scan(&seq); err != nil {
		return 0, fmt.Errorf("get latest event seq: %w", err)
	}
	return uint64(seq), nil
}

// PutURI upserts the metadata URI for tokenID.
func (s *Store) PutURI(ctx context.Context, tokenID uint64, uri string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO asset_metadata (token_id, uri, updated_at) VALUES (?, ?, ?)
ON CONFLICT(token_id) DO UPDATE SET uri = excluded.uri, updated_at = excluded.updated_at`,
		int64(tokenID), uri, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put metadata uri: %w", err)
	}
	return nil
}

// GetURI returns the metadata URI for tokenID or storage.ErrNotFound.
func (s *Store) GetURI(ctx context.Context, tokenID uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	var uri string
	err := s.sqlDB.QueryRowContext(ctx, "SELECT uri FROM asset_metadata WHERE token_id = ?", int64(tokenID)).Scan(&uri)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get metadata uri: %w", err)
	}
	return uri, nil
}

func scanEvents(rows *sql.Rows, capacity int) ([]event.Event, error) {
	events := make([]event.Event, 0, capacity)
	for rows.Next() {
		var (
			seq         int64
			eventType   string
			timestampMS int64
			payload     string
			evt         event.Event
		)
		if err := rows.Scan(
			&seq,
			&eventType,
			&timestampMS,
			&evt.ActorID,
			&evt.EntityType,
			&evt.EntityID,
			&evt.RequestID,
			&evt.InvocationID,
			&evt.CorrelationID,
			&evt.CausationID,
			&payload,
			&evt.Hash,
			&evt.PrevHash,
			&evt.ChainHash,
			&evt.SignatureKeyID,
			&evt.Signature,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.Type = event.Type(eventType)
		evt.Timestamp = fromMillis(timestampMS)
		evt.PayloadJSON = []byte(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

var _ storage.Store = (*Store)(nil)
