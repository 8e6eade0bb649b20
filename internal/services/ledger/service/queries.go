package service

import (
	"context"
	"errors"
	"sort"

	"github.com/holiman/uint256"

	"github.com/louisbranch/fractional/internal/platform/grpc/pagination"
	"github.com/louisbranch/fractional/internal/services/ledger/core/filter"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
	"github.com/louisbranch/fractional/internal/services/ledger/storage"
)

// AssetView is the read model of one asset.
type AssetView struct {
	TokenID     uint64
	Status      asset.Status
	TotalShares uint256.Int
	MaxShares   uint256.Int
	URI         string
	// AllowedTransitions lists the statuses the asset may move to next.
	AllowedTransitions []asset.Status
}

// Holding is one account's balance of an asset.
type Holding struct {
	Account string
	Amount  uint256.Int
}

// Asset returns the current view of tokenID.
func (l *Ledger) Asset(ctx context.Context, tokenID uint64) (AssetView, error) {
	var (
		record asset.Asset
		ok     bool
	)
	l.handler.View(func(s asset.State) {
		record, ok = s.Asset(tokenID)
	})
	if !ok {
		return AssetView{}, notFound(tokenID)
	}
	uri, err := l.metadata.GetURI(ctx, tokenID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return AssetView{}, err
	}
	return AssetView{
		TokenID:            record.TokenID,
		Status:             record.Status,
		TotalShares:        record.TotalShares,
		MaxShares:          record.MaxShares,
		URI:                uri,
		AllowedTransitions: asset.AllowedTransitions(record.Status),
	}, nil
}

// Exists reports whether tokenID was created.
func (l *Ledger) Exists(tokenID uint64) bool {
	var ok bool
	l.handler.View(func(s asset.State) {
		_, ok = s.Asset(tokenID)
	})
	return ok
}

// LastTokenID returns the highest token id assigned so far.
func (l *Ledger) LastTokenID() uint64 {
	var last uint64
	l.handler.View(func(s asset.State) { last = s.LastTokenID })
	return last
}

// BalanceOf returns account's shares of tokenID. Unknown assets and accounts
// hold zero.
func (l *Ledger) BalanceOf(tokenID uint64, account string) uint256.Int {
	var balance uint256.Int
	l.handler.View(func(s asset.State) {
		balance = s.BalanceOf(tokenID, account)
	})
	return balance
}

// BalanceOfBatch returns the balance of accounts[i] in tokenIDs[i].
func (l *Ledger) BalanceOfBatch(accounts []string, tokenIDs []uint64) ([]uint256.Int, error) {
	if len(accounts) != len(tokenIDs) {
		return nil, asset.ErrBatchLengthMismatch
	}
	out := make([]uint256.Int, len(accounts))
	l.handler.View(func(s asset.State) {
		for i := range accounts {
			out[i] = s.BalanceOf(tokenIDs[i], accounts[i])
		}
	})
	return out, nil
}

// Holders lists every account with a nonzero balance of tokenID, ordered by
// account.
func (l *Ledger) Holders(tokenID uint64) ([]Holding, error) {
	var (
		holders map[string]uint256.Int
		ok      bool
	)
	l.handler.View(func(s asset.State) {
		if _, ok = s.Asset(tokenID); ok {
			holders = s.Holders(tokenID)
		}
	})
	if !ok {
		return nil, notFound(tokenID)
	}
	out := make([]Holding, 0, len(holders))
	for account, amount := range holders {
		out = append(out, Holding{Account: account, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out, nil
}

// IsKYCVerified reports the account's recorded verification flag.
func (l *Ledger) IsKYCVerified(account string) bool {
	var verified bool
	l.handler.View(func(s asset.State) { verified = s.KYC[account] })
	return verified
}

// URI returns the metadata URI of tokenID.
func (l *Ledger) URI(ctx context.Context, tokenID uint64) (string, error) {
	if !l.Exists(tokenID) {
		return "", notFound(tokenID)
	}
	return l.metadata.GetURI(ctx, tokenID)
}

// AllowedTransitions lists the statuses tokenID may move to next.
func (l *Ledger) AllowedTransitions(tokenID uint64) ([]asset.Status, error) {
	var (
		record asset.Asset
		ok     bool
	)
	l.handler.View(func(s asset.State) {
		record, ok = s.Asset(tokenID)
	})
	if !ok {
		return nil, notFound(tokenID)
	}
	return asset.AllowedTransitions(record.Status), nil
}

// Paused reports whether the pause switch is on.
func (l *Ledger) Paused() bool {
	return l.pause.Paused()
}

// ListEventsRequest selects a page of journal history.
type ListEventsRequest struct {
	// Filter is an AIP-160 expression over type, actor_id, entity_type,
	// entity_id, request_id and ts.
	Filter     string
	PageSize   int
	PageToken  string
	Descending bool
}

// EventPage is one page of journal history.
type EventPage struct {
	Events        []event.Event
	NextPageToken string
	TotalCount    int
}

// ListEvents returns a filtered page of the journal.
func (l *Ledger) ListEvents(ctx context.Context, req ListEventsRequest) (EventPage, error) {
	cond, err := filter.ParseEventFilter(req.Filter)
	if err != nil {
		return EventPage{}, invalidArgument("filter", err.Error())
	}
	cursor, err := pagination.DecodeSeqToken(req.PageToken)
	if err != nil {
		return EventPage{}, invalidArgument("page_token", err.Error())
	}
	page, err := l.events.ListEventsPage(ctx, storage.ListEventsPageRequest{
		CursorSeq:  cursor,
		PageSize:   req.PageSize,
		Descending: req.Descending,
		Filter:     cond,
	})
	if err != nil {
		return EventPage{}, err
	}
	out := EventPage{Events: page.Events, TotalCount: page.TotalCount}
	if page.HasNextPage && len(page.Events) > 0 {
		out.NextPageToken = pagination.EncodeSeqToken(page.Events[len(page.Events)-1].Seq)
	}
	return out, nil
}
