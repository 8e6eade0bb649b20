package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
)

// CreateAsset registers a new asset with the next token id, mints amount
// shares to to, and records uri with the metadata collaborator. It returns
// the assigned token id.
func (l *Ledger) CreateAsset(ctx context.Context, caller, to string, amount *uint256.Int, uri string, maxShares *uint256.Int) (uint64, error) {
	result, err := l.execute(ctx, caller, asset.CommandTypeCreate, asset.CreatePayload{
		To:          to,
		Amount:      decimal(amount),
		MaxShares:   decimal(maxShares),
		MetadataURI: uri,
	})
	if err != nil {
		return 0, err
	}
	if len(result.Events) == 0 {
		return 0, fmt.Errorf("create asset: no event committed")
	}
	var minted asset.MintedPayload
	if err := json.Unmarshal(result.Events[0].PayloadJSON, &minted); err != nil {
		return 0, fmt.Errorf("decode minted payload: %w", err)
	}
	if err := l.metadata.PutURI(ctx, minted.TokenID, minted.MetadataURI); err != nil {
		// The journal already holds the uri; a later SetURI can repair the
		// metadata store.
		l.logger.Error("store metadata uri",
			zap.Uint64("token_id", minted.TokenID),
			zap.Error(err),
		)
		return minted.TokenID, fmt.Errorf("store metadata uri for asset %d: %w", minted.TokenID, err)
	}
	return minted.TokenID, nil
}

// MintAdditional issues more shares of an existing asset, never past its cap.
func (l *Ledger) MintAdditional(ctx context.Context, caller string, tokenID uint64, to string, amount *uint256.Int) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeMint, asset.MintPayload{
		TokenID: tokenID,
		To:      to,
		Amount:  decimal(amount),
	})
	return err
}

// Burn destroys amount shares of tokenID held by account.
func (l *Ledger) Burn(ctx context.Context, caller, account string, tokenID uint64, amount *uint256.Int) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeBurn, asset.BurnPayload{
		Account: account,
		TokenID: tokenID,
		Amount:  decimal(amount),
	})
	return err
}

// BurnBatch destroys shares of several assets from account. Either every
// entry is burned or none is.
func (l *Ledger) BurnBatch(ctx context.Context, caller, account string, tokenIDs []uint64, amounts []*uint256.Int) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeBurnBatch, asset.BurnBatchPayload{
		Account:  account,
		TokenIDs: tokenIDs,
		Amounts:  decimals(amounts),
	})
	return err
}

// Transfer moves amount shares of a certified asset between accounts.
func (l *Ledger) Transfer(ctx context.Context, caller, from, to string, tokenID uint64, amount *uint256.Int) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeTransfer, asset.TransferPayload{
		From:    from,
		To:      to,
		TokenID: tokenID,
		Amount:  decimal(amount),
	})
	return err
}

// TransferBatch moves shares of several assets between the same pair of
// accounts. Either every entry moves or none does.
func (l *Ledger) TransferBatch(ctx context.Context, caller, from, to string, tokenIDs []uint64, amounts []*uint256.Int) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeTransferBatch, asset.TransferBatchPayload{
		From:     from,
		To:       to,
		TokenIDs: tokenIDs,
		Amounts:  decimals(amounts),
	})
	return err
}

// UpdateStatus moves an asset along the lifecycle graph.
func (l *Ledger) UpdateStatus(ctx context.Context, caller string, tokenID uint64, status asset.Status) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeUpdateStatus, asset.UpdateStatusPayload{
		TokenID: tokenID,
		Status:  string(status),
	})
	return err
}

// SetKYC records an account's verification flag.
func (l *Ledger) SetKYC(ctx context.Context, caller, account string, verified bool) error {
	_, err := l.execute(ctx, caller, asset.CommandTypeSetKYC, asset.SetKYCPayload{
		Account:  account,
		Verified: verified,
	})
	return err
}

// decimal renders an amount for a command payload. A nil amount becomes the
// empty string, which the decider rejects as invalid.
func decimal(amount *uint256.Int) string {
	if amount == nil {
		return ""
	}
	return amount.Dec()
}

func decimals(amounts []*uint256.Int) []string {
	if amounts == nil {
		return nil
	}
	out := make([]string, len(amounts))
	for i, amount := range amounts {
		out[i] = decimal(amount)
	}
	return out
}
