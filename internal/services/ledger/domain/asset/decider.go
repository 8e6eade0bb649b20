package asset

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

const (
	CommandTypeCreate        command.Type = "asset.create"
	CommandTypeMint          command.Type = "asset.mint"
	CommandTypeBurn          command.Type = "asset.burn"
	CommandTypeBurnBatch     command.Type = "asset.burn_batch"
	CommandTypeTransfer      command.Type = "asset.transfer"
	CommandTypeTransferBatch command.Type = "asset.transfer_batch"
	CommandTypeUpdateStatus  command.Type = "asset.update_status"
	CommandTypeSetKYC        command.Type = "account.set_kyc"

	EventTypeMinted        event.Type = "asset.minted"
	EventTypeSharesIssued  event.Type = "asset.shares_issued"
	EventTypeSharesBurned  event.Type = "asset.shares_burned"
	EventTypeTransferred   event.Type = "asset.transferred"
	EventTypeStatusUpdated event.Type = "asset.status_updated"
	EventTypeKYCUpdated    event.Type = "account.kyc_updated"
)

// Decide returns the decision for a ledger command against current state.
// State is never modified; batch elements are validated against a staging
// overlay so repeated token ids see each other's effects.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	at := now().UTC()

	switch cmd.Type {
	case CommandTypeCreate:
		return decideCreate(state, cmd, at)
	case CommandTypeMint:
		return decideMint(state, cmd, at)
	case CommandTypeBurn:
		var p BurnPayload
		if f := decode(cmd, &p); f != nil {
			return f.decision()
		}
		return decideBurn(state, cmd, at, p.Account, []uint64{p.TokenID}, []string{p.Amount})
	case CommandTypeBurnBatch:
		var p BurnBatchPayload
		if f := decode(cmd, &p); f != nil {
			return f.decision()
		}
		if f := checkBatch(p.TokenIDs, p.Amounts); f != nil {
			return f.decision()
		}
		return decideBurn(state, cmd, at, p.Account, p.TokenIDs, p.Amounts)
	case CommandTypeTransfer:
		var p TransferPayload
		if f := decode(cmd, &p); f != nil {
			return f.decision()
		}
		return decideTransfer(state, cmd, at, p.From, p.To, []uint64{p.TokenID}, []string{p.Amount})
	case CommandTypeTransferBatch:
		var p TransferBatchPayload
		if f := decode(cmd, &p); f != nil {
			return f.decision()
		}
		if f := checkBatch(p.TokenIDs, p.Amounts); f != nil {
			return f.decision()
		}
		return decideTransfer(state, cmd, at, p.From, p.To, p.TokenIDs, p.Amounts)
	case CommandTypeUpdateStatus:
		return decideUpdateStatus(state, cmd, at)
	case CommandTypeSetKYC:
		return decideSetKYC(cmd, at)
	default:
		return fail(ErrCommandUnsupported, "Type", string(cmd.Type)).decision()
	}
}

func decideCreate(state State, cmd command.Command, at time.Time) command.Decision {
	var p CreatePayload
	if f := decode(cmd, &p); f != nil {
		return f.decision()
	}
	uri := strings.TrimSpace(p.MetadataURI)
	if uri == "" {
		return fail(ErrInvalidMetadataURI).decision()
	}
	maxShares, f := parseAmount("max_shares", p.MaxShares)
	if f != nil {
		return f.decision()
	}
	amount, f := parseAmount("amount", p.Amount)
	if f != nil {
		return f.decision()
	}
	to := strings.TrimSpace(p.To)

	tokenID := state.LastTokenID + 1
	ov := newOverlay(state)
	if f := ov.create(tokenID, to, amount, maxShares); f != nil {
		return f.decision()
	}
	return command.Accept(newAssetEvent(cmd, EventTypeMinted, tokenID, MintedPayload{
		TokenID:     tokenID,
		To:          to,
		Amount:      dec(amount),
		MaxShares:   dec(maxShares),
		MetadataURI: uri,
	}, at))
}

func decideMint(state State, cmd command.Command, at time.Time) command.Decision {
	var p MintPayload
	if f := decode(cmd, &p); f != nil {
		return f.decision()
	}
	amount, f := parseAmount("amount", p.Amount)
	if f != nil {
		return f.decision()
	}
	to := strings.TrimSpace(p.To)
	if to == "" {
		return fail(ErrInvalidAccount, "Field", "to").decision()
	}
	ov := newOverlay(state)
	if f := ov.mint(p.TokenID, to, amount); f != nil {
		return f.decision()
	}
	return command.Accept(newAssetEvent(cmd, EventTypeSharesIssued, p.TokenID, SharesIssuedPayload{
		TokenID: p.TokenID,
		To:      to,
		Amount:  dec(amount),
	}, at))
}

func decideBurn(state State, cmd command.Command, at time.Time, account string, tokenIDs []uint64, rawAmounts []string) command.Decision {
	account = strings.TrimSpace(account)
	if account == "" {
		return fail(ErrInvalidAccount, "Field", "account").decision()
	}
	amounts, f := parseAmounts(rawAmounts)
	if f != nil {
		return f.decision()
	}

	ov := newOverlay(state)
	events := make([]event.Event, 0, len(tokenIDs))
	for i, tokenID := range tokenIDs {
		if f := ov.burn(tokenID, account, amounts[i]); f != nil {
			return f.decision()
		}
		events = append(events, newAssetEvent(cmd, EventTypeSharesBurned, tokenID, SharesBurnedPayload{
			TokenID: tokenID,
			Account: account,
			Amount:  dec(amounts[i]),
		}, at))
	}
	return command.Accept(events...)
}

func decideTransfer(state State, cmd command.Command, at time.Time, from, to string, tokenIDs []uint64, rawAmounts []string) command.Decision {
	from = strings.TrimSpace(from)
	if from == "" {
		return fail(ErrInvalidAccount, "Field", "from").decision()
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return fail(ErrInvalidAccount, "Field", "to").decision()
	}
	amounts, f := parseAmounts(rawAmounts)
	if f != nil {
		return f.decision()
	}

	ov := newOverlay(state)
	events := make([]event.Event, 0, len(tokenIDs))
	for i, tokenID := range tokenIDs {
		if f := ov.transfer(tokenID, from, to, amounts[i]); f != nil {
			return f.decision()
		}
		events = append(events, newAssetEvent(cmd, EventTypeTransferred, tokenID, TransferredPayload{
			TokenID: tokenID,
			From:    from,
			To:      to,
			Amount:  dec(amounts[i]),
		}, at))
	}
	return command.Accept(events...)
}

func decideSetKYC(cmd command.Command, at time.Time) command.Decision {
	var p SetKYCPayload
	if f := decode(cmd, &p); f != nil {
		return f.decision()
	}
	account := strings.TrimSpace(p.Account)
	if account == "" {
		return fail(ErrInvalidAccount, "Field", "account").decision()
	}
	payloadJSON, _ := json.Marshal(KYCUpdatedPayload{Account: account, Verified: p.Verified})
	return command.Accept(command.NewEvent(cmd, EventTypeKYCUpdated, EntityTypeAccount, account, payloadJSON, at))
}

func newAssetEvent(cmd command.Command, eventType event.Type, tokenID uint64, payload any, at time.Time) event.Event {
	payloadJSON, _ := json.Marshal(payload)
	return command.NewEvent(cmd, eventType, EntityTypeAsset, tokenLabel(tokenID), payloadJSON, at)
}

func decode(cmd command.Command, target any) *failure {
	if err := json.Unmarshal(cmd.PayloadJSON, target); err != nil {
		return fail(ErrPayloadMalformed, "Type", string(cmd.Type), "Reason", err.Error())
	}
	return nil
}

func checkBatch(tokenIDs []uint64, amounts []string) *failure {
	if len(tokenIDs) == 0 && len(amounts) == 0 {
		return fail(ErrBatchEmpty)
	}
	if len(tokenIDs) != len(amounts) {
		return fail(ErrBatchLengthMismatch,
			"TokenIDs", tokenLabel(uint64(len(tokenIDs))),
			"Amounts", tokenLabel(uint64(len(amounts))),
		)
	}
	return nil
}

func parseAmounts(values []string) ([]uint256.Int, *failure) {
	out := make([]uint256.Int, len(values))
	for i, value := range values {
		amount, f := parseAmount("amounts", value)
		if f != nil {
			return nil, f
		}
		out[i] = amount
	}
	return out, nil
}

// parseAmount reads an unsigned base-10 share count that fits in 256 bits.
func parseAmount(field, value string) (uint256.Int, *failure) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "-") {
		return uint256.Int{}, fail(ErrInvalidAmount, "Field", field, "Amount", value)
	}
	parsed, err := uint256.FromDecimal(trimmed)
	if err != nil {
		return uint256.Int{}, fail(ErrInvalidAmount, "Field", field, "Amount", value)
	}
	return *parsed, nil
}
