package asset

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// Fold applies a single event to state.
func Fold(state State, evt event.Event) (State, error) {
	return Apply(state, []event.Event{evt})
}

// Apply folds events in order. Every event is staged first; state is only
// written when all of them fold cleanly, and is returned unchanged otherwise.
func Apply(state State, events []event.Event) (State, error) {
	ov := newOverlay(state)
	for _, evt := range events {
		if err := ov.fold(evt); err != nil {
			return state, fmt.Errorf("fold %s seq %d: %w", evt.Type, evt.Seq, err)
		}
	}
	return ov.commit(), nil
}

func (o *overlay) fold(evt event.Event) error {
	switch evt.Type {
	case EventTypeMinted:
		var p MintedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return err
		}
		amount, maxShares := foldAmount(p.Amount), foldAmount(p.MaxShares)
		if amount == nil || maxShares == nil {
			return fmt.Errorf("invalid share amounts %q/%q", p.Amount, p.MaxShares)
		}
		return asError(o.create(p.TokenID, p.To, *amount, *maxShares))
	case EventTypeSharesIssued:
		var p SharesIssuedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return err
		}
		amount := foldAmount(p.Amount)
		if amount == nil {
			return fmt.Errorf("invalid share amount %q", p.Amount)
		}
		return asError(o.mint(p.TokenID, p.To, *amount))
	case EventTypeSharesBurned:
		var p SharesBurnedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return err
		}
		amount := foldAmount(p.Amount)
		if amount == nil {
			return fmt.Errorf("invalid share amount %q", p.Amount)
		}
		return asError(o.burn(p.TokenID, p.Account, *amount))
	case EventTypeTransferred:
		var p TransferredPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return err
		}
		amount := foldAmount(p.Amount)
		if amount == nil {
			return fmt.Errorf("invalid share amount %q", p.Amount)
		}
		return asError(o.transfer(p.TokenID, p.From, p.To, *amount))
	case EventTypeStatusUpdated:
		var p StatusUpdatedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return err
		}
		from, f := o.setStatus(p.TokenID, p.To)
		if f != nil {
			return f
		}
		if from != p.From {
			return fmt.Errorf("status of asset %d is %s, event recorded %s", p.TokenID, from, p.From)
		}
		return nil
	case EventTypeKYCUpdated:
		var p KYCUpdatedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return err
		}
		if strings.TrimSpace(p.Account) == "" {
			return fmt.Errorf("kyc event without account")
		}
		o.setKYC(p.Account, p.Verified)
		return nil
	default:
		return fmt.Errorf("unknown event type %q", evt.Type)
	}
}

func foldAmount(value string) *uint256.Int {
	amount, f := parseAmount("amount", value)
	if f != nil {
		return nil
	}
	return &amount
}

// asError avoids returning a typed nil pointer inside an error interface.
func asError(f *failure) error {
	if f == nil {
		return nil
	}
	return f
}
