package asset

import (
	"strings"

	"github.com/holiman/uint256"
)

// The methods below are the ledger rules. Decide runs them against an
// overlay to validate a command; Apply runs them again to fold the resulting
// events, so replay enforces exactly what the decision enforced.

func (o *overlay) create(tokenID uint64, to string, amount, maxShares uint256.Int) *failure {
	if maxShares.IsZero() {
		return fail(ErrInvalidCap, "MaxShares", dec(maxShares))
	}
	if amount.Gt(&maxShares) {
		return fail(ErrAmountExceedsCap, "Amount", dec(amount), "MaxShares", dec(maxShares))
	}
	if tokenID <= o.lastTokenID {
		return fail(ErrTokenIDReused, "TokenID", tokenLabel(tokenID))
	}
	o.lastTokenID = tokenID
	o.putAsset(Asset{
		TokenID:     tokenID,
		Status:      StatusPending,
		MaxShares:   maxShares,
		TotalShares: amount,
	})
	return o.credit(tokenID, to, amount)
}

func (o *overlay) mint(tokenID uint64, to string, amount uint256.Int) *failure {
	a, f := o.live(tokenID)
	if f != nil {
		return f
	}
	var next uint256.Int
	if _, overflow := next.AddOverflow(&a.TotalShares, &amount); overflow || next.Gt(&a.MaxShares) {
		return fail(ErrCapExceeded,
			"TokenID", tokenLabel(tokenID),
			"TotalShares", dec(a.TotalShares),
			"Amount", dec(amount),
			"MaxShares", dec(a.MaxShares),
		)
	}
	a.TotalShares = next
	o.putAsset(a)
	return o.credit(tokenID, to, amount)
}

func (o *overlay) burn(tokenID uint64, account string, amount uint256.Int) *failure {
	a, f := o.live(tokenID)
	if f != nil {
		return f
	}
	if f := o.debit(tokenID, account, amount); f != nil {
		return f
	}
	var next uint256.Int
	if _, underflow := next.SubOverflow(&a.TotalShares, &amount); underflow {
		return fail(ErrShareOverflow, "TokenID", tokenLabel(tokenID), "TotalShares", dec(a.TotalShares), "Amount", dec(amount))
	}
	a.TotalShares = next
	o.putAsset(a)
	return nil
}

func (o *overlay) transfer(tokenID uint64, from, to string, amount uint256.Int) *failure {
	a, f := o.live(tokenID)
	if f != nil {
		return f
	}
	if a.Status != StatusCertified {
		return fail(ErrTransferNotAllowed, "TokenID", tokenLabel(tokenID), "Status", string(a.Status))
	}
	if f := o.debit(tokenID, from, amount); f != nil {
		return f
	}
	return o.credit(tokenID, to, amount)
}

func (o *overlay) setStatus(tokenID uint64, to Status) (Status, *failure) {
	a, f := o.live(tokenID)
	if f != nil {
		return StatusUnspecified, f
	}
	from := a.Status
	if !IsTransitionAllowed(from, to) {
		return from, fail(ErrInvalidTransition, "TokenID", tokenLabel(tokenID), "From", string(from), "To", string(to))
	}
	a.Status = to
	o.putAsset(a)
	return from, nil
}

func (o *overlay) setKYC(account string, verified bool) {
	o.kyc[account] = verified
}

// live returns an existing asset that is not frozen.
func (o *overlay) live(tokenID uint64) (Asset, *failure) {
	a, ok := o.asset(tokenID)
	if !ok {
		return a, fail(ErrAssetNotFound, "TokenID", tokenLabel(tokenID))
	}
	if a.Status == StatusFraudulent {
		return a, fail(ErrFraudulentAsset, "TokenID", tokenLabel(tokenID))
	}
	return a, nil
}

func (o *overlay) credit(tokenID uint64, account string, amount uint256.Int) *failure {
	if strings.TrimSpace(account) == "" {
		return fail(ErrInvalidAccount, "Field", "to")
	}
	balance := o.balance(tokenID, account)
	var next uint256.Int
	if _, overflow := next.AddOverflow(&balance, &amount); overflow {
		return fail(ErrShareOverflow, "TokenID", tokenLabel(tokenID), "Account", account)
	}
	o.putBalance(tokenID, account, next)
	return nil
}

func (o *overlay) debit(tokenID uint64, account string, amount uint256.Int) *failure {
	balance := o.balance(tokenID, account)
	if balance.Lt(&amount) {
		return fail(ErrInsufficientBalance,
			"TokenID", tokenLabel(tokenID),
			"Account", account,
			"Balance", dec(balance),
			"Amount", dec(amount),
		)
	}
	var next uint256.Int
	next.Sub(&balance, &amount)
	o.putBalance(tokenID, account, next)
	return nil
}
