package asset

import "github.com/holiman/uint256"

// overlay stages writes on top of a State without touching it. Deciders use
// it to validate batches cumulatively; Apply uses it to fold a group of
// events and publish them all or none.
type overlay struct {
	base        State
	lastTokenID uint64
	assets      map[uint64]Asset
	balances    map[BalanceKey]uint256.Int
	kyc         map[string]bool
}

func newOverlay(base State) *overlay {
	return &overlay{
		base:        base,
		lastTokenID: base.LastTokenID,
		assets:      make(map[uint64]Asset),
		balances:    make(map[BalanceKey]uint256.Int),
		kyc:         make(map[string]bool),
	}
}

func (o *overlay) asset(tokenID uint64) (Asset, bool) {
	if a, ok := o.assets[tokenID]; ok {
		return a, a.Exists()
	}
	return o.base.Asset(tokenID)
}

func (o *overlay) putAsset(a Asset) {
	o.assets[a.TokenID] = a
}

func (o *overlay) balance(tokenID uint64, account string) uint256.Int {
	key := BalanceKey{TokenID: tokenID, Account: account}
	if amount, ok := o.balances[key]; ok {
		return amount
	}
	return o.base.Balances[key]
}

func (o *overlay) putBalance(tokenID uint64, account string, amount uint256.Int) {
	o.balances[BalanceKey{TokenID: tokenID, Account: account}] = amount
}

// commit publishes staged writes into the base maps.
func (o *overlay) commit() State {
	state := o.base
	if state.Assets == nil || state.Balances == nil || state.KYC == nil {
		fresh := NewState()
		fresh.LastTokenID = state.LastTokenID
		for k, v := range state.Assets {
			fresh.Assets[k] = v
		}
		for k, v := range state.Balances {
			fresh.Balances[k] = v
		}
		for k, v := range state.KYC {
			fresh.KYC[k] = v
		}
		state = fresh
	}
	state.LastTokenID = o.lastTokenID
	for k, v := range o.assets {
		state.Assets[k] = v
	}
	for k, v := range o.balances {
		if v.IsZero() {
			delete(state.Balances, k)
			continue
		}
		state.Balances[k] = v
	}
	for k, v := range o.kyc {
		state.KYC[k] = v
	}
	return state
}
