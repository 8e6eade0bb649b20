package asset

import "github.com/holiman/uint256"

// BalanceKey addresses one account's holding of one asset.
type BalanceKey struct {
	TokenID uint64
	Account string
}

// Asset is the per-token ledger record.
type Asset struct {
	TokenID     uint64
	Status      Status
	MaxShares   uint256.Int
	TotalShares uint256.Int
}

// Exists reports whether the record was created. An asset exists iff its cap
// is nonzero.
func (a Asset) Exists() bool {
	return !a.MaxShares.IsZero()
}

// State is the folded ledger: assets, balances, and the inert KYC flags.
type State struct {
	// LastTokenID is the highest token id assigned so far. Ids start at 1.
	LastTokenID uint64
	Assets      map[uint64]Asset
	Balances    map[BalanceKey]uint256.Int
	KYC         map[string]bool
}

// NewState returns an empty ledger.
func NewState() State {
	return State{
		Assets:   make(map[uint64]Asset),
		Balances: make(map[BalanceKey]uint256.Int),
		KYC:      make(map[string]bool),
	}
}

// Asset returns the record for tokenID. The second result is false when the
// asset does not exist.
func (s State) Asset(tokenID uint64) (Asset, bool) {
	a, ok := s.Assets[tokenID]
	if !ok || !a.Exists() {
		return Asset{TokenID: tokenID}, false
	}
	return a, true
}

// BalanceOf returns account's shares of tokenID, zero when absent.
func (s State) BalanceOf(tokenID uint64, account string) uint256.Int {
	return s.Balances[BalanceKey{TokenID: tokenID, Account: account}]
}

// Holders returns the accounts with a nonzero balance of tokenID.
func (s State) Holders(tokenID uint64) map[string]uint256.Int {
	out := make(map[string]uint256.Int)
	for key, amount := range s.Balances {
		if key.TokenID == tokenID && !amount.IsZero() {
			out[key.Account] = amount
		}
	}
	return out
}

// Clone returns a deep copy safe to mutate independently.
func (s State) Clone() State {
	out := State{
		LastTokenID: s.LastTokenID,
		Assets:      make(map[uint64]Asset, len(s.Assets)),
		Balances:    make(map[BalanceKey]uint256.Int, len(s.Balances)),
		KYC:         make(map[string]bool, len(s.KYC)),
	}
	for k, v := range s.Assets {
		out.Assets[k] = v
	}
	for k, v := range s.Balances {
		out.Balances[k] = v
	}
	for k, v := range s.KYC {
		out.KYC[k] = v
	}
	return out
}
