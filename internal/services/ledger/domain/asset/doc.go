// Package asset owns the fractional asset ledger: per-token records with a
// share cap and lifecycle status, per-account balances, and the rules that
// gate minting, burning, and transfers on that status.
//
// Decide turns a validated command into events without touching state.
// Apply folds accepted events into State, all of them or none.
package asset
