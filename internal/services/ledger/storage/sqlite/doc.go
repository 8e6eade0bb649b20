// Package sqlite stores the ledger journal and asset metadata in SQLite.
//
// Appends run in a single transaction per batch. Each event is sealed with a
// content hash, a chain hash linking it to its predecessor, and an HMAC
// signature, so replay can detect edits and reordering.
package sqlite
