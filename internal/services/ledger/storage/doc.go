// Package storage declares the persistence boundaries of the ledger: the
// append-only event journal, which is the source of truth for asset state,
// and the metadata URI store, which lives beside it.
package storage
