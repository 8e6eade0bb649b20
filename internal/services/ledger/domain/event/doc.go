// Package event defines the journal envelope recorded for every accepted
// ledger mutation, the registry of known event types, and the content hashes
// that chain the journal together.
//
// Events are facts. Deciders emit them, the engine appends them atomically,
// and folds replay them to rebuild asset state.
package event
