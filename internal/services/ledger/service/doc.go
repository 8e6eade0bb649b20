// Package service exposes the ledger's operations to transports.
//
// Ledger turns typed calls into commands for the domain engine. It keeps the
// metadata collaborator and the access tables in step with the journal, and
// answers read queries from committed state.
package service
