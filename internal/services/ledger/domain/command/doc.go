// Package command defines the command envelope that carries caller intent
// into the ledger deciders.
//
// Commands are validated and normalized by the registry before any decider
// sees them, so business rules only run against well-formed payloads with a
// known type and an identified actor.
package command
