// Package authz answers the yes/no authorization questions the ledger asks
// before a mutation: does an account hold a role, and has an owner approved
// an operator for all of its holdings.
//
// The ledger never inspects how roles are granted. Table is the in-process
// implementation seeded from configuration; any Authorizer can replace it.
package authz
