// Package service hosts the ledger's MCP server over stdio and streamable
// HTTP.
//
// Each MCP server instance is bound to one actor: the configured local actor
// for stdio, or the subject of a verified bearer token for HTTP. Committed
// ledger batches are pushed to subscribers as asset resource updates.
package service
