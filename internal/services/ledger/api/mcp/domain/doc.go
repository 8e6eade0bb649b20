// Package domain defines the ledger's MCP tools and resources.
//
// Each tool pairs a schema constructor (XxxTool) with a typed handler
// constructor (XxxHandler). Handlers resolve the caller from context, parse
// decimal share amounts, and delegate to the ledger facade.
package domain
