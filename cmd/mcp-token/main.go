// Package main generates MCP bearer keys and mints tokens for the ledger's
// HTTP transport.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/louisbranch/fractional/internal/platform/config"
	"github.com/louisbranch/fractional/internal/tools/mcptoken"
)

func main() {
	cfg, err := mcptoken.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := mcptoken.Run(cfg, os.Stdout, nil, time.Now); err != nil {
		config.Exitf("mcp token: %v", err)
	}
}
