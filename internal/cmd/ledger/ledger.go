// Package ledger parses ledger command flags and starts the ledger runtime.
package ledger

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/fractional/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/fractional/internal/platform/grpc"
	"github.com/louisbranch/fractional/internal/platform/logging"
	"github.com/louisbranch/fractional/internal/platform/timeouts"
	server "github.com/louisbranch/fractional/internal/services/ledger/app"
)

// Config holds ledger command configuration.
type Config struct {
	HealthAddr string `env:"HEALTH_ADDR"     envDefault:"localhost:8090"`
	Transport  string `env:"MCP_TRANSPORT"   envDefault:"stdio"`
	StdioActor string `env:"MCP_STDIO_ACTOR"`
	HTTPAddr   string `env:"MCP_HTTP_ADDR"   envDefault:"localhost:8081"`
	DBPath     string `env:"DB_PATH"`
	InMemory   bool   `env:"IN_MEMORY"`
	Journal    string `env:"JOURNAL"`
	RoleGrants string `env:"ROLE_GRANTS"`

	Log logging.Config

	// Probe checks a running ledger's health instead of starting one.
	Probe bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio or http")
	fs.StringVar(&cfg.StdioActor, "actor", cfg.StdioActor, "account that stdio MCP calls act as")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "MCP HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite journal path")
	fs.BoolVar(&cfg.InMemory, "in-memory", cfg.InMemory, "keep the journal in memory")
	fs.StringVar(&cfg.RoleGrants, "grants", cfg.RoleGrants, "role grants as role=acct|acct;role=acct")
	fs.BoolVar(&cfg.Probe, "probe", false, "probe the health endpoint at -health-addr and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the ledger, or probes a running one when cfg.Probe is set.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Probe {
		probeCtx, cancel := context.WithTimeout(ctx, timeouts.HealthProbe)
		defer cancel()
		if err := platformgrpc.Probe(probeCtx, cfg.HealthAddr, server.HealthService, logger); err != nil {
			return fmt.Errorf("probe %s: %w", cfg.HealthAddr, err)
		}
		logger.Info("ledger is serving", zap.String("addr", cfg.HealthAddr))
		return nil
	}

	options := entrypoint.RunOptions{Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceLedger, options, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			HealthAddr: cfg.HealthAddr,
			Transport:  cfg.Transport,
			StdioActor: cfg.StdioActor,
			HTTPAddr:   cfg.HTTPAddr,
			DBPath:     cfg.DBPath,
			InMemory:   cfg.InMemory,
			Journal:    cfg.Journal,
			RoleGrants: cfg.RoleGrants,
			Logger:     logger,
		})
	})
}
