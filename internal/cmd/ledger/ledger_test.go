package ledger

import (
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/louisbranch/fractional/internal/platform/logging"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HealthAddr != "localhost:8090" {
		t.Fatalf("expected default health addr, got %q", cfg.HealthAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("expected default log config, got %+v", cfg.Log)
	}
	if cfg.Probe {
		t.Fatal("expected probe to default off")
	}
}

func TestParseConfigReadsEnv(t *testing.T) {
	t.Setenv("FRACTIONAL_LEDGER_MCP_TRANSPORT", "http")
	t.Setenv("FRACTIONAL_LEDGER_ROLE_GRANTS", "minter=ops")
	t.Setenv("FRACTIONAL_LEDGER_IN_MEMORY", "true")
	t.Setenv("FRACTIONAL_LEDGER_LOG_LEVEL", "debug")

	cfg, err := ParseConfig(flag.NewFlagSet("ledger", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Transport != "http" || cfg.RoleGrants != "minter=ops" || !cfg.InMemory || cfg.Log.Level != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("ledger", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-health-addr", "127.0.0.1:9999",
		"-transport", "http",
		"-actor", "ops",
		"-db", "/tmp/ledger.db",
		"-in-memory",
		"-grants", "admin=ops",
		"-probe",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HealthAddr != "127.0.0.1:9999" || cfg.Transport != "http" || cfg.StdioActor != "ops" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DBPath != "/tmp/ledger.db" || !cfg.InMemory || cfg.RoleGrants != "admin=ops" || !cfg.Probe {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	cfg := Config{Log: logging.Config{Level: "loud", Format: "json"}}
	if err := Run(context.Background(), cfg); err == nil || !strings.Contains(err.Error(), "log level") {
		t.Fatalf("expected log level error, got %v", err)
	}
}
