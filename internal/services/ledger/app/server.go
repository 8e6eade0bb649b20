// Package server wires the ledger runtime: event storage, state replay, the
// MCP surface, and the gRPC health lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	platformgrpc "github.com/louisbranch/fractional/internal/platform/grpc"
	mcpservice "github.com/louisbranch/fractional/internal/services/ledger/api/mcp/service"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/replay"
	"github.com/louisbranch/fractional/internal/services/ledger/service"
	"github.com/louisbranch/fractional/internal/services/ledger/storage"
	"github.com/louisbranch/fractional/internal/services/ledger/storage/integrity"
	"github.com/louisbranch/fractional/internal/services/ledger/storage/memory"
	ledgersqlite "github.com/louisbranch/fractional/internal/services/ledger/storage/sqlite"
)

// HealthService names the ledger in grpc.health.v1 checks.
const HealthService = "fractional.ledger.v1.Ledger"

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config selects storage and the MCP surface for one ledger process.
type Config struct {
	HealthAddr string
	Transport  string
	StdioActor string
	HTTPAddr   string

	DBPath     string
	InMemory   bool
	Journal    string
	RoleGrants string

	Logger *zap.Logger
}

// Server hosts one ledger and its protocol surfaces.
type Server struct {
	cfg    Config
	logger *zap.Logger
	store  storage.Store
	ledger *service.Ledger
	mcp    *mcpservice.Server
	http   *mcpservice.HTTPTransport
	health *platformgrpc.HealthServer
}

// New opens storage, rebuilds ledger state from the journal, seeds role
// grants, and prepares the configured MCP transport.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := strings.ToLower(strings.TrimSpace(cfg.Transport))
	if transport == "" {
		transport = TransportStdio
	}
	switch transport {
	case TransportStdio:
		if strings.TrimSpace(cfg.StdioActor) == "" {
			return nil, fmt.Errorf("stdio transport requires an actor")
		}
	case TransportHTTP:
	default:
		return nil, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	cfg.Transport = transport

	grants, err := authz.ParseGrants(cfg.RoleGrants)
	if err != nil {
		return nil, fmt.Errorf("parse role grants: %w", err)
	}

	keyring, err := loadKeyring(cfg.InMemory)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, keyring)
	if err != nil {
		return nil, err
	}

	srv, err := newWithStore(ctx, cfg, logger, store, keyring, grants)
	if err != nil {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("close ledger store", zap.Error(closeErr))
		}
		return nil, err
	}
	return srv, nil
}

func newWithStore(ctx context.Context, cfg Config, logger *zap.Logger, store storage.Store, keyring *integrity.Keyring, grants map[authz.Role][]string) (*Server, error) {
	access := authz.NewTable()
	access.Seed(grants)

	ledger, err := service.New(service.Config{
		Events:   store,
		Metadata: store,
		Access:   access,
		Logger:   logger,
		Journal:  cfg.Journal,
	})
	if err != nil {
		return nil, fmt.Errorf("build ledger: %w", err)
	}

	var verifier replay.Verifier
	if keyring != nil {
		verifier = keyring
	}
	if _, err := ledger.Load(ctx, verifier); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	mcpServer, err := mcpservice.New(ledger, logger)
	if err != nil {
		return nil, fmt.Errorf("build mcp server: %w", err)
	}
	ledger.Observe(mcpServer.NotifyCommitted)

	var httpTransport *mcpservice.HTTPTransport
	if cfg.Transport == TransportHTTP {
		verifierCfg, err := mcpservice.LoadTokenVerifierConfigFromEnv(nil)
		if err != nil {
			return nil, err
		}
		tokens, err := mcpservice.NewTokenVerifier(verifierCfg)
		if err != nil {
			return nil, fmt.Errorf("build token verifier: %w", err)
		}
		httpTransport, err = mcpservice.NewHTTPTransport(mcpServer, cfg.HTTPAddr, tokens)
		if err != nil {
			return nil, fmt.Errorf("build mcp http transport: %w", err)
		}
	}

	health, err := platformgrpc.NewHealthServer(cfg.HealthAddr, HealthService, logger)
	if err != nil {
		return nil, err
	}

	for role, accounts := range grants {
		logger.Info("role seeded", zap.String("role", string(role)), zap.Strings("accounts", accounts))
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ledger: ledger,
		mcp:    mcpServer,
		http:   httpTransport,
		health: health,
	}, nil
}

// HealthAddr returns the bound gRPC health address.
func (s *Server) HealthAddr() string {
	if s == nil || s.health == nil {
		return ""
	}
	return s.health.Addr()
}

// Ledger exposes the hosted ledger.
func (s *Server) Ledger() *service.Ledger {
	return s.ledger
}

// Run builds a server from cfg and serves until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	srv, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve reports SERVING over gRPC health and runs the MCP transport until
// ctx ends or either surface fails.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthErr := make(chan error, 1)
	go func() {
		healthErr <- s.health.Serve(runCtx)
	}()
	s.health.SetServing(true)

	mcpErr := make(chan error, 1)
	go func() {
		mcpErr <- s.serveMCP(runCtx)
	}()

	select {
	case err := <-mcpErr:
		s.health.SetServing(false)
		cancel()
		if hErr := <-healthErr; hErr != nil && err == nil {
			err = hErr
		}
		return err
	case err := <-healthErr:
		cancel()
		if mErr := <-mcpErr; mErr != nil && err == nil {
			err = mErr
		}
		return err
	}
}

func (s *Server) serveMCP(ctx context.Context) error {
	switch s.cfg.Transport {
	case TransportHTTP:
		return s.http.Start(ctx)
	default:
		return s.mcp.RunStdio(ctx, s.cfg.StdioActor)
	}
}

// Close releases the health listener and storage. It is safe to call more
// than once.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Close()
		s.health = nil
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("close ledger store", zap.Error(err))
		}
		s.store = nil
	}
}

// loadKeyring requires signing keys for durable storage; in-memory ledgers
// sign only when keys are configured.
func loadKeyring(inMemory bool) (*integrity.Keyring, error) {
	keyring, err := integrity.KeyringFromEnv()
	if err == nil {
		return keyring, nil
	}
	if inMemory {
		return nil, nil
	}
	return nil, fmt.Errorf("load event keyring: %w", err)
}

func openStore(ctx context.Context, cfg Config, keyring *integrity.Keyring) (storage.Store, error) {
	if cfg.InMemory {
		opts := []memory.Option{memory.WithJournal(cfg.Journal)}
		if keyring != nil {
			opts = append(opts, memory.WithKeyring(keyring))
		}
		return memory.New(opts...), nil
	}

	path := strings.TrimSpace(cfg.DBPath)
	if path == "" {
		path = filepath.Join("data", "ledger.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := ledgersqlite.Open(ctx, path, keyring, ledgersqlite.WithJournal(cfg.Journal))
	if err != nil {
		return nil, fmt.Errorf("open ledger sqlite store: %w", err)
	}
	return store, nil
}
