package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/louisbranch/fractional/internal/platform/config"
	"github.com/louisbranch/fractional/internal/platform/requestctx"
	"github.com/louisbranch/fractional/internal/services/ledger/api/mcp/domain"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "fractional-ledger-mcp"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// mcpEnv holds env-parsed configuration shared by every MCP transport.
type mcpEnv struct {
	// Locale selects the catalog tool errors render from; empty keeps the
	// English developer messages.
	Locale string `env:"MCP_LOCALE"`
}

// Server builds per-actor MCP servers over one ledger.
type Server struct {
	ledger domain.Ledger
	logger *zap.Logger
	locale string

	mu      sync.Mutex
	servers map[string]*mcp.Server
}

// New creates the MCP host. Register NotifyCommitted as a ledger observer to
// push asset updates to subscribed sessions.
func New(ledger domain.Ledger, logger *zap.Logger) (*Server, error) {
	if ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var raw mcpEnv
	if err := config.ParseEnv(&raw); err != nil {
		return nil, err
	}
	s := &Server{
		ledger:  ledger,
		logger:  logger,
		locale:  strings.TrimSpace(raw.Locale),
		servers: make(map[string]*mcp.Server),
	}
	return s, nil
}

// NotifyCommitted announces the asset resources changed by a committed batch.
// It has the shape of a ledger observer.
func (s *Server) NotifyCommitted(ctx context.Context, events []event.Event) {
	uris := domain.AssetURIsForEvents(events)
	if len(uris) == 0 {
		return
	}
	s.mu.Lock()
	servers := make([]*mcp.Server, 0, len(s.servers))
	for _, server := range s.servers {
		servers = append(servers, server)
	}
	s.mu.Unlock()

	for _, server := range servers {
		for _, uri := range uris {
			if err := server.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
				s.logger.Warn("mcp resource updated notify failed", zap.String("uri", uri), zap.Error(err))
			}
		}
	}
}

// serverFor returns the MCP server bound to actor, creating it on first use.
func (s *Server) serverFor(actor string) (*mcp.Server, error) {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return nil, fmt.Errorf("actor is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if server, ok := s.servers[actor]; ok {
		return server, nil
	}
	server, err := s.newMCPServer(actor)
	if err != nil {
		return nil, err
	}
	s.servers[actor] = server
	return server, nil
}

func (s *Server) newMCPServer(actor string) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	server.AddReceivingMiddleware(actorMiddleware(actor, s.locale))

	if err := registerModules(server, newMCPRegistrationModules(s.ledger)); err != nil {
		return nil, err
	}
	return server, nil
}

// actorMiddleware stamps every inbound request with the server's actor and
// configured locale.
func actorMiddleware(actor, locale string) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			ctx = requestctx.WithActorID(ctx, actor)
			if locale != "" {
				ctx = requestctx.WithLocale(ctx, locale)
			}
			return next(ctx, method, req)
		}
	}
}

// RunStdio serves MCP over stdin/stdout as actor until ctx ends.
func (s *Server) RunStdio(ctx context.Context, actor string) error {
	if strings.TrimSpace(actor) == "" {
		return fmt.Errorf("stdio actor is required")
	}
	s.logger.Info("mcp stdio server started", zap.String("actor", actor))
	return s.serveWithTransport(ctx, actor, &mcp.StdioTransport{})
}

// serveWithTransport runs the actor's MCP server on transport until ctx ends.
func (s *Server) serveWithTransport(ctx context.Context, actor string, transport mcp.Transport) error {
	server, err := s.serverFor(actor)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err = server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// resourceSubscribeHandler accepts subscriptions to asset resources.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	if !strings.HasPrefix(req.Params.URI, "asset://") {
		return fmt.Errorf("unsupported resource uri: %s", req.Params.URI)
	}
	return nil
}

// resourceUnsubscribeHandler accepts unsubscription for any non-empty URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}
