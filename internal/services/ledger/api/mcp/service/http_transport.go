package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/louisbranch/fractional/internal/platform/config"
	"github.com/louisbranch/fractional/internal/platform/requestctx"
	"github.com/louisbranch/fractional/internal/platform/timeouts"
)

var listenTCP = net.Listen

const sessionIDHeader = "Mcp-Session-Id"

// mcpHTTPEnv holds env-parsed configuration for the MCP HTTP transport.
type mcpHTTPEnv struct {
	AllowedHosts []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
}

// BearerVerifier resolves a bearer token to the acting account.
type BearerVerifier interface {
	Verify(token string) (string, error)
}

// HTTPTransport serves streamable MCP over HTTP. Every request carries a
// bearer token whose subject selects the per-actor MCP server; a session
// stays bound to the actor that opened it.
type HTTPTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	host         *Server
	verifier     BearerVerifier
	logger       *zap.Logger

	sessionsMu sync.Mutex
	sessions   map[string]string
}

// NewHTTPTransport creates a transport on addr, defaulting to a loopback
// address.
func NewHTTPTransport(host *Server, addr string, verifier BearerVerifier) (*HTTPTransport, error) {
	if host == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("bearer verifier is required")
	}
	if strings.TrimSpace(addr) == "" {
		addr = "localhost:8081"
	}
	var raw mcpHTTPEnv
	if err := config.ParseEnv(&raw); err != nil {
		return nil, err
	}
	return &HTTPTransport{
		addr:         addr,
		allowedHosts: parseAllowedHosts(raw.AllowedHosts),
		host:         host,
		verifier:     verifier,
		logger:       host.logger,
		sessions:     make(map[string]string),
	}, nil
}

// Handler returns the HTTP routes: /mcp for MCP traffic and /mcp/health.
func (t *HTTPTransport) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		server, err := t.host.serverFor(requestctx.ActorIDFromContext(r.Context()))
		if err != nil {
			t.logger.Warn("mcp server unavailable", zap.Error(err))
			return nil
		}
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", t.guard(streamable))
	mux.HandleFunc("/mcp/health", t.handleHealth)
	return mux
}

// guard rejects foreign hosts and unauthenticated requests, then stamps the
// token subject on the request context.
func (t *HTTPTransport) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.validateLocalRequest(r); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		actor, err := t.verifier.Verify(token)
		if err != nil {
			t.logger.Debug("mcp bearer token rejected", zap.Error(err))
			writeUnauthorized(w)
			return
		}

		sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
		if sessionID != "" {
			owner, known := t.sessionOwner(sessionID)
			if known && owner != actor {
				http.Error(w, "session belongs to another actor", http.StatusForbidden)
				return
			}
		}

		ctx := requestctx.WithActorID(r.Context(), actor)
		next.ServeHTTP(&sessionRecorder{ResponseWriter: w, transport: t, actor: actor}, r.WithContext(ctx))

		if r.Method == http.MethodDelete && sessionID != "" {
			t.forgetSession(sessionID)
		}
	})
}

func (t *HTTPTransport) sessionOwner(sessionID string) (string, bool) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	owner, ok := t.sessions[sessionID]
	return owner, ok
}

func (t *HTTPTransport) bindSession(sessionID, actor string) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	if _, ok := t.sessions[sessionID]; !ok {
		t.sessions[sessionID] = actor
	}
}

func (t *HTTPTransport) forgetSession(sessionID string) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	delete(t.sessions, sessionID)
}

// sessionRecorder binds a newly issued session id to the requesting actor.
type sessionRecorder struct {
	http.ResponseWriter
	transport *HTTPTransport
	actor     string
	recorded  bool
}

func (w *sessionRecorder) WriteHeader(status int) {
	w.record()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionRecorder) Write(p []byte) (int, error) {
	w.record()
	return w.ResponseWriter.Write(p)
}

func (w *sessionRecorder) Flush() {
	w.record()
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *sessionRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *sessionRecorder) record() {
	if w.recorded {
		return
	}
	w.recorded = true
	if sessionID := strings.TrimSpace(w.Header().Get(sessionIDHeader)); sessionID != "" {
		w.transport.bindSession(sessionID, w.actor)
	}
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start serves HTTP until ctx ends, then shuts down gracefully.
func (t *HTTPTransport) Start(ctx context.Context) error {
	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}
	httpServer := &http.Server{
		Handler:           t.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	t.logger.Info("mcp http server started", zap.String("addr", listener.Addr().String()))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		t.logger.Info("mcp http server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}
