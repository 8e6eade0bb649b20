package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fractional/internal/services/ledger/api/mcp/domain"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
	ledgerservice "github.com/louisbranch/fractional/internal/services/ledger/service"
	"github.com/louisbranch/fractional/internal/services/ledger/storage/memory"
)

func newTestHost(t *testing.T) (*Server, *ledgerservice.Ledger) {
	t.Helper()
	store := memory.New()
	table := authz.NewTable()
	table.Seed(map[authz.Role][]string{
		authz.RoleMinter:        {"minter"},
		authz.RoleStatusManager: {"manager"},
	})
	ledger, err := ledgerservice.New(ledgerservice.Config{Events: store, Metadata: store, Access: table})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	host, err := New(ledger, nil)
	if err != nil {
		t.Fatalf("new mcp host: %v", err)
	}
	ledger.Observe(host.NotifyCommitted)
	return host, ledger
}

// connect serves actor's MCP server on in-memory transports and returns a
// client session plus a stop function that asserts a clean shutdown.
func connect(t *testing.T, host *Server, actor string) (*mcp.ClientSession, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- host.serveWithTransport(ctx, actor, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}

	return session, func() {
		_ = session.Close()
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Fatalf("serve returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop after cancel")
		}
	}
}

func TestNewRequiresLedger(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected error for nil ledger")
	}
}

func TestServerForCachesPerActor(t *testing.T) {
	host, _ := newTestHost(t)

	first, err := host.serverFor("alice")
	if err != nil {
		t.Fatalf("server for alice: %v", err)
	}
	again, err := host.serverFor(" alice ")
	if err != nil {
		t.Fatalf("server for alice again: %v", err)
	}
	if first != again {
		t.Fatal("expected cached server for the same actor")
	}
	other, err := host.serverFor("bob")
	if err != nil {
		t.Fatalf("server for bob: %v", err)
	}
	if other == first {
		t.Fatal("expected distinct server per actor")
	}
	if _, err := host.serverFor(""); err == nil {
		t.Fatal("expected error for empty actor")
	}
}

func TestRunStdioRequiresActor(t *testing.T) {
	host, _ := newTestHost(t)
	if err := host.RunStdio(context.Background(), "  "); err == nil {
		t.Fatal("expected error for missing stdio actor")
	}
}

func TestServeWithTransportCallsToolsAsActor(t *testing.T) {
	host, ledger := newTestHost(t)
	session, stop := connect(t, host, "minter")
	defer stop()

	ctx := context.Background()
	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make(map[string]bool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"asset_create", "asset_transfer_batch", "asset_status_update", "event_list", "role_grant"} {
		if !names[want] {
			t.Fatalf("expected tool %q to be registered", want)
		}
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "asset_create",
		Arguments: map[string]any{
			"to":           "alice",
			"amount":       "100",
			"max_shares":   "1000",
			"metadata_uri": "ipfs://asset",
		},
	})
	if err != nil {
		t.Fatalf("call asset_create: %v", err)
	}
	if result.IsError {
		t.Fatalf("asset_create returned tool error: %+v", result.Content)
	}
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var created domain.AssetResult
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	if created.TokenID != 1 || created.TotalShares != "100" {
		t.Fatalf("created = %+v", created)
	}

	balance := ledger.BalanceOf(1, "alice")
	if balance.Dec() != "100" {
		t.Fatalf("alice balance = %s", balance.Dec())
	}

	// minter holds no status manager role.
	denied, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "asset_status_update",
		Arguments: map[string]any{"token_id": 1, "status": "Certified"},
	})
	if err == nil && (denied == nil || !denied.IsError) {
		t.Fatal("expected status update as minter to fail")
	}

	resource, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: domain.AssetURI(1)})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(resource.Contents) != 1 || !strings.Contains(resource.Contents[0].Text, `"alice"`) {
		t.Fatalf("resource contents = %+v", resource.Contents)
	}
}

func TestNotifyCommittedIgnoresBatchesWithoutAssets(t *testing.T) {
	host, _ := newTestHost(t)
	if _, err := host.serverFor("alice"); err != nil {
		t.Fatalf("server for alice: %v", err)
	}
	// No assets means no URIs and no notifications to send.
	host.NotifyCommitted(context.Background(), []event.Event{{EntityType: "account", EntityID: "alice"}})
}

func TestResourceSubscribeHandler(t *testing.T) {
	ctx := context.Background()
	if err := resourceSubscribeHandler(ctx, &mcp.SubscribeRequest{Params: &mcp.SubscribeParams{URI: "asset://1"}}); err != nil {
		t.Fatalf("subscribe asset: %v", err)
	}
	if err := resourceSubscribeHandler(ctx, &mcp.SubscribeRequest{Params: &mcp.SubscribeParams{URI: "account://1"}}); err == nil {
		t.Fatal("expected unsupported uri error")
	}
	if err := resourceSubscribeHandler(ctx, &mcp.SubscribeRequest{}); err == nil {
		t.Fatal("expected missing uri error")
	}
	if err := resourceUnsubscribeHandler(ctx, &mcp.UnsubscribeRequest{Params: &mcp.UnsubscribeParams{URI: "asset://1"}}); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
}

type recordingTarget struct {
	tools     []string
	resources []string
}

func (r *recordingTarget) AddTool(tool *mcp.Tool, _ any) error {
	r.tools = append(r.tools, tool.Name)
	return nil
}

func (r *recordingTarget) AddResourceTemplate(template *mcp.ResourceTemplate, _ mcp.ResourceHandler) {
	r.resources = append(r.resources, template.URITemplate)
}

func TestRegistrationModulesCoverEveryTool(t *testing.T) {
	_, ledger := newTestHost(t)
	target := &recordingTarget{}
	for _, module := range newMCPRegistrationModules(ledger) {
		if err := module.register(target); err != nil {
			t.Fatalf("register %s: %v", module.name, err)
		}
	}
	if len(target.tools) != 17 {
		t.Fatalf("expected 17 tools, got %d: %v", len(target.tools), target.tools)
	}
	if len(target.resources) != 1 || target.resources[0] != "asset://{token_id}" {
		t.Fatalf("resources = %v", target.resources)
	}
}

func TestAddMCPToolRejectsUnknownHandler(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	err := addMCPTool(server, &mcp.Tool{Name: "bogus"}, func() {})
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected unsupported handler error, got %v", err)
	}
}

func TestToolErrorsUseConfiguredLocale(t *testing.T) {
	t.Setenv("FRACTIONAL_LEDGER_MCP_LOCALE", "pt-BR")
	host, _ := newTestHost(t)
	session, stop := connect(t, host, "alice")
	defer stop()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "asset_get",
		Arguments: map[string]any{"token_id": 42},
	})
	if err != nil {
		t.Fatalf("call asset_get: %v", err)
	}
	if !result.IsError || len(result.Content) == 0 {
		t.Fatalf("expected tool error, got %+v", result)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok || !strings.Contains(text.Text, "o ativo 42 não existe") {
		t.Fatalf("expected pt-BR message, got %+v", result.Content[0])
	}
}
