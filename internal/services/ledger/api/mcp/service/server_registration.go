package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fractional/internal/services/ledger/api/mcp/domain"
)

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpAssetToolsModuleName    = "asset-tools"
	mcpAccountToolsModuleName  = "account-tools"
	mcpAdminToolsModuleName    = "admin-tools"
	mcpEventToolsModuleName    = "event-tools"
	mcpAssetResourceModuleName = "asset-resources"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
}

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.AssetCreateInput, domain.AssetResult](),
	newMCPToolRegistrar[domain.AssetMintInput, domain.BalanceResult](),
	newMCPToolRegistrar[domain.AssetBurnInput, domain.BalanceResult](),
	newMCPToolRegistrar[domain.AssetBurnBatchInput, domain.BatchResult](),
	newMCPToolRegistrar[domain.AssetTransferInput, domain.TransferResult](),
	newMCPToolRegistrar[domain.AssetTransferBatchInput, domain.BatchResult](),
	newMCPToolRegistrar[domain.AssetStatusUpdateInput, domain.AssetResult](),
	newMCPToolRegistrar[domain.AssetURISetInput, domain.AssetResult](),
	newMCPToolRegistrar[domain.AssetGetInput, domain.AssetResult](),
	newMCPToolRegistrar[domain.AssetBalanceGetInput, domain.BalanceResult](),
	newMCPToolRegistrar[domain.AccountKYCSetInput, domain.AccountKYCResult](),
	newMCPToolRegistrar[domain.AccountApprovalSetInput, domain.AccountApprovalResult](),
	newMCPToolRegistrar[domain.LedgerPauseInput, domain.LedgerPauseResult](),
	newMCPToolRegistrar[domain.RoleChangeInput, domain.RoleChangeResult](),
	newMCPToolRegistrar[domain.EventListInput, domain.EventListResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

type toolRegistration struct {
	tool    *mcp.Tool
	handler any
}

func registerTools(registrar mcpRegistrationTarget, registrations []toolRegistration) error {
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerAssetTools(registrar mcpRegistrationTarget, ledger domain.Ledger) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.AssetCreateTool(), handler: domain.AssetCreateHandler(ledger)},
		{tool: domain.AssetMintTool(), handler: domain.AssetMintHandler(ledger)},
		{tool: domain.AssetBurnTool(), handler: domain.AssetBurnHandler(ledger)},
		{tool: domain.AssetBurnBatchTool(), handler: domain.AssetBurnBatchHandler(ledger)},
		{tool: domain.AssetTransferTool(), handler: domain.AssetTransferHandler(ledger)},
		{tool: domain.AssetTransferBatchTool(), handler: domain.AssetTransferBatchHandler(ledger)},
		{tool: domain.AssetStatusUpdateTool(), handler: domain.AssetStatusUpdateHandler(ledger)},
		{tool: domain.AssetURISetTool(), handler: domain.AssetURISetHandler(ledger)},
		{tool: domain.AssetGetTool(), handler: domain.AssetGetHandler(ledger)},
		{tool: domain.AssetBalanceGetTool(), handler: domain.AssetBalanceGetHandler(ledger)},
	})
}

func registerAccountTools(registrar mcpRegistrationTarget, ledger domain.Ledger) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.AccountKYCSetTool(), handler: domain.AccountKYCSetHandler(ledger)},
		{tool: domain.AccountApprovalSetTool(), handler: domain.AccountApprovalSetHandler(ledger)},
	})
}

func registerAdminTools(registrar mcpRegistrationTarget, ledger domain.Ledger) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.LedgerPauseTool(), handler: domain.LedgerPauseHandler(ledger)},
		{tool: domain.LedgerUnpauseTool(), handler: domain.LedgerUnpauseHandler(ledger)},
		{tool: domain.RoleGrantTool(), handler: domain.RoleGrantHandler(ledger)},
		{tool: domain.RoleRevokeTool(), handler: domain.RoleRevokeHandler(ledger)},
	})
}

func registerEventTools(registrar mcpRegistrationTarget, ledger domain.Ledger) error {
	return registerTool(registrar, domain.EventListTool(), domain.EventListHandler(ledger))
}

func registerAssetResources(registrar mcpRegistrationTarget, ledger domain.Ledger) {
	registrar.AddResourceTemplate(domain.AssetResourceTemplate(), domain.AssetResourceHandler(ledger))
}

func newMCPRegistrationModules(ledger domain.Ledger) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpAssetToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAssetTools(registrar, ledger)
			},
		},
		{
			name: mcpAccountToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAccountTools(registrar, ledger)
			},
		},
		{
			name: mcpAdminToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAdminTools(registrar, ledger)
			},
		},
		{
			name: mcpEventToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerEventTools(registrar, ledger)
			},
		},
		{
			name: mcpAssetResourceModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerAssetResources(registrar, ledger)
				return nil
			},
		},
	}
}

// registerModules registers tools before resources so a failed tool
// registration never leaves a server exposing resources alone.
func registerModules(server *mcp.Server, modules []mcpRegistrationModule) error {
	registrar := mcpServerRegistrationAdapter{server: server}
	for _, kind := range []mcpRegistrationKind{mcpRegistrationKindTools, mcpRegistrationKindResources} {
		for _, module := range modules {
			if module.kind != kind {
				continue
			}
			if err := module.register(registrar); err != nil {
				return fmt.Errorf("register %s: %w", module.name, err)
			}
		}
	}
	return nil
}
