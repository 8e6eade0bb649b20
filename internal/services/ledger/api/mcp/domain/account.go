package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
)

// AccountKYCSetInput represents the MCP tool input for KYC updates.
type AccountKYCSetInput struct {
	Account  string `json:"account" jsonschema:"account to update"`
	Verified bool   `json:"verified" jsonschema:"whether the account passed verification"`
}

// AccountKYCResult reports an account's verification flag.
type AccountKYCResult struct {
	Account  string `json:"account"`
	Verified bool   `json:"verified"`
}

// AccountApprovalSetInput represents the MCP tool input for operator approval.
type AccountApprovalSetInput struct {
	Operator string `json:"operator" jsonschema:"account allowed to move the caller's shares"`
	Approved bool   `json:"approved" jsonschema:"grant (true) or revoke (false) the approval"`
}

// AccountApprovalResult reports an operator approval.
type AccountApprovalResult struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// LedgerPauseInput is the empty input of the pause tools.
type LedgerPauseInput struct{}

// LedgerPauseResult reports the pause switch.
type LedgerPauseResult struct {
	Paused bool `json:"paused"`
}

// RoleChangeInput represents the MCP tool input for role administration.
type RoleChangeInput struct {
	Role    string `json:"role" jsonschema:"role name (admin, minter, burner, status_manager, uri_setter, kyc_manager, pauser)"`
	Account string `json:"account" jsonschema:"account to grant or revoke"`
}

// RoleChangeResult reports a role change.
type RoleChangeResult struct {
	Role    string `json:"role"`
	Account string `json:"account"`
	Granted bool   `json:"granted"`
}

// AccountKYCSetTool defines the MCP tool schema for KYC updates.
func AccountKYCSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "account_kyc_set",
		Description: "Records whether an account passed KYC",
	}
}

// AccountApprovalSetTool defines the MCP tool schema for operator approvals.
func AccountApprovalSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "account_approval_set",
		Description: "Approves or revokes an operator for all of the caller's shares",
	}
}

// LedgerPauseTool defines the MCP tool schema for pausing the ledger.
func LedgerPauseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ledger_pause",
		Description: "Pauses share and lifecycle mutations",
	}
}

// LedgerUnpauseTool defines the MCP tool schema for resuming the ledger.
func LedgerUnpauseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ledger_unpause",
		Description: "Resumes share and lifecycle mutations",
	}
}

// RoleGrantTool defines the MCP tool schema for granting roles.
func RoleGrantTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "role_grant",
		Description: "Grants a ledger role to an account",
	}
}

// RoleRevokeTool defines the MCP tool schema for revoking roles.
func RoleRevokeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "role_revoke",
		Description: "Revokes a ledger role from an account",
	}
}

// AccountKYCSetHandler executes a KYC update.
func AccountKYCSetHandler(ledger Ledger) mcp.ToolHandlerFor[AccountKYCSetInput, AccountKYCResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AccountKYCSetInput) (*mcp.CallToolResult, AccountKYCResult, error) {
		if err := ledger.SetKYC(ctx, callerFrom(ctx), input.Account, input.Verified); err != nil {
			return nil, AccountKYCResult{}, toolError(ctx, "account kyc set", err)
		}
		return nil, AccountKYCResult{Account: input.Account, Verified: ledger.IsKYCVerified(input.Account)}, nil
	}
}

// AccountApprovalSetHandler executes an operator approval change.
func AccountApprovalSetHandler(ledger Ledger) mcp.ToolHandlerFor[AccountApprovalSetInput, AccountApprovalResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AccountApprovalSetInput) (*mcp.CallToolResult, AccountApprovalResult, error) {
		caller := callerFrom(ctx)
		if err := ledger.SetApprovalForAll(ctx, caller, input.Operator, input.Approved); err != nil {
			return nil, AccountApprovalResult{}, toolError(ctx, "account approval set", err)
		}
		return nil, AccountApprovalResult{Owner: caller, Operator: input.Operator, Approved: input.Approved}, nil
	}
}

// LedgerPauseHandler turns the pause switch on.
func LedgerPauseHandler(ledger Ledger) mcp.ToolHandlerFor[LedgerPauseInput, LedgerPauseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ LedgerPauseInput) (*mcp.CallToolResult, LedgerPauseResult, error) {
		if err := ledger.Pause(ctx, callerFrom(ctx)); err != nil {
			return nil, LedgerPauseResult{}, toolError(ctx, "ledger pause", err)
		}
		return nil, LedgerPauseResult{Paused: ledger.Paused()}, nil
	}
}

// LedgerUnpauseHandler turns the pause switch off.
func LedgerUnpauseHandler(ledger Ledger) mcp.ToolHandlerFor[LedgerPauseInput, LedgerPauseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ LedgerPauseInput) (*mcp.CallToolResult, LedgerPauseResult, error) {
		if err := ledger.Unpause(ctx, callerFrom(ctx)); err != nil {
			return nil, LedgerPauseResult{}, toolError(ctx, "ledger unpause", err)
		}
		return nil, LedgerPauseResult{Paused: ledger.Paused()}, nil
	}
}

// RoleGrantHandler grants a role.
func RoleGrantHandler(ledger Ledger) mcp.ToolHandlerFor[RoleChangeInput, RoleChangeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RoleChangeInput) (*mcp.CallToolResult, RoleChangeResult, error) {
		if err := ledger.GrantRole(ctx, callerFrom(ctx), authz.Role(input.Role), input.Account); err != nil {
			return nil, RoleChangeResult{}, toolError(ctx, "role grant", err)
		}
		return nil, RoleChangeResult{Role: input.Role, Account: input.Account, Granted: true}, nil
	}
}

// RoleRevokeHandler revokes a role.
func RoleRevokeHandler(ledger Ledger) mcp.ToolHandlerFor[RoleChangeInput, RoleChangeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RoleChangeInput) (*mcp.CallToolResult, RoleChangeResult, error) {
		if err := ledger.RevokeRole(ctx, callerFrom(ctx), authz.Role(input.Role), input.Account); err != nil {
			return nil, RoleChangeResult{}, toolError(ctx, "role revoke", err)
		}
		return nil, RoleChangeResult{Role: input.Role, Account: input.Account, Granted: false}, nil
	}
}
