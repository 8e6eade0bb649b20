package domain

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fractional/internal/services/ledger/service"
)

// AssetCreateInput represents the MCP tool input for asset creation.
type AssetCreateInput struct {
	To          string `json:"to" jsonschema:"account receiving the initial shares"`
	Amount      string `json:"amount" jsonschema:"initial shares as a decimal string"`
	MaxShares   string `json:"max_shares" jsonschema:"share cap as a decimal string; must be greater than zero"`
	MetadataURI string `json:"metadata_uri" jsonschema:"opaque metadata URI"`
}

// AssetMintInput represents the MCP tool input for minting more shares.
type AssetMintInput struct {
	TokenID uint64 `json:"token_id" jsonschema:"asset token id"`
	To      string `json:"to" jsonschema:"account receiving the shares"`
	Amount  string `json:"amount" jsonschema:"shares as a decimal string"`
}

// AssetBurnInput represents the MCP tool input for burning shares.
type AssetBurnInput struct {
	TokenID uint64 `json:"token_id" jsonschema:"asset token id"`
	Account string `json:"account" jsonschema:"account whose shares are burned"`
	Amount  string `json:"amount" jsonschema:"shares as a decimal string"`
}

// AssetBurnBatchInput represents the MCP tool input for burning several assets.
type AssetBurnBatchInput struct {
	Account  string   `json:"account" jsonschema:"account whose shares are burned"`
	TokenIDs []uint64 `json:"token_ids" jsonschema:"asset token ids"`
	Amounts  []string `json:"amounts" jsonschema:"decimal share amounts, one per token id"`
}

// AssetTransferInput represents the MCP tool input for a share transfer.
type AssetTransferInput struct {
	TokenID uint64 `json:"token_id" jsonschema:"asset token id"`
	From    string `json:"from" jsonschema:"account sending the shares"`
	To      string `json:"to" jsonschema:"account receiving the shares"`
	Amount  string `json:"amount" jsonschema:"shares as a decimal string"`
}

// AssetTransferBatchInput represents the MCP tool input for a batch transfer.
type AssetTransferBatchInput struct {
	From     string   `json:"from" jsonschema:"account sending the shares"`
	To       string   `json:"to" jsonschema:"account receiving the shares"`
	TokenIDs []uint64 `json:"token_ids" jsonschema:"asset token ids"`
	Amounts  []string `json:"amounts" jsonschema:"decimal share amounts, one per token id"`
}

// AssetStatusUpdateInput represents the MCP tool input for a lifecycle change.
type AssetStatusUpdateInput struct {
	TokenID uint64 `json:"token_id" jsonschema:"asset token id"`
	Status  string `json:"status" jsonschema:"target status (Pending, Certified, InEscrow, Disputed, Fraudulent)"`
}

// AssetURISetInput represents the MCP tool input for replacing metadata.
type AssetURISetInput struct {
	TokenID     uint64 `json:"token_id" jsonschema:"asset token id"`
	MetadataURI string `json:"metadata_uri" jsonschema:"new opaque metadata URI"`
}

// AssetGetInput represents the MCP tool input for reading an asset.
type AssetGetInput struct {
	TokenID uint64 `json:"token_id" jsonschema:"asset token id"`
}

// AssetBalanceGetInput represents the MCP tool input for a balance lookup.
type AssetBalanceGetInput struct {
	TokenID uint64 `json:"token_id" jsonschema:"asset token id"`
	Account string `json:"account" jsonschema:"account to look up"`
}

// AssetResult is the MCP view of one asset.
type AssetResult struct {
	TokenID            uint64   `json:"token_id"`
	Status             string   `json:"status"`
	TotalShares        string   `json:"total_shares"`
	MaxShares          string   `json:"max_shares"`
	MetadataURI        string   `json:"metadata_uri"`
	AllowedTransitions []string `json:"allowed_transitions"`
}

// BalanceResult is one account's holding of one asset.
type BalanceResult struct {
	TokenID uint64 `json:"token_id"`
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// TransferResult reports both sides of a transfer after it committed.
type TransferResult struct {
	TokenID     uint64 `json:"token_id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      string `json:"amount"`
	FromBalance string `json:"from_balance"`
	ToBalance   string `json:"to_balance"`
}

// BatchResult reports the balances touched by a batch, in input order.
type BatchResult struct {
	Balances []BalanceResult `json:"balances"`
}

// HolderEntry is one account in an asset's holder list.
type HolderEntry struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// AssetPayload is the body of the asset://{token_id} resource.
type AssetPayload struct {
	Asset   AssetResult   `json:"asset"`
	Holders []HolderEntry `json:"holders"`
}

// AssetCreateTool defines the MCP tool schema for asset creation.
func AssetCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_create",
		Description: "Creates a fractional asset in Pending status and mints its initial shares",
	}
}

// AssetMintTool defines the MCP tool schema for minting shares.
func AssetMintTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_mint",
		Description: "Mints additional shares of an existing asset up to its cap",
	}
}

// AssetBurnTool defines the MCP tool schema for burning shares.
func AssetBurnTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_burn",
		Description: "Burns shares of an asset held by an account",
	}
}

// AssetBurnBatchTool defines the MCP tool schema for batch burns.
func AssetBurnBatchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_burn_batch",
		Description: "Burns shares of several assets from one account; all entries succeed or none do",
	}
}

// AssetTransferTool defines the MCP tool schema for transfers.
func AssetTransferTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_transfer",
		Description: "Transfers shares of a Certified asset between accounts",
	}
}

// AssetTransferBatchTool defines the MCP tool schema for batch transfers.
func AssetTransferBatchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_transfer_batch",
		Description: "Transfers shares of several Certified assets; all entries succeed or none do",
	}
}

// AssetStatusUpdateTool defines the MCP tool schema for lifecycle changes.
func AssetStatusUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_status_update",
		Description: "Moves an asset along its lifecycle; Fraudulent is final",
	}
}

// AssetURISetTool defines the MCP tool schema for metadata updates.
func AssetURISetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_uri_set",
		Description: "Replaces the metadata URI of an asset",
	}
}

// AssetGetTool defines the MCP tool schema for reading an asset.
func AssetGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_get",
		Description: "Returns an asset's status, supply, cap, metadata and next allowed statuses",
	}
}

// AssetBalanceGetTool defines the MCP tool schema for balance lookups.
func AssetBalanceGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "asset_balance_get",
		Description: "Returns an account's share balance of an asset",
	}
}

func assetResultFromView(view service.AssetView) AssetResult {
	transitions := make([]string, 0, len(view.AllowedTransitions))
	for _, status := range view.AllowedTransitions {
		transitions = append(transitions, string(status))
	}
	return AssetResult{
		TokenID:            view.TokenID,
		Status:             string(view.Status),
		TotalShares:        view.TotalShares.Dec(),
		MaxShares:          view.MaxShares.Dec(),
		MetadataURI:        view.URI,
		AllowedTransitions: transitions,
	}
}
