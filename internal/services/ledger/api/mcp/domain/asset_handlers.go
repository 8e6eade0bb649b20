package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
)

// AssetCreateHandler executes an asset creation request.
func AssetCreateHandler(ledger Ledger) mcp.ToolHandlerFor[AssetCreateInput, AssetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetCreateInput) (*mcp.CallToolResult, AssetResult, error) {
		amount, err := parseAmount("amount", input.Amount)
		if err != nil {
			return nil, AssetResult{}, toolError(ctx, "asset create", err)
		}
		maxShares, err := parseAmount("max_shares", input.MaxShares)
		if err != nil {
			return nil, AssetResult{}, toolError(ctx, "asset create", err)
		}
		tokenID, err := ledger.CreateAsset(ctx, callerFrom(ctx), input.To, amount, input.MetadataURI, maxShares)
		if err != nil {
			return nil, AssetResult{}, toolError(ctx, "asset create", err)
		}
		return assetResult(ctx, ledger, tokenID, "asset create")
	}
}

// AssetMintHandler executes a mint request.
func AssetMintHandler(ledger Ledger) mcp.ToolHandlerFor[AssetMintInput, BalanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetMintInput) (*mcp.CallToolResult, BalanceResult, error) {
		amount, err := parseAmount("amount", input.Amount)
		if err != nil {
			return nil, BalanceResult{}, toolError(ctx, "asset mint", err)
		}
		if err := ledger.MintAdditional(ctx, callerFrom(ctx), input.TokenID, input.To, amount); err != nil {
			return nil, BalanceResult{}, toolError(ctx, "asset mint", err)
		}
		return nil, balanceResult(ledger, input.TokenID, input.To), nil
	}
}

// AssetBurnHandler executes a burn request.
func AssetBurnHandler(ledger Ledger) mcp.ToolHandlerFor[AssetBurnInput, BalanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetBurnInput) (*mcp.CallToolResult, BalanceResult, error) {
		amount, err := parseAmount("amount", input.Amount)
		if err != nil {
			return nil, BalanceResult{}, toolError(ctx, "asset burn", err)
		}
		if err := ledger.Burn(ctx, callerFrom(ctx), input.Account, input.TokenID, amount); err != nil {
			return nil, BalanceResult{}, toolError(ctx, "asset burn", err)
		}
		return nil, balanceResult(ledger, input.TokenID, input.Account), nil
	}
}

// AssetBurnBatchHandler executes a batch burn request.
func AssetBurnBatchHandler(ledger Ledger) mcp.ToolHandlerFor[AssetBurnBatchInput, BatchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetBurnBatchInput) (*mcp.CallToolResult, BatchResult, error) {
		amounts, err := parseAmounts("amounts", input.Amounts)
		if err != nil {
			return nil, BatchResult{}, toolError(ctx, "asset burn batch", err)
		}
		if err := ledger.BurnBatch(ctx, callerFrom(ctx), input.Account, input.TokenIDs, amounts); err != nil {
			return nil, BatchResult{}, toolError(ctx, "asset burn batch", err)
		}
		result := BatchResult{Balances: make([]BalanceResult, 0, len(input.TokenIDs))}
		for _, tokenID := range input.TokenIDs {
			result.Balances = append(result.Balances, balanceResult(ledger, tokenID, input.Account))
		}
		return nil, result, nil
	}
}

// AssetTransferHandler executes a transfer request.
func AssetTransferHandler(ledger Ledger) mcp.ToolHandlerFor[AssetTransferInput, TransferResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetTransferInput) (*mcp.CallToolResult, TransferResult, error) {
		amount, err := parseAmount("amount", input.Amount)
		if err != nil {
			return nil, TransferResult{}, toolError(ctx, "asset transfer", err)
		}
		if err := ledger.Transfer(ctx, callerFrom(ctx), input.From, input.To, input.TokenID, amount); err != nil {
			return nil, TransferResult{}, toolError(ctx, "asset transfer", err)
		}
		fromBalance := ledger.BalanceOf(input.TokenID, input.From)
		toBalance := ledger.BalanceOf(input.TokenID, input.To)
		return nil, TransferResult{
			TokenID:     input.TokenID,
			From:        input.From,
			To:          input.To,
			Amount:      amount.Dec(),
			FromBalance: fromBalance.Dec(),
			ToBalance:   toBalance.Dec(),
		}, nil
	}
}

// AssetTransferBatchHandler executes a batch transfer request.
func AssetTransferBatchHandler(ledger Ledger) mcp.ToolHandlerFor[AssetTransferBatchInput, BatchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetTransferBatchInput) (*mcp.CallToolResult, BatchResult, error) {
		amounts, err := parseAmounts("amounts", input.Amounts)
		if err != nil {
			return nil, BatchResult{}, toolError(ctx, "asset transfer batch", err)
		}
		if err := ledger.TransferBatch(ctx, callerFrom(ctx), input.From, input.To, input.TokenIDs, amounts); err != nil {
			return nil, BatchResult{}, toolError(ctx, "asset transfer batch", err)
		}
		result := BatchResult{Balances: make([]BalanceResult, 0, 2*len(input.TokenIDs))}
		for _, tokenID := range input.TokenIDs {
			result.Balances = append(result.Balances,
				balanceResult(ledger, tokenID, input.From),
				balanceResult(ledger, tokenID, input.To),
			)
		}
		return nil, result, nil
	}
}

// AssetStatusUpdateHandler executes a lifecycle change.
func AssetStatusUpdateHandler(ledger Ledger) mcp.ToolHandlerFor[AssetStatusUpdateInput, AssetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetStatusUpdateInput) (*mcp.CallToolResult, AssetResult, error) {
		if err := ledger.UpdateStatus(ctx, callerFrom(ctx), input.TokenID, asset.Status(input.Status)); err != nil {
			return nil, AssetResult{}, toolError(ctx, "asset status update", err)
		}
		return assetResult(ctx, ledger, input.TokenID, "asset status update")
	}
}

// AssetURISetHandler executes a metadata update.
func AssetURISetHandler(ledger Ledger) mcp.ToolHandlerFor[AssetURISetInput, AssetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetURISetInput) (*mcp.CallToolResult, AssetResult, error) {
		if err := ledger.SetURI(ctx, callerFrom(ctx), input.TokenID, input.MetadataURI); err != nil {
			return nil, AssetResult{}, toolError(ctx, "asset uri set", err)
		}
		return assetResult(ctx, ledger, input.TokenID, "asset uri set")
	}
}

// AssetGetHandler reads one asset.
func AssetGetHandler(ledger Ledger) mcp.ToolHandlerFor[AssetGetInput, AssetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AssetGetInput) (*mcp.CallToolResult, AssetResult, error) {
		return assetResult(ctx, ledger, input.TokenID, "asset get")
	}
}

// AssetBalanceGetHandler reads one balance.
func AssetBalanceGetHandler(ledger Ledger) mcp.ToolHandlerFor[AssetBalanceGetInput, BalanceResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input AssetBalanceGetInput) (*mcp.CallToolResult, BalanceResult, error) {
		return nil, balanceResult(ledger, input.TokenID, input.Account), nil
	}
}

func assetResult(ctx context.Context, ledger Ledger, tokenID uint64, action string) (*mcp.CallToolResult, AssetResult, error) {
	view, err := ledger.Asset(ctx, tokenID)
	if err != nil {
		return nil, AssetResult{}, toolError(ctx, action, err)
	}
	return nil, assetResultFromView(view), nil
}

func balanceResult(ledger Ledger, tokenID uint64, account string) BalanceResult {
	balance := ledger.BalanceOf(tokenID, account)
	return BalanceResult{TokenID: tokenID, Account: account, Balance: balance.Dec()}
}
