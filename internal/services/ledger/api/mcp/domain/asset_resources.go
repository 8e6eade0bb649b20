package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

const assetURIPrefix = "asset://"

// AssetURI returns the resource URI of tokenID.
func AssetURI(tokenID uint64) string {
	return assetURIPrefix + strconv.FormatUint(tokenID, 10)
}

// AssetResourceTemplate defines the MCP resource template for assets.
func AssetResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "asset",
		Title:       "Asset",
		Description: "Readable asset state and holders. URI format: asset://{token_id}",
		MIMEType:    "application/json",
		URITemplate: "asset://{token_id}",
	}
}

// AssetResourceHandler reads asset://{token_id}.
func AssetResourceHandler(ledger Ledger) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("token id is required; use URI format asset://{token_id}")
		}
		uri := req.Params.URI
		tokenID, err := parseTokenIDFromAssetURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse token id from URI: %w", err)
		}

		view, err := ledger.Asset(ctx, tokenID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				return nil, mcp.ResourceNotFoundError(uri)
			}
			return nil, fmt.Errorf("get asset failed: %w", err)
		}
		holdings, err := ledger.Holders(tokenID)
		if err != nil {
			return nil, fmt.Errorf("list holders failed: %w", err)
		}

		payload := AssetPayload{
			Asset:   assetResultFromView(view),
			Holders: make([]HolderEntry, 0, len(holdings)),
		}
		for _, holding := range holdings {
			payload.Holders = append(payload.Holders, HolderEntry{
				Account: holding.Account,
				Balance: holding.Amount.Dec(),
			})
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal asset: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}

// AssetURIsForEvents lists the asset resources a committed batch changed,
// once each, in first-seen order.
func AssetURIsForEvents(events []event.Event) []string {
	seen := make(map[string]struct{}, len(events))
	var uris []string
	for _, evt := range events {
		if evt.EntityType != asset.EntityTypeAsset || evt.EntityID == "" {
			continue
		}
		uri := assetURIPrefix + evt.EntityID
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		uris = append(uris, uri)
	}
	return uris
}

func parseTokenIDFromAssetURI(uri string) (uint64, error) {
	if !strings.HasPrefix(uri, assetURIPrefix) {
		return 0, fmt.Errorf("URI must start with %q", assetURIPrefix)
	}
	raw := strings.TrimPrefix(uri, assetURIPrefix)
	tokenID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || tokenID == 0 {
		return 0, fmt.Errorf("invalid token id %q", raw)
	}
	return tokenID, nil
}
