package domain

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/fractional/internal/services/ledger/service"
)

// EventListInput represents the MCP tool input for journal listing.
type EventListInput struct {
	Filter     string `json:"filter,omitempty" jsonschema:"AIP-160 filter over type, actor_id, entity_type, entity_id, request_id and ts"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"maximum events per page (default 50, max 200)"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
	Descending bool   `json:"descending,omitempty" jsonschema:"list newest events first"`
}

// EventEntry is one journal event.
type EventEntry struct {
	Seq        uint64 `json:"seq"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	ActorID    string `json:"actor_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	RequestID  string `json:"request_id,omitempty"`
	Payload    string `json:"payload"`
	Hash       string `json:"hash"`
	ChainHash  string `json:"chain_hash"`
}

// EventListResult is one page of the journal.
type EventListResult struct {
	Events        []EventEntry `json:"events"`
	NextPageToken string       `json:"next_page_token,omitempty"`
	TotalCount    int          `json:"total_count"`
}

// EventListTool defines the MCP tool schema for listing journal events.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_list",
		Description: "Lists journal events with optional AIP-160 filtering and pagination",
	}
}

// EventListHandler lists journal events.
func EventListHandler(ledger Ledger) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		page, err := ledger.ListEvents(ctx, service.ListEventsRequest{
			Filter:     input.Filter,
			PageSize:   input.PageSize,
			PageToken:  input.PageToken,
			Descending: input.Descending,
		})
		if err != nil {
			return nil, EventListResult{}, toolError(ctx, "event list", err)
		}
		result := EventListResult{
			Events:        make([]EventEntry, 0, len(page.Events)),
			NextPageToken: page.NextPageToken,
			TotalCount:    page.TotalCount,
		}
		for _, evt := range page.Events {
			result.Events = append(result.Events, EventEntry{
				Seq:        evt.Seq,
				Type:       string(evt.Type),
				Timestamp:  evt.Timestamp.UTC().Format(time.RFC3339Nano),
				ActorID:    evt.ActorID,
				EntityType: evt.EntityType,
				EntityID:   evt.EntityID,
				RequestID:  evt.RequestID,
				Payload:    string(evt.PayloadJSON),
				Hash:       evt.Hash,
				ChainHash:  evt.ChainHash,
			})
		}
		return nil, result, nil
	}
}
