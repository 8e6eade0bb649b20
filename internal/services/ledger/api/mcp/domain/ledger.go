package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/platform/requestctx"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
	"github.com/louisbranch/fractional/internal/services/ledger/service"
)

// Ledger is the facade surface the MCP tools call.
type Ledger interface {
	CreateAsset(ctx context.Context, caller, to string, amount *uint256.Int, uri string, maxShares *uint256.Int) (uint64, error)
	MintAdditional(ctx context.Context, caller string, tokenID uint64, to string, amount *uint256.Int) error
	Burn(ctx context.Context, caller, account string, tokenID uint64, amount *uint256.Int) error
	BurnBatch(ctx context.Context, caller, account string, tokenIDs []uint64, amounts []*uint256.Int) error
	Transfer(ctx context.Context, caller, from, to string, tokenID uint64, amount *uint256.Int) error
	TransferBatch(ctx context.Context, caller, from, to string, tokenIDs []uint64, amounts []*uint256.Int) error
	UpdateStatus(ctx context.Context, caller string, tokenID uint64, status asset.Status) error
	SetURI(ctx context.Context, caller string, tokenID uint64, uri string) error
	SetKYC(ctx context.Context, caller, account string, verified bool) error
	SetApprovalForAll(ctx context.Context, caller, operator string, approved bool) error
	Pause(ctx context.Context, caller string) error
	Unpause(ctx context.Context, caller string) error
	GrantRole(ctx context.Context, caller string, role authz.Role, account string) error
	RevokeRole(ctx context.Context, caller string, role authz.Role, account string) error

	Asset(ctx context.Context, tokenID uint64) (service.AssetView, error)
	BalanceOf(tokenID uint64, account string) uint256.Int
	Holders(tokenID uint64) ([]service.Holding, error)
	IsKYCVerified(account string) bool
	Paused() bool
	ListEvents(ctx context.Context, req service.ListEventsRequest) (service.EventPage, error)
}

// callerFrom returns the authenticated actor bound to the request.
func callerFrom(ctx context.Context) string {
	return requestctx.ActorIDFromContext(ctx)
}

// toolError prefixes a failure with its action and stable error code so
// clients can branch on the code without parsing prose. When the request
// carries a locale, coded errors render from the message catalog.
func toolError(ctx context.Context, action string, err error) error {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnknown {
		return fmt.Errorf("%s failed: %w", action, err)
	}
	if locale := requestctx.LocaleFromContext(ctx); locale != "" {
		var coded *apperrors.Error
		if errors.As(err, &coded) {
			return &localizedError{
				text:  fmt.Sprintf("%s failed [%s]: %s", action, code, coded.LocalizedMessage(locale)),
				cause: err,
			}
		}
	}
	return fmt.Errorf("%s failed [%s]: %w", action, code, err)
}

type localizedError struct {
	text  string
	cause error
}

func (e *localizedError) Error() string { return e.text }

func (e *localizedError) Unwrap() error { return e.cause }

// parseAmount reads a decimal share count.
func parseAmount(field, value string) (*uint256.Int, error) {
	trimmed := strings.TrimSpace(value)
	invalid := apperrors.WithMetadata(asset.ErrInvalidAmount.Code, asset.ErrInvalidAmount.Message, map[string]string{
		"Field":  field,
		"Amount": value,
	})
	if trimmed == "" || strings.HasPrefix(trimmed, "+") || strings.HasPrefix(trimmed, "-") {
		return nil, invalid
	}
	amount, err := uint256.FromDecimal(trimmed)
	if err != nil {
		return nil, invalid
	}
	return amount, nil
}

func parseAmounts(field string, values []string) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(values))
	for i, value := range values {
		amount, err := parseAmount(field, value)
		if err != nil {
			return nil, err
		}
		out[i] = amount
	}
	return out, nil
}
