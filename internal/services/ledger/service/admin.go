package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/asset"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
)

// SetURI replaces the metadata URI of an existing asset. It is not gated by
// the pause switch.
func (l *Ledger) SetURI(ctx context.Context, caller string, tokenID uint64, uri string) error {
	if err := l.check(ctx, authz.RequireRole(authz.RoleURISetter), caller); err != nil {
		return err
	}
	if !l.Exists(tokenID) {
		return notFound(tokenID)
	}
	if strings.TrimSpace(uri) == "" {
		return apperrors.WithMetadata(asset.ErrInvalidMetadataURI.Code, asset.ErrInvalidMetadataURI.Message, map[string]string{
			"TokenID": strconv.FormatUint(tokenID, 10),
		})
	}
	if err := l.metadata.PutURI(ctx, tokenID, uri); err != nil {
		return err
	}
	l.logger.Info("metadata uri updated", zap.Uint64("token_id", tokenID), zap.String("caller", caller))
	return nil
}

// SetApprovalForAll lets operator move and burn every share the caller holds,
// or revokes that right.
func (l *Ledger) SetApprovalForAll(ctx context.Context, caller, operator string, approved bool) error {
	caller = strings.TrimSpace(caller)
	operator = strings.TrimSpace(operator)
	if caller == "" {
		return apperrors.WithMetadata(authz.ErrUnauthorized.Code, authz.ErrUnauthorized.Message, map[string]string{"Caller": caller})
	}
	if operator == "" {
		return apperrors.WithMetadata(asset.ErrInvalidAccount.Code, asset.ErrInvalidAccount.Message, map[string]string{"Field": "operator"})
	}
	if operator == caller {
		return invalidArgument("operator", "cannot approve yourself as operator")
	}
	l.access.SetApprovalForAll(caller, operator, approved)
	l.logger.Info("operator approval updated",
		zap.String("owner", caller),
		zap.String("operator", operator),
		zap.Bool("approved", approved),
	)
	return nil
}

// Pause turns on the ledger-wide gate for share and lifecycle mutations.
func (l *Ledger) Pause(ctx context.Context, caller string) error {
	return l.setPaused(ctx, caller, true)
}

// Unpause turns the gate off.
func (l *Ledger) Unpause(ctx context.Context, caller string) error {
	return l.setPaused(ctx, caller, false)
}

func (l *Ledger) setPaused(ctx context.Context, caller string, paused bool) error {
	if err := l.check(ctx, authz.RequireRole(authz.RolePauser), caller); err != nil {
		return err
	}
	if l.pause.SetPaused(paused) {
		l.logger.Warn("ledger pause switch changed", zap.Bool("paused", paused), zap.String("caller", caller))
	}
	return nil
}

// GrantRole gives account a role. Only admins may call it.
func (l *Ledger) GrantRole(ctx context.Context, caller string, role authz.Role, account string) error {
	role, account, err := l.roleChange(ctx, caller, role, account)
	if err != nil {
		return err
	}
	l.access.Grant(role, account)
	l.logger.Info("role granted", zap.String("role", string(role)), zap.String("account", account), zap.String("caller", caller))
	return nil
}

// RevokeRole removes a role from account. Only admins may call it.
func (l *Ledger) RevokeRole(ctx context.Context, caller string, role authz.Role, account string) error {
	role, account, err := l.roleChange(ctx, caller, role, account)
	if err != nil {
		return err
	}
	l.access.Revoke(role, account)
	l.logger.Info("role revoked", zap.String("role", string(role)), zap.String("account", account), zap.String("caller", caller))
	return nil
}

func (l *Ledger) roleChange(ctx context.Context, caller string, role authz.Role, account string) (authz.Role, string, error) {
	if err := l.check(ctx, authz.RequireRole(authz.RoleAdmin), caller); err != nil {
		return "", "", err
	}
	parsed, ok := authz.ParseRole(string(role))
	if !ok {
		return "", "", invalidArgument("role", "unknown role "+string(role))
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return "", "", apperrors.WithMetadata(asset.ErrInvalidAccount.Code, asset.ErrInvalidAccount.Message, map[string]string{"Field": "account"})
	}
	return parsed, account, nil
}

func notFound(tokenID uint64) error {
	return apperrors.WithMetadata(asset.ErrAssetNotFound.Code, asset.ErrAssetNotFound.Message, map[string]string{
		"TokenID": strconv.FormatUint(tokenID, 10),
	})
}

func invalidArgument(field, message string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, message, map[string]string{"Field": field})
}
