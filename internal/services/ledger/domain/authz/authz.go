package authz

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
)

// Role names a privilege an account may hold.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleMinter        Role = "minter"
	RoleBurner        Role = "burner"
	RoleStatusManager Role = "status_manager"
	RoleURISetter     Role = "uri_setter"
	RoleKYCManager    Role = "kyc_manager"
	RolePauser        Role = "pauser"
)

var knownRoles = map[Role]struct{}{
	RoleAdmin:         {},
	RoleMinter:        {},
	RoleBurner:        {},
	RoleStatusManager: {},
	RoleURISetter:     {},
	RoleKYCManager:    {},
	RolePauser:        {},
}

// ParseRole canonicalizes a role label.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	_, ok := knownRoles[role]
	return role, ok
}

// ErrUnauthorized is returned when a caller fails a Requirement.
var ErrUnauthorized = apperrors.New(apperrors.CodeLedgerUnauthorized, "caller is not authorized")

// Authorizer is the external access-control collaborator.
type Authorizer interface {
	HasRole(ctx context.Context, role Role, account string) (bool, error)
	IsApprovedForAll(ctx context.Context, owner, operator string) (bool, error)
}

// Requirement describes who may run a command. A caller passes when it holds
// Role, or when it is Owner, or when Owner approved it for all. A zero
// Requirement admits any caller.
type Requirement struct {
	Role  Role
	Owner string
}

// RequireRole is a Requirement satisfied only by role membership.
func RequireRole(role Role) Requirement {
	return Requirement{Role: role}
}

// RequireOwner is satisfied by the owner or an operator it approved.
func RequireOwner(owner string) Requirement {
	return Requirement{Owner: owner}
}

// Check evaluates req for caller and returns ErrUnauthorized with the
// offending identifiers when it does not pass.
func Check(ctx context.Context, authorizer Authorizer, req Requirement, caller string) error {
	if req.Role == "" && req.Owner == "" {
		return nil
	}
	if authorizer == nil {
		return fmt.Errorf("authorizer is required")
	}
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return deny(req, caller)
	}
	if req.Role != "" {
		ok, err := authorizer.HasRole(ctx, req.Role, caller)
		if err != nil {
			return fmt.Errorf("check role %s: %w", req.Role, err)
		}
		if ok {
			return nil
		}
	}
	if req.Owner != "" {
		if caller == req.Owner {
			return nil
		}
		ok, err := authorizer.IsApprovedForAll(ctx, req.Owner, caller)
		if err != nil {
			return fmt.Errorf("check approval: %w", err)
		}
		if ok {
			return nil
		}
	}
	return deny(req, caller)
}

func deny(req Requirement, caller string) error {
	metadata := map[string]string{"Caller": caller}
	if req.Role != "" {
		metadata["Role"] = string(req.Role)
	}
	if req.Owner != "" {
		metadata["Owner"] = req.Owner
	}
	return apperrors.WithMetadata(ErrUnauthorized.Code, ErrUnauthorized.Message, metadata)
}
