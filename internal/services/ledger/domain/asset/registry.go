package asset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/authz"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// RegisterCommands adds every ledger command to registry. Payload validators
// only check that the body decodes; business rules belong to Decide.
func RegisterCommands(registry *command.Registry) error {
	defs := []command.Definition{
		{Type: CommandTypeCreate, ValidatePayload: strictPayload[CreatePayload], Pausable: true},
		{Type: CommandTypeMint, ValidatePayload: strictPayload[MintPayload], Pausable: true},
		{Type: CommandTypeBurn, ValidatePayload: strictPayload[BurnPayload], Pausable: true},
		{Type: CommandTypeBurnBatch, ValidatePayload: strictPayload[BurnBatchPayload], Pausable: true},
		{Type: CommandTypeTransfer, ValidatePayload: strictPayload[TransferPayload], Pausable: true},
		{Type: CommandTypeTransferBatch, ValidatePayload: strictPayload[TransferBatchPayload], Pausable: true},
		{Type: CommandTypeUpdateStatus, ValidatePayload: strictPayload[UpdateStatusPayload], Pausable: true},
		{Type: CommandTypeSetKYC, ValidatePayload: strictPayload[SetKYCPayload], Pausable: true},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents adds every ledger event to registry.
func RegisterEvents(registry *event.Registry) error {
	defs := []event.Definition{
		{Type: EventTypeMinted, EntityType: EntityTypeAsset, ValidatePayload: validateMinted},
		{Type: EventTypeSharesIssued, EntityType: EntityTypeAsset, ValidatePayload: validateAmountPayload[SharesIssuedPayload]},
		{Type: EventTypeSharesBurned, EntityType: EntityTypeAsset, ValidatePayload: validateAmountPayload[SharesBurnedPayload]},
		{Type: EventTypeTransferred, EntityType: EntityTypeAsset, ValidatePayload: validateAmountPayload[TransferredPayload]},
		{Type: EventTypeStatusUpdated, EntityType: EntityTypeAsset, ValidatePayload: validateStatusUpdated},
		{Type: EventTypeKYCUpdated, EntityType: EntityTypeAccount, ValidatePayload: strictPayload[KYCUpdatedPayload]},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RequirementFor names who may run cmd. Burns admit the burner role, the
// account owner, or the owner's approved operator; transfers admit only the
// sender or its operator.
func RequirementFor(cmd command.Command) (authz.Requirement, error) {
	switch cmd.Type {
	case CommandTypeCreate, CommandTypeMint:
		return authz.RequireRole(authz.RoleMinter), nil
	case CommandTypeBurn:
		var p BurnPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return authz.Requirement{}, err
		}
		return authz.Requirement{Role: authz.RoleBurner, Owner: p.Account}, nil
	case CommandTypeBurnBatch:
		var p BurnBatchPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return authz.Requirement{}, err
		}
		return authz.Requirement{Role: authz.RoleBurner, Owner: p.Account}, nil
	case CommandTypeTransfer:
		var p TransferPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return authz.Requirement{}, err
		}
		return authz.RequireOwner(p.From), nil
	case CommandTypeTransferBatch:
		var p TransferBatchPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return authz.Requirement{}, err
		}
		return authz.RequireOwner(p.From), nil
	case CommandTypeUpdateStatus:
		return authz.RequireRole(authz.RoleStatusManager), nil
	case CommandTypeSetKYC:
		return authz.RequireRole(authz.RoleKYCManager), nil
	default:
		return authz.Requirement{}, fmt.Errorf("no authorization rule for %s", cmd.Type)
	}
}

func strictPayload[T any](raw json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var target T
	if err := dec.Decode(&target); err != nil {
		return fail(ErrPayloadMalformed, "Reason", err.Error())
	}
	return nil
}

type amountPayload interface {
	SharesIssuedPayload | SharesBurnedPayload | TransferredPayload
}

func validateAmountPayload[T amountPayload](raw json.RawMessage) error {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	var tokenID uint64
	var amount string
	switch p := any(payload).(type) {
	case SharesIssuedPayload:
		tokenID, amount = p.TokenID, p.Amount
	case SharesBurnedPayload:
		tokenID, amount = p.TokenID, p.Amount
	case TransferredPayload:
		tokenID, amount = p.TokenID, p.Amount
	}
	if tokenID == 0 {
		return fmt.Errorf("token_id is required")
	}
	if foldAmount(amount) == nil {
		return fmt.Errorf("amount %q is invalid", amount)
	}
	return nil
}

func validateMinted(raw json.RawMessage) error {
	var p MintedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if p.TokenID == 0 {
		return fmt.Errorf("token_id is required")
	}
	if foldAmount(p.Amount) == nil || foldAmount(p.MaxShares) == nil {
		return fmt.Errorf("share amounts are invalid")
	}
	if p.MetadataURI == "" {
		return fmt.Errorf("metadata_uri is required")
	}
	return nil
}

func validateStatusUpdated(raw json.RawMessage) error {
	var p StatusUpdatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if _, ok := ParseStatus(string(p.From)); !ok {
		return fmt.Errorf("from status %q is invalid", p.From)
	}
	if _, ok := ParseStatus(string(p.To)); !ok {
		return fmt.Errorf("to status %q is invalid", p.To)
	}
	return nil
}
