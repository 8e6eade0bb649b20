package asset

import (
	"strconv"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/fractional/internal/platform/errors"
	"github.com/louisbranch/fractional/internal/services/ledger/domain/command"
)

var (
	// ErrInvalidCap indicates a zero share cap at creation.
	ErrInvalidCap = apperrors.New(apperrors.CodeAssetInvalidCap, "maximum shares must be greater than zero")
	// ErrAmountExceedsCap indicates an initial amount above the cap.
	ErrAmountExceedsCap = apperrors.New(apperrors.CodeAssetAmountExceedsCap, "initial amount exceeds the share cap")
	// ErrInvalidMetadataURI indicates an empty metadata URI.
	ErrInvalidMetadataURI = apperrors.New(apperrors.CodeAssetInvalidMetadataURI, "metadata uri is required")
	// ErrBatchLengthMismatch indicates batch ids and amounts differ in length.
	ErrBatchLengthMismatch = apperrors.New(apperrors.CodeAssetBatchLengthMismatch, "token ids and amounts length mismatch")
	// ErrBatchEmpty indicates a batch without entries.
	ErrBatchEmpty = apperrors.New(apperrors.CodeAssetBatchEmpty, "batch is empty")
	// ErrInvalidAccount indicates a missing account.
	ErrInvalidAccount = apperrors.New(apperrors.CodeAssetInvalidAccount, "account is required")
	// ErrInvalidStatus indicates an unknown status label.
	ErrInvalidStatus = apperrors.New(apperrors.CodeAssetInvalidStatus, "status is not recognized")
	// ErrInvalidAmount indicates a share amount that is not an unsigned decimal.
	ErrInvalidAmount = apperrors.New(apperrors.CodeAssetInvalidAmount, "amount must be an unsigned decimal integer")
	// ErrAssetNotFound indicates an unknown token id.
	ErrAssetNotFound = apperrors.New(apperrors.CodeAssetNotFound, "asset not found")
	// ErrFraudulentAsset indicates the asset is frozen.
	ErrFraudulentAsset = apperrors.New(apperrors.CodeAssetFraudulent, "asset is fraudulent")
	// ErrInvalidTransition indicates a status change outside the lifecycle graph.
	ErrInvalidTransition = apperrors.New(apperrors.CodeAssetInvalidTransition, "status transition is not allowed")
	// ErrTransferNotAllowed indicates a transfer while the asset is not certified.
	ErrTransferNotAllowed = apperrors.New(apperrors.CodeAssetTransferNotAllowed, "transfers require a certified asset")
	// ErrCapExceeded indicates minting past the share cap.
	ErrCapExceeded = apperrors.New(apperrors.CodeAssetCapExceeded, "share cap exceeded")
	// ErrInsufficientBalance indicates a debit larger than the balance.
	ErrInsufficientBalance = apperrors.New(apperrors.CodeAssetInsufficientBalance, "insufficient balance")
	// ErrShareOverflow indicates 256-bit share arithmetic overflowed.
	ErrShareOverflow = apperrors.New(apperrors.CodeAssetShareOverflow, "share arithmetic overflow")
	// ErrTokenIDReused indicates a creation event for an already assigned id.
	ErrTokenIDReused = apperrors.New(apperrors.CodeEventInvalid, "token id already assigned")
	// ErrPayloadMalformed indicates a command payload that does not decode.
	ErrPayloadMalformed = apperrors.New(apperrors.CodeCommandInvalid, "command payload is malformed")
	// ErrCommandUnsupported indicates a command type this decider does not handle.
	ErrCommandUnsupported = apperrors.New(apperrors.CodeCommandInvalid, "command type is not supported")
)

// failure is a rejection under construction: a sentinel plus the identifiers
// a caller needs to diagnose it.
type failure struct {
	base     *apperrors.Error
	metadata map[string]string
}

func fail(base *apperrors.Error, kv ...string) *failure {
	metadata := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		metadata[kv[i]] = kv[i+1]
	}
	return &failure{base: base, metadata: metadata}
}

func (f *failure) decision() command.Decision {
	return command.Reject(command.Rejection{
		Code:     string(f.base.Code),
		Message:  f.base.Message,
		Metadata: f.metadata,
	})
}

// Error lets fold helpers return failures as plain errors.
func (f *failure) Error() string {
	return apperrors.WithMetadata(f.base.Code, f.base.Message, f.metadata).Error()
}

func (f *failure) Unwrap() error {
	return apperrors.WithMetadata(f.base.Code, f.base.Message, f.metadata)
}

func tokenLabel(tokenID uint64) string {
	return strconv.FormatUint(tokenID, 10)
}

func dec(v uint256.Int) string {
	return v.Dec()
}
