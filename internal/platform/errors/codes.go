// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Asset input errors
	CodeAssetInvalidCap          Code = "ASSET_INVALID_CAP"
	CodeAssetAmountExceedsCap    Code = "ASSET_AMOUNT_EXCEEDS_CAP"
	CodeAssetInvalidMetadataURI  Code = "ASSET_INVALID_METADATA_URI"
	CodeAssetBatchLengthMismatch Code = "ASSET_BATCH_LENGTH_MISMATCH"
	CodeAssetBatchEmpty          Code = "ASSET_BATCH_EMPTY"
	CodeAssetInvalidAccount      Code = "ASSET_INVALID_ACCOUNT"
	CodeAssetInvalidStatus       Code = "ASSET_INVALID_STATUS"
	CodeAssetInvalidAmount       Code = "ASSET_INVALID_AMOUNT"
	CodeAssetNotFound            Code = "ASSET_NOT_FOUND"
	CodeAssetFraudulent          Code = "ASSET_FRAUDULENT"
	CodeAssetInvalidTransition   Code = "ASSET_INVALID_STATUS_TRANSITION"
	CodeAssetTransferNotAllowed  Code = "ASSET_TRANSFER_NOT_ALLOWED"
	CodeAssetCapExceeded         Code = "ASSET_CAP_EXCEEDED"
	CodeAssetInsufficientBalance Code = "ASSET_INSUFFICIENT_BALANCE"
	CodeAssetShareOverflow       Code = "ASSET_SHARE_OVERFLOW"

	// Ledger gate errors
	CodeLedgerUnauthorized Code = "LEDGER_UNAUTHORIZED"
	CodeLedgerPaused       Code = "LEDGER_PAUSED"

	// Command/event plumbing errors
	CodeCommandInvalid  Code = "COMMAND_INVALID"
	CodeEventInvalid    Code = "EVENT_INVALID"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Storage errors
	CodeNotFound          Code = "NOT_FOUND"
	CodeIntegrityViolated Code = "INTEGRITY_VIOLATED"
)

// Kind groups codes into the failure classes callers branch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindFrozen
	KindInvalidTransition
	KindNotAllowedInState
	KindArithmetic
	KindUnauthorized
	KindPaused
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:           "Unknown",
	KindInvalidInput:      "InvalidInput",
	KindNotFound:          "NotFound",
	KindFrozen:            "Frozen",
	KindInvalidTransition: "InvalidTransition",
	KindNotAllowedInState: "NotAllowedInState",
	KindArithmetic:        "Arithmetic",
	KindUnauthorized:      "Unauthorized",
	KindPaused:            "Paused",
	KindInternal:          "Internal",
}

// String returns the stable name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Kind maps an error code to its failure class.
func (c Code) Kind() Kind {
	switch c {
	case CodeAssetInvalidCap,
		CodeAssetAmountExceedsCap,
		CodeAssetInvalidMetadataURI,
		CodeAssetBatchLengthMismatch,
		CodeAssetBatchEmpty,
		CodeAssetInvalidAccount,
		CodeAssetInvalidStatus,
		CodeAssetInvalidAmount,
		CodeCommandInvalid,
		CodeInvalidArgument:
		return KindInvalidInput
	case CodeAssetNotFound, CodeNotFound:
		return KindNotFound
	case CodeAssetFraudulent:
		return KindFrozen
	case CodeAssetInvalidTransition:
		return KindInvalidTransition
	case CodeAssetTransferNotAllowed:
		return KindNotAllowedInState
	case CodeAssetCapExceeded, CodeAssetInsufficientBalance, CodeAssetShareOverflow:
		return KindArithmetic
	case CodeLedgerUnauthorized:
		return KindUnauthorized
	case CodeLedgerPaused:
		return KindPaused
	case CodeEventInvalid, CodeIntegrityViolated:
		return KindInternal
	default:
		return KindUnknown
	}
}
