package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeAssetInvalidCap          = "ASSET_INVALID_CAP"
	CodeAssetAmountExceedsCap    = "ASSET_AMOUNT_EXCEEDS_CAP"
	CodeAssetInvalidMetadataURI  = "ASSET_INVALID_METADATA_URI"
	CodeAssetBatchLengthMismatch = "ASSET_BATCH_LENGTH_MISMATCH"
	CodeAssetBatchEmpty          = "ASSET_BATCH_EMPTY"
	CodeAssetInvalidAccount      = "ASSET_INVALID_ACCOUNT"
	CodeAssetInvalidStatus       = "ASSET_INVALID_STATUS"
	CodeAssetInvalidAmount       = "ASSET_INVALID_AMOUNT"
	CodeAssetNotFound            = "ASSET_NOT_FOUND"
	CodeAssetFraudulent          = "ASSET_FRAUDULENT"
	CodeAssetInvalidTransition   = "ASSET_INVALID_STATUS_TRANSITION"
	CodeAssetTransferNotAllowed  = "ASSET_TRANSFER_NOT_ALLOWED"
	CodeAssetCapExceeded         = "ASSET_CAP_EXCEEDED"
	CodeAssetInsufficientBalance = "ASSET_INSUFFICIENT_BALANCE"
	CodeAssetShareOverflow       = "ASSET_SHARE_OVERFLOW"
	CodeLedgerUnauthorized       = "LEDGER_UNAUTHORIZED"
	CodeLedgerPaused             = "LEDGER_PAUSED"
	CodeNotFound                 = "NOT_FOUND"
	CodeInvalidArgument          = "INVALID_ARGUMENT"
	CodeUnknown                  = "UNKNOWN"
)

var enUSMessages = map[Code]string{
	CodeAssetInvalidCap:          "maximum shares must be greater than zero",
	CodeAssetAmountExceedsCap:    "initial amount {{.Amount}} exceeds the cap of {{.MaxShares}}",
	CodeAssetInvalidMetadataURI:  "metadata URI must not be empty",
	CodeAssetBatchLengthMismatch: "batch ids and amounts must have the same length",
	CodeAssetBatchEmpty:          "batch must contain at least one entry",
	CodeAssetInvalidAccount:      "account {{.Field}} must not be empty",
	CodeAssetInvalidStatus:       "{{.Status}} is not a recognized status",
	CodeAssetInvalidAmount:       "amount {{.Amount}} is not a valid share count",
	CodeAssetNotFound:            "asset {{.TokenID}} does not exist",
	CodeAssetFraudulent:          "asset {{.TokenID}} is frozen as fraudulent",
	CodeAssetInvalidTransition:   "asset {{.TokenID}} cannot move from {{.From}} to {{.To}}",
	CodeAssetTransferNotAllowed:  "asset {{.TokenID}} is {{.Status}} and cannot be transferred until certified",
	CodeAssetCapExceeded:         "minting would exceed the cap of asset {{.TokenID}}",
	CodeAssetInsufficientBalance: "insufficient balance of asset {{.TokenID}}",
	CodeAssetShareOverflow:       "share arithmetic overflowed for asset {{.TokenID}}",
	CodeLedgerUnauthorized:       "you are not allowed to perform this operation",
	CodeLedgerPaused:             "the ledger is paused",
	CodeNotFound:                 "resource not found",
	CodeInvalidArgument:          "{{.Field}} is invalid",
	CodeUnknown:                  "an unexpected error occurred",
}
