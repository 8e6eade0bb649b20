package asset

// EntityTypeAsset addresses events about a single token id.
const EntityTypeAsset = "asset"

// EntityTypeAccount addresses events about an account.
const EntityTypeAccount = "account"

// CreatePayload is the asset.create command body. Share amounts are decimal
// strings so they survive JSON without precision loss.
type CreatePayload struct {
	To          string `json:"to"`
	Amount      string `json:"amount"`
	MaxShares   string `json:"max_shares"`
	MetadataURI string `json:"metadata_uri"`
}

// MintPayload is the asset.mint command body.
type MintPayload struct {
	TokenID uint64 `json:"token_id"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

// BurnPayload is the asset.burn command body.
type BurnPayload struct {
	Account string `json:"account"`
	TokenID uint64 `json:"token_id"`
	Amount  string `json:"amount"`
}

// BurnBatchPayload is the asset.burn_batch command body.
type BurnBatchPayload struct {
	Account  string   `json:"account"`
	TokenIDs []uint64 `json:"token_ids"`
	Amounts  []string `json:"amounts"`
}

// TransferPayload is the asset.transfer command body.
type TransferPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	TokenID uint64 `json:"token_id"`
	Amount  string `json:"amount"`
}

// TransferBatchPayload is the asset.transfer_batch command body.
type TransferBatchPayload struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	TokenIDs []uint64 `json:"token_ids"`
	Amounts  []string `json:"amounts"`
}

// UpdateStatusPayload is the asset.update_status command body.
type UpdateStatusPayload struct {
	TokenID uint64 `json:"token_id"`
	Status  string `json:"status"`
}

// SetKYCPayload is the account.set_kyc command body.
type SetKYCPayload struct {
	Account  string `json:"account"`
	Verified bool   `json:"verified"`
}

// MintedPayload records asset creation.
type MintedPayload struct {
	TokenID     uint64 `json:"token_id"`
	To          string `json:"to"`
	Amount      string `json:"amount"`
	MaxShares   string `json:"max_shares"`
	MetadataURI string `json:"metadata_uri"`
}

// SharesIssuedPayload records shares minted into an existing asset.
type SharesIssuedPayload struct {
	TokenID uint64 `json:"token_id"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

// SharesBurnedPayload records shares destroyed from an account.
type SharesBurnedPayload struct {
	TokenID uint64 `json:"token_id"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// TransferredPayload records shares moved between accounts.
type TransferredPayload struct {
	TokenID uint64 `json:"token_id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

// StatusUpdatedPayload records a lifecycle transition.
type StatusUpdatedPayload struct {
	TokenID uint64 `json:"token_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

// KYCUpdatedPayload records an account's verification flag.
type KYCUpdatedPayload struct {
	Account  string `json:"account"`
	Verified bool   `json:"verified"`
}
