package i18n

var ptBRMessages = map[Code]string{
	CodeAssetInvalidCap:          "o limite de cotas deve ser maior que zero",
	CodeAssetAmountExceedsCap:    "a quantidade inicial {{.Amount}} excede o limite de {{.MaxShares}}",
	CodeAssetInvalidMetadataURI:  "a URI de metadados não pode ser vazia",
	CodeAssetBatchLengthMismatch: "os ids e as quantidades do lote devem ter o mesmo tamanho",
	CodeAssetBatchEmpty:          "o lote deve conter pelo menos um item",
	CodeAssetInvalidAccount:      "a conta {{.Field}} não pode ser vazia",
	CodeAssetInvalidStatus:       "{{.Status}} não é um status reconhecido",
	CodeAssetInvalidAmount:       "a quantidade {{.Amount}} não é válida",
	CodeAssetNotFound:            "o ativo {{.TokenID}} não existe",
	CodeAssetFraudulent:          "o ativo {{.TokenID}} está congelado como fraudulento",
	CodeAssetInvalidTransition:   "o ativo {{.TokenID}} não pode passar de {{.From}} para {{.To}}",
	CodeAssetTransferNotAllowed:  "o ativo {{.TokenID}} está {{.Status}} e só pode ser transferido após certificado",
	CodeAssetCapExceeded:         "a emissão excederia o limite do ativo {{.TokenID}}",
	CodeAssetInsufficientBalance: "saldo insuficiente do ativo {{.TokenID}}",
	CodeAssetShareOverflow:       "estouro aritmético de cotas no ativo {{.TokenID}}",
	CodeLedgerUnauthorized:       "você não tem permissão para esta operação",
	CodeLedgerPaused:             "o livro-razão está pausado",
	CodeNotFound:                 "recurso não encontrado",
	CodeInvalidArgument:          "{{.Field}} é inválido",
	CodeUnknown:                  "ocorreu um erro inesperado",
}
