package extraction

// Invoice is the structured extraction result. Every leaf is nullable:
// the model omits or nulls fields it cannot find in the source document.
type Invoice struct {
	Seller  Seller    `json:"seller"`
	Invoice Meta      `json:"invoice"`
	Taxes   []TaxLine `json:"taxes"`
	Amounts Amounts   `json:"amounts"`
}

type Seller struct {
	CompanyName *string `json:"company_name"`
	GSTIN       *string `json:"gstin"`
	Address     *string `json:"address"`
}

type Meta struct {
	Number        *string `json:"number"`
	Date          *string `json:"date"`
	TransactionID *string `json:"transaction_id"`
}

type TaxLine struct {
	Type        *string  `json:"type"`
	RatePercent *float64 `json:"rate_percent"`
	Amount      *float64 `json:"amount"`
}

type Amounts struct {
	TaxableAmount *float64 `json:"taxable_amount"`
	TotalAmount   *float64 `json:"total_amount"`
}

// InvoiceSchema is the JSON schema the upstream response must satisfy.
// It is sent to the model as the extraction contract and used to validate
// what comes back before the payload is returned to the caller.
func InvoiceSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	nullableNumber := map[string]any{"type": []string{"number", "null"}}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"seller", "invoice", "taxes", "amounts"},
		"properties": map[string]any{
			"seller": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"company_name", "gstin", "address"},
				"properties": map[string]any{
					"company_name": nullableString,
					"gstin":        nullableString,
					"address":      nullableString,
				},
			},
			"invoice": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"number", "date", "transaction_id"},
				"properties": map[string]any{
					"number":         nullableString,
					"date":           nullableString,
					"transaction_id": nullableString,
				},
			},
			"taxes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"type", "rate_percent", "amount"},
					"properties": map[string]any{
						"type":         nullableString,
						"rate_percent": nullableNumber,
						"amount":       nullableNumber,
					},
				},
			},
			"amounts": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"taxable_amount", "total_amount"},
				"properties": map[string]any{
					"taxable_amount": nullableNumber,
					"total_amount":   nullableNumber,
				},
			},
		},
	}
}
