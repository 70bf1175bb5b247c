package models

import "github.com/shopspring/decimal"

// Wallet mirrors the wallets table. The balance column is only mutated by
// conditional updates that keep it non-negative.
type Wallet struct {
	WalletID     string          `json:"walletID"`
	OwnerID      string          `json:"ownerID"`
	OwnerType    string          `json:"ownerType"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}
