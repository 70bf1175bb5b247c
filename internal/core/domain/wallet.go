package domain

import "github.com/shopspring/decimal"

// WalletOwnerType identifies whether a wallet belongs to an employee or a salon.
type WalletOwnerType string

const (
	OwnerEmployee WalletOwnerType = "EMPLOYEE"
	OwnerSalon    WalletOwnerType = "SALON"
)

// Wallet holds a prepaid balance used as a commission payout source.
// Invariant: Balance >= 0 at all times; a debit that would go negative
// fails without mutating state.
type Wallet struct {
	WalletID     string          `json:"walletID"` // Primary Key (e.g., UUID)
	OwnerID      string          `json:"ownerID"`  // Employee or salon ID
	OwnerType    WalletOwnerType `json:"ownerType"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}
