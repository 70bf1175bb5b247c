package dto

import (
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	"github.com/kigalisoft/salon_manager_app/internal/utils"
)

// TopUpRequest is the payload for crediting a wallet.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes,omitempty"`
}

// WalletBalanceResponse defines the data returned for a wallet balance read.
type WalletBalanceResponse struct {
	OwnerID        string          `json:"ownerID"`
	OwnerType      string          `json:"ownerType"`
	Balance        decimal.Decimal `json:"balance"`
	CurrencyCode   string          `json:"currencyCode"`
	BalanceDisplay string          `json:"balanceDisplay"`
}

// ToWalletBalanceResponse converts a domain.Wallet to a balance DTO.
func ToWalletBalanceResponse(w *domain.Wallet) WalletBalanceResponse {
	return WalletBalanceResponse{
		OwnerID:        w.OwnerID,
		OwnerType:      string(w.OwnerType),
		Balance:        w.Balance,
		CurrencyCode:   w.CurrencyCode,
		BalanceDisplay: utils.FormatAmount(w.Balance, w.CurrencyCode),
	}
}
