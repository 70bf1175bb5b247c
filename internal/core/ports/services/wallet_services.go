package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
)

// WalletReaderSvc defines read operations for wallet balances.
type WalletReaderSvc interface {
	// GetBalance retrieves the wallet for an owner. The value may be
	// momentarily stale relative to concurrent debits but is never
	// negative.
	GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error)
}

// WalletWriterSvc defines balance mutations.
type WalletWriterSvc interface {
	// TopUp credits the owner's wallet and returns the new balance.
	TopUp(ctx context.Context, ownerID string, req dto.TopUpRequest, userID string) (decimal.Decimal, error)

	// Debit subtracts from the owner's wallet, failing without mutation
	// when the balance cannot cover the amount.
	Debit(ctx context.Context, ownerID string, amount decimal.Decimal, userID string) (decimal.Decimal, error)
}

// WalletSvcFacade combines all wallet-related service interfaces.
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
