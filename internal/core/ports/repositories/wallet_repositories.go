package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
)

// WalletReader defines read operations for wallet data.
type WalletReader interface {
	// FindWalletByOwner retrieves the wallet belonging to an owner
	// (employee or salon), or apperrors.ErrNotFound.
	FindWalletByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error)
}

// WalletWriter defines balance mutations. Both are linearizable per owner:
// concurrent calls on the same wallet never lose updates.
type WalletWriter interface {
	// CreditWallet adds amount to the owner's balance and returns the new
	// balance.
	CreditWallet(ctx context.Context, ownerID string, amount decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)

	// DebitWallet subtracts amount from the owner's balance via a
	// conditional update that never lets the balance go negative. An
	// uncovered debit fails with apperrors.InsufficientBalanceError and
	// leaves the balance untouched. It returns the new balance.
	DebitWallet(ctx context.Context, ownerID string, amount decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error)
}

// WalletRepositoryFacade combines all wallet repository interfaces.
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
