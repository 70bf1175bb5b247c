package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	"github.com/kigalisoft/salon_manager_app/internal/models"
	"github.com/kigalisoft/salon_manager_app/internal/utils/mapping"
)

type PgxWalletRepository struct {
	pool *pgxpool.Pool
}

// newPgxWalletRepository creates a new repository for wallet data.
func newPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{pool: pool}
}

// Ensure PgxWalletRepository implements portsrepo.WalletRepositoryFacade
var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

// FindWalletByOwner retrieves the wallet belonging to an owner.
func (r *PgxWalletRepository) FindWalletByOwner(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, owner_id, owner_type, balance, currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM wallets
		WHERE owner_id = $1;
	`
	var m models.Wallet
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&m.WalletID,
		&m.OwnerID,
		&m.OwnerType,
		&m.Balance,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wallet for owner %s: %w", ownerID, err)
	}

	wallet := mapping.ToDomainWallet(m)
	return &wallet, nil
}

// CreditWallet adds amount to the owner's balance and returns the new balance.
func (r *PgxWalletRepository) CreditWallet(ctx context.Context, ownerID string, amount decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE owner_id = $1
		RETURNING balance;
	`
	var newBalance decimal.Decimal
	err := r.pool.QueryRow(ctx, query, ownerID, amount, now, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to credit wallet for owner %s: %w", ownerID, err)
	}
	return newBalance, nil
}

// DebitWallet subtracts amount via a conditional update: the WHERE clause
// only matches when the balance covers the debit, so two racing debits can
// never jointly overdraw the wallet regardless of interleaving.
func (r *PgxWalletRepository) DebitWallet(ctx context.Context, ownerID string, amount decimal.Decimal, userID string, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $2, last_updated_at = $3, last_updated_by = $4
		WHERE owner_id = $1 AND balance >= $2
		RETURNING balance;
	`
	var newBalance decimal.Decimal
	err := r.pool.QueryRow(ctx, query, ownerID, amount, now, userID).Scan(&newBalance)
	if err == nil {
		return newBalance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("failed to debit wallet for owner %s: %w", ownerID, err)
	}

	// No row matched: either the wallet is missing or the balance fell short.
	wallet, findErr := r.FindWalletByOwner(ctx, ownerID)
	if findErr != nil {
		return decimal.Zero, findErr
	}
	return decimal.Zero, apperrors.NewInsufficientBalanceError(ownerID, wallet.Balance, amount)
}
