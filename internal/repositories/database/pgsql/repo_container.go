package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(dbPool)
	movementRepo := newPgxMovementRepository(dbPool)
	commissionRepo := newPgxCommissionRepository(dbPool)
	walletRepo := newPgxWalletRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ProductRepo:    productRepo,
		MovementRepo:   movementRepo,
		CommissionRepo: commissionRepo,
		WalletRepo:     walletRepo,
	}
}
