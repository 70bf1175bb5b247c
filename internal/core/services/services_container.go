package services

import (
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Inventory = NewInventoryService(repos.MovementRepo, repos.ProductRepo, cfg.StockAllowNegative, cfg.LowStockThreshold)
	container.Wallet = NewWalletService(repos.WalletRepo)
	container.Commission = NewCommissionService(repos.CommissionRepo, cfg.DefaultCurrency)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.InventorySvcFacade  = (*inventoryService)(nil)
	_ portssvc.CommissionSvcFacade = (*commissionService)(nil)
	_ portssvc.WalletSvcFacade     = (*walletService)(nil)
)
