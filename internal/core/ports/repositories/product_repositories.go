package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
)

// ProductReader defines read operations for product data.
// Product CRUD is owned by an external service; this core only reads.
type ProductReader interface {
	// FindProductByID retrieves a product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListLowStockProducts retrieves active inventory-tracked products whose
	// cached level is at or below the threshold (and above zero would be a
	// caller-side filter; out-of-stock rows are included).
	ListLowStockProducts(ctx context.Context, salonID string, threshold decimal.Decimal) ([]domain.Product, error)
}

// ProductRepositoryFacade combines all product-related repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
}
