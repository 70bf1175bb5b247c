package services

import (
	"context"

	"github.com/kigalisoft/salon_manager_app/internal/dto"
)

// StockReaderSvc defines read operations over the stock projection.
type StockReaderSvc interface {
	// GetStockLevel computes the current stock state for a product.
	GetStockLevel(ctx context.Context, productID string) (*dto.StockLevelResponse, error)

	// ListMovements retrieves a page of a product's movement history,
	// oldest first.
	ListMovements(ctx context.Context, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// ListLowStockProducts retrieves tracked products at or below the
	// low-stock threshold for a salon.
	ListLowStockProducts(ctx context.Context, salonID string) ([]dto.ProductStockResponse, error)
}

// StockWriterSvc defines write operations on the stock ledger.
type StockWriterSvc interface {
	// AppendMovement validates and appends one stock movement, returning
	// the stored movement with the resulting level.
	AppendMovement(ctx context.Context, productID string, req dto.CreateMovementRequest, userID string) (*dto.MovementResponse, error)

	// RebuildStockLevel refolds the ledger from scratch and repairs the
	// cached level, returning the rebuilt stock state.
	RebuildStockLevel(ctx context.Context, productID string, userID string) (*dto.StockLevelResponse, error)
}

// InventorySvcFacade combines all inventory-related service interfaces.
type InventorySvcFacade interface {
	StockReaderSvc
	StockWriterSvc
}
