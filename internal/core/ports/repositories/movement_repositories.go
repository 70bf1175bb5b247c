package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
)

// MovementReader defines read operations for the stock ledger.
type MovementReader interface {
	// FindMovementsByProduct retrieves a page of a product's movements
	// ordered by created_at ascending, using token-based pagination.
	// It returns the movements, a token for the next page, and an error.
	FindMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
}

// MovementWriter defines write operations for the stock ledger.
type MovementWriter interface {
	// AppendMovement appends one immutable movement and maintains the
	// product's cached stock level inside a single transaction that locks
	// the product row, guaranteeing per-product read-after-write.
	// When allowNegative is false and the product is inventory-tracked, an
	// append that would drive the level below zero fails with
	// apperrors.ErrInsufficientStock and nothing is written.
	// It returns the movement with LevelAfter populated.
	AppendMovement(ctx context.Context, movement domain.StockMovement, allowNegative bool) (*domain.StockMovement, error)

	// RebuildStockLevel refolds the product's full movement history and
	// repairs the cached stock level column, returning the rebuilt level.
	RebuildStockLevel(ctx context.Context, productID string, userID string, now time.Time) (decimal.Decimal, error)
}

// MovementRepositoryFacade combines all ledger repository interfaces.
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
}
