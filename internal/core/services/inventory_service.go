package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
	"github.com/kigalisoft/salon_manager_app/internal/middleware"
)

var (
	ErrUnknownMovementType = errors.New("unknown movement type")
	ErrNonPositiveQuantity = errors.New("movement quantity must be positive")
	ErrDirectionRequired   = errors.New("adjustment movements require an explicit direction")
	ErrDirectionConflict   = errors.New("direction contradicts the movement type")
	ErrNotInventoryTracked = errors.New("product is not inventory-tracked")
)

// inventoryService owns the stock ledger and its level projection.
// Movements are immutable once appended; the current level of a product is
// the fold of its movement history, cached on the product row and always
// rebuildable from the ledger.
type inventoryService struct {
	BaseService
	movementRepo portsrepo.MovementRepositoryFacade
	productRepo  portsrepo.ProductRepositoryFacade

	allowNegativeStock bool
	lowStockThreshold  decimal.Decimal
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(movementRepo portsrepo.MovementRepositoryFacade, productRepo portsrepo.ProductRepositoryFacade, allowNegativeStock bool, lowStockThreshold int64) portssvc.InventorySvcFacade {
	return &inventoryService{
		movementRepo:       movementRepo,
		productRepo:        productRepo,
		allowNegativeStock: allowNegativeStock,
		lowStockThreshold:  decimal.NewFromInt(lowStockThreshold),
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// resolveDirection validates the requested direction against the movement
// type's convention: purchase/return are increases, consumption is a
// decrease, and an adjustment must state its direction explicitly.
func resolveDirection(movementType domain.MovementType, requested string) (domain.MovementDirection, error) {
	implied := movementType.ImpliedDirection()
	if requested == "" {
		if implied == "" {
			return "", ErrDirectionRequired
		}
		return implied, nil
	}

	direction := domain.MovementDirection(requested)
	if direction != domain.DirectionIncrease && direction != domain.DirectionDecrease {
		return "", fmt.Errorf("invalid direction %q", requested)
	}
	if implied != "" && direction != implied {
		return "", ErrDirectionConflict
	}
	return direction, nil
}

// AppendMovement validates and appends one stock movement.
// Implements portssvc.StockWriterSvc
func (s *inventoryService) AppendMovement(ctx context.Context, productID string, req dto.CreateMovementRequest, userID string) (*dto.MovementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movementType := domain.MovementType(req.MovementType)
	if !movementType.Valid() {
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrUnknownMovementType, req.MovementType)
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveQuantity)
	}

	direction, err := resolveDirection(movementType, req.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find product for movement append", slog.String("error", err.Error()), slog.String("product_id", productID))
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	if !product.IsInventoryItem {
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrNotInventoryTracked, productID)
	}

	now := time.Now().UTC()
	movement := domain.StockMovement{
		MovementID:   uuid.NewString(),
		ProductID:    productID,
		MovementType: movementType,
		Direction:    direction,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	stored, err := s.movementRepo.AppendMovement(ctx, movement, s.allowNegativeStock)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientStock) {
			logger.Warn("Movement rejected by strict stock policy",
				slog.String("product_id", productID),
				slog.String("quantity", req.Quantity.String()))
			return nil, err
		}
		logger.Error("Failed to append movement", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to append movement: %w", err)
	}

	logger.Info("Stock movement appended",
		slog.String("movement_id", stored.MovementID),
		slog.String("product_id", productID),
		slog.String("movement_type", string(movementType)),
		slog.String("level_after", stored.LevelAfter.String()))

	resp := dto.ToMovementResponse(stored)
	return &resp, nil
}

// stockState assembles the projection flags for one tracked product level.
func (s *inventoryService) stockState(productID string, level decimal.Decimal, tracked bool) *dto.StockLevelResponse {
	if !tracked {
		return &dto.StockLevelResponse{ProductID: productID, Unlimited: true}
	}
	return &dto.StockLevelResponse{
		ProductID:  productID,
		Level:      level,
		LowStock:   level.GreaterThan(decimal.Zero) && level.LessThanOrEqual(s.lowStockThreshold),
		OutOfStock: level.LessThanOrEqual(decimal.Zero),
	}
}

// GetStockLevel computes the current stock state for a product.
// Implements portssvc.StockReaderSvc
func (s *inventoryService) GetStockLevel(ctx context.Context, productID string) (*dto.StockLevelResponse, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return s.stockState(product.ProductID, product.StockLevel, product.IsInventoryItem), nil
}

// RebuildStockLevel refolds the ledger and repairs the cached level.
// Replaying history from scratch must agree with the incrementally
// maintained cache; this is the repair path when it does not.
// Implements portssvc.StockWriterSvc
func (s *inventoryService) RebuildStockLevel(ctx context.Context, productID string, userID string) (*dto.StockLevelResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	if !product.IsInventoryItem {
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrNotInventoryTracked, productID)
	}

	level, err := s.movementRepo.RebuildStockLevel(ctx, productID, userID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to rebuild stock level", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to rebuild stock level: %w", err)
	}

	logger.Info("Stock level rebuilt from ledger",
		slog.String("product_id", productID),
		slog.String("level", level.String()))
	return s.stockState(productID, level, true), nil
}

// ListMovements retrieves a page of a product's movement history.
// Implements portssvc.StockReaderSvc
func (s *inventoryService) ListMovements(ctx context.Context, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	movements, nextToken, err := s.movementRepo.FindMovementsByProduct(ctx, productID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve movements: %w", err)
	}

	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}

// ListLowStockProducts retrieves tracked products at or below the threshold.
// Implements portssvc.StockReaderSvc
func (s *inventoryService) ListLowStockProducts(ctx context.Context, salonID string) ([]dto.ProductStockResponse, error) {
	if salonID == "" {
		return nil, fmt.Errorf("%w: salon ID is required", apperrors.ErrValidation)
	}

	products, err := s.productRepo.ListLowStockProducts(ctx, salonID, s.lowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	responses := make([]dto.ProductStockResponse, len(products))
	for i, p := range products {
		responses[i] = dto.ProductStockResponse{
			ProductID:  p.ProductID,
			Name:       p.Name,
			SKU:        p.SKU,
			Level:      p.StockLevel,
			OutOfStock: p.StockLevel.LessThanOrEqual(decimal.Zero),
		}
	}
	return responses, nil
}
