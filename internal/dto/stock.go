package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
)

// CreateMovementRequest is the payload for appending a stock movement.
// Direction is only meaningful for ADJUSTMENT movements; the other kinds
// carry an implied direction and reject a contradictory one.
type CreateMovementRequest struct {
	MovementType string          `json:"movementType" binding:"required"`
	Direction    string          `json:"direction,omitempty"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Notes        string          `json:"notes,omitempty"`
}

// MovementResponse defines the data returned for one stock movement.
type MovementResponse struct {
	MovementID   string          `json:"movementID"`
	ProductID    string          `json:"productID"`
	MovementType string          `json:"movementType"`
	Direction    string          `json:"direction"`
	Quantity     decimal.Decimal `json:"quantity"`
	Notes        string          `json:"notes,omitempty"`
	LevelAfter   decimal.Decimal `json:"levelAfter"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// StockLevelResponse is the projection of a product's current stock state.
// Unlimited is true for non-inventory products, in which case Level and the
// flags carry no meaning.
type StockLevelResponse struct {
	ProductID  string          `json:"productID"`
	Level      decimal.Decimal `json:"level"`
	Unlimited  bool            `json:"unlimited"`
	LowStock   bool            `json:"lowStock"`
	OutOfStock bool            `json:"outOfStock"`
}

// ListMovementsParams holds parameters for listing a product's movements.
type ListMovementsParams struct {
	Limit     int
	NextToken *string
}

// ListMovementsResponse is a page of a product's movement history.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ProductStockResponse is one row of the low-stock listing.
type ProductStockResponse struct {
	ProductID  string          `json:"productID"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Level      decimal.Decimal `json:"level"`
	OutOfStock bool            `json:"outOfStock"`
}

// ToMovementResponse converts a domain.StockMovement to a MovementResponse DTO.
func ToMovementResponse(m *domain.StockMovement) MovementResponse {
	return MovementResponse{
		MovementID:   m.MovementID,
		ProductID:    m.ProductID,
		MovementType: string(m.MovementType),
		Direction:    string(m.Direction),
		Quantity:     m.Quantity,
		Notes:        m.Notes,
		LevelAfter:   m.LevelAfter,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

// ToMovementResponses converts a slice of domain.StockMovement to DTOs.
func ToMovementResponses(ms []domain.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(ms))
	for i := range ms {
		responses[i] = ToMovementResponse(&ms[i])
	}
	return responses
}
