package domain

import "github.com/shopspring/decimal"

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementPurchase    MovementType = "PURCHASE"
	MovementConsumption MovementType = "CONSUMPTION"
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementReturn      MovementType = "RETURN"
)

// MovementDirection states whether a movement increases or decreases stock.
// Purchase and return imply INCREASE, consumption implies DECREASE.
// Adjustment carries no implied direction and must state one explicitly.
type MovementDirection string

const (
	DirectionIncrease MovementDirection = "INCREASE"
	DirectionDecrease MovementDirection = "DECREASE"
)

// ImpliedDirection returns the direction a movement type forces, or ""
// when the type accepts either (adjustment).
func (t MovementType) ImpliedDirection() MovementDirection {
	switch t {
	case MovementPurchase, MovementReturn:
		return DirectionIncrease
	case MovementConsumption:
		return DirectionDecrease
	}
	return ""
}

// Valid reports whether t is one of the defined movement kinds.
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementConsumption, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// StockMovement is one immutable entry in a product's stock ledger.
// Movements are never updated or deleted; the current level is the fold of
// all signed quantities in created_at order.
type StockMovement struct {
	MovementID   string            `json:"movementID"` // Primary Key (e.g., UUID)
	ProductID    string            `json:"productID"`  // FK -> products
	MovementType MovementType      `json:"movementType"`
	Direction    MovementDirection `json:"direction"`
	Quantity     decimal.Decimal   `json:"quantity"` // Always positive; sign comes from Direction
	Notes        string            `json:"notes"`
	// LevelAfter is the projected stock level immediately after this
	// movement, computed by the repository inside the append transaction.
	LevelAfter decimal.Decimal `json:"levelAfter"`
	AuditFields
}

// SignedQuantity applies the movement's direction to its quantity.
func (m StockMovement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionDecrease {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
