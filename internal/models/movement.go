package models

import "github.com/shopspring/decimal"

// MovementType classifies a stock movement row.
type MovementType string

const (
	MovementPurchase    MovementType = "PURCHASE"
	MovementConsumption MovementType = "CONSUMPTION"
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementReturn      MovementType = "RETURN"
)

// MovementDirection states the sign a movement applies to stock.
type MovementDirection string

const (
	DirectionIncrease MovementDirection = "INCREASE"
	DirectionDecrease MovementDirection = "DECREASE"
)

// StockMovement mirrors the stock_movements table. Rows are append-only.
type StockMovement struct {
	MovementID   string            `json:"movementID"`
	ProductID    string            `json:"productID"`
	MovementType MovementType      `json:"movementType"`
	Direction    MovementDirection `json:"direction"`
	Quantity     decimal.Decimal   `json:"quantity"`
	Notes        string            `json:"notes"`
	LevelAfter   decimal.Decimal   `json:"levelAfter"`
	AuditFields
}
