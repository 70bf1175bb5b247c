package domain

import "github.com/shopspring/decimal"

// Product represents a retail or back-bar product sold or used by a salon.
// Product CRUD itself lives in an external service; this core only reads
// product rows and maintains the cached stock level column.
type Product struct {
	ProductID string          `json:"productID"` // Primary Key (e.g., UUID)
	SalonID   string          `json:"salonID"`   // FK -> salons (owned externally)
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	// IsInventoryItem is false for service-only products (unlimited stock).
	// Stock concepts never apply when this is false.
	IsInventoryItem bool `json:"isInventoryItem"`
	// StockLevel is a projection over the movement ledger, never written
	// directly. The ledger is the source of truth; this column is a cache
	// maintained transactionally on append and rebuildable from history.
	StockLevel decimal.Decimal `json:"stockLevel"`
	IsActive   bool            `json:"isActive"`
	AuditFields
}
