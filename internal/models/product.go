package models

import "github.com/shopspring/decimal"

// Product mirrors the products table. The stock_level column is a cache of
// the movement ledger projection and is only written inside the same
// transaction that appends a movement (or by a rebuild).
type Product struct {
	ProductID       string          `json:"productID"`
	SalonID         string          `json:"salonID"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	IsInventoryItem bool            `json:"isInventoryItem"`
	StockLevel      decimal.Decimal `json:"stockLevel"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}
