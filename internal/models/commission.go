package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionRecord mirrors the commissions table.
type CommissionRecord struct {
	CommissionID     string          `json:"commissionID"`
	SalonID          string          `json:"salonID"`
	EmployeeID       string          `json:"employeeID"`
	SourceType       string          `json:"sourceType"`
	SourceID         string          `json:"sourceID"`
	SaleAmount       decimal.Decimal `json:"saleAmount"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	Paid             bool            `json:"paid"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	PaymentMethod    string          `json:"paymentMethod,omitempty"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	AuditFields
}

// Settlement mirrors the settlements table.
type Settlement struct {
	SettlementID    string          `json:"settlementID"`
	EmployeeID      string          `json:"employeeID"`
	Method          string          `json:"method"`
	Reference       string          `json:"reference,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CommissionCount int             `json:"commissionCount"`
	CommissionIDs   []string        `json:"commissionIDs"`
	IdempotencyKey  *string         `json:"idempotencyKey,omitempty"`
	SettledAt       time.Time       `json:"settledAt"`
	CreatedBy       string          `json:"createdBy"`
}
