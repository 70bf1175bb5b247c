package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a commission was (or will be) paid out.
type PaymentMethod string

const (
	MethodWallet      PaymentMethod = "WALLET"
	MethodMobileMoney PaymentMethod = "MOBILE_MONEY"
	// Legacy values kept for historical records; not settleable through
	// the settlement engine.
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodPayroll      PaymentMethod = "PAYROLL"
)

// Settleable reports whether the settlement engine accepts this method.
func (m PaymentMethod) Settleable() bool {
	return m == MethodWallet || m == MethodMobileMoney
}

// CommissionSourceType identifies what earned the commission.
type CommissionSourceType string

const (
	SourceSale        CommissionSourceType = "SALE"
	SourceAppointment CommissionSourceType = "APPOINTMENT"
)

// CommissionRecord represents one earned commission. Records are created by
// the sale/appointment flow (external to this core) and transition exactly
// once from unpaid to paid via the settlement engine. There is no reversal.
type CommissionRecord struct {
	CommissionID   string               `json:"commissionID"` // Primary Key (e.g., UUID)
	SalonID        string               `json:"salonID"`
	EmployeeID     string               `json:"employeeID"`
	SourceType     CommissionSourceType `json:"sourceType"`
	SourceID       string               `json:"sourceID"` // Sale or appointment ID
	SaleAmount     decimal.Decimal      `json:"saleAmount"`
	CommissionRate decimal.Decimal      `json:"commissionRate"`
	Amount         decimal.Decimal      `json:"amount"`
	CurrencyCode   string               `json:"currencyCode"` // RWF in practice
	// Paid implies PaidAt is set and, for mobile money, PaymentReference
	// is non-empty.
	Paid             bool          `json:"paid"`
	PaidAt           *time.Time    `json:"paidAt,omitempty"`
	PaymentMethod    PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	AuditFields
}

// Settlement is the audit record of one successful settlement call, single
// or batch. Every paid commission points back at the settlement that paid
// it via the shared PaidAt/PaymentReference values.
type Settlement struct {
	SettlementID    string          `json:"settlementID"`
	EmployeeID      string          `json:"employeeID"`
	Method          PaymentMethod   `json:"method"`
	Reference       string          `json:"reference,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CommissionCount int             `json:"commissionCount"`
	// CommissionIDs are the commissions this settlement paid. Kept on the
	// row so an idempotency-key replay can verify the retry asks for the
	// same settlement it is answering with.
	CommissionIDs []string `json:"commissionIDs"`
	// IdempotencyKey is the optional client-supplied key making retries
	// safe. Unique when present.
	IdempotencyKey *string   `json:"idempotencyKey,omitempty"`
	SettledAt      time.Time `json:"settledAt"`
	CreatedBy      string    `json:"createdBy"`
}
