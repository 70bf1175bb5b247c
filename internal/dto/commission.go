package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
)

// SettleRequest is the payload for marking a single commission paid.
type SettleRequest struct {
	PaymentMethod    string `json:"paymentMethod" binding:"required"`
	PaymentReference string `json:"paymentReference,omitempty"`
	IdempotencyKey   string `json:"idempotencyKey,omitempty"`
}

// SettleBatchRequest is the payload for the all-or-nothing batch settlement.
type SettleBatchRequest struct {
	CommissionIDs    []string `json:"commissionIDs" binding:"required,min=1"`
	PaymentMethod    string   `json:"paymentMethod" binding:"required"`
	PaymentReference string   `json:"paymentReference,omitempty"`
	IdempotencyKey   string   `json:"idempotencyKey,omitempty"`
}

// CommissionResponse defines the data returned for a commission record.
type CommissionResponse struct {
	CommissionID     string          `json:"commissionID"`
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
	CreatedAt        time.Time       `json:"createdAt"`
}

// ListCommissionsParams holds parameters for listing commissions.
type ListCommissionsParams struct {
	EmployeeID string
	Paid       *bool
	Limit      int
	NextToken  *string
}

// ListCommissionsResponse is a page of commission records.
type ListCommissionsResponse struct {
	Commissions []CommissionResponse `json:"commissions"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// UnpaidCommissionSummary backs the batch settlement screen: how many
// commissions are awaiting payout for an employee and what they sum to.
type UnpaidCommissionSummary struct {
	EmployeeID   string          `json:"employeeID"`
	Count        int             `json:"count"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	TotalDisplay string          `json:"totalDisplay"`
}

// SettlementResponse defines the data returned after a successful settlement.
type SettlementResponse struct {
	SettlementID    string          `json:"settlementID"`
	EmployeeID      string          `json:"employeeID"`
	Method          string          `json:"method"`
	Reference       string          `json:"reference,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CommissionCount int             `json:"commissionCount"`
	SettledAt       time.Time       `json:"settledAt"`
}

// ToCommissionResponse converts a domain.CommissionRecord to a DTO.
func ToCommissionResponse(c *domain.CommissionRecord) CommissionResponse {
	return CommissionResponse{
		CommissionID:     c.CommissionID,
		EmployeeID:       c.EmployeeID,
		SourceType:       string(c.SourceType),
		SourceID:         c.SourceID,
		SaleAmount:       c.SaleAmount,
		CommissionRate:   c.CommissionRate,
		Amount:           c.Amount,
		CurrencyCode:     c.CurrencyCode,
		Paid:             c.Paid,
		PaidAt:           c.PaidAt,
		PaymentMethod:    string(c.PaymentMethod),
		PaymentReference: c.PaymentReference,
		CreatedAt:        c.CreatedAt,
	}
}

// ToCommissionResponses converts a slice of domain.CommissionRecord to DTOs.
func ToCommissionResponses(cs []domain.CommissionRecord) []CommissionResponse {
	responses := make([]CommissionResponse, len(cs))
	for i := range cs {
		responses[i] = ToCommissionResponse(&cs[i])
	}
	return responses
}

// ToSettlementResponse converts a domain.Settlement to a DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID:    s.SettlementID,
		EmployeeID:      s.EmployeeID,
		Method:          string(s.Method),
		Reference:       s.Reference,
		TotalAmount:     s.TotalAmount,
		CommissionCount: s.CommissionCount,
		SettledAt:       s.SettledAt,
	}
}
