package services

import (
	"context"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
)

// CommissionReaderSvc defines read operations for commission data.
type CommissionReaderSvc interface {
	// GetCommissionByID retrieves one commission record.
	GetCommissionByID(ctx context.Context, commissionID string) (*domain.CommissionRecord, error)

	// ListCommissions retrieves a page of an employee's commissions.
	ListCommissions(ctx context.Context, params dto.ListCommissionsParams) (*dto.ListCommissionsResponse, error)

	// GetUnpaidSummary returns the count and total of an employee's unpaid
	// commissions.
	GetUnpaidSummary(ctx context.Context, employeeID string) (*dto.UnpaidCommissionSummary, error)
}

// SettlementSvc is the only writer of the unpaid -> paid transition.
type SettlementSvc interface {
	// SettleSingle marks one unpaid commission paid, debiting the
	// employee's wallet first when the method is WALLET.
	SettleSingle(ctx context.Context, commissionID string, req dto.SettleRequest, userID string) (*domain.Settlement, error)

	// SettleBatch marks a set of unpaid commissions paid all-or-nothing:
	// one atomic check-and-debit of the batch total for WALLET, and no
	// record changes when any part fails.
	SettleBatch(ctx context.Context, req dto.SettleBatchRequest, userID string) (*domain.Settlement, error)
}

// CommissionSvcFacade combines all commission-related service interfaces.
type CommissionSvcFacade interface {
	CommissionReaderSvc
	SettlementSvc
}
