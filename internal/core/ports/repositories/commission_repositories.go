package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
)

// CommissionReader defines read operations for commission data.
type CommissionReader interface {
	// FindCommissionByID retrieves a single commission record.
	FindCommissionByID(ctx context.Context, commissionID string) (*domain.CommissionRecord, error)

	// FindCommissionsByIDs retrieves multiple commission records keyed by ID.
	// Missing IDs are simply absent from the map.
	FindCommissionsByIDs(ctx context.Context, commissionIDs []string) (map[string]domain.CommissionRecord, error)

	// ListCommissionsByEmployee retrieves a page of an employee's
	// commissions, optionally filtered by paid status, newest first.
	ListCommissionsByEmployee(ctx context.Context, employeeID string, paid *bool, limit int, nextToken *string) ([]domain.CommissionRecord, *string, error)

	// UnpaidSummaryByEmployee returns the count and total amount of an
	// employee's unpaid commissions.
	UnpaidSummaryByEmployee(ctx context.Context, employeeID string) (int, decimal.Decimal, error)
}

// SettlementReader defines read operations for settlement audit rows.
type SettlementReader interface {
	// FindSettlementByIdempotencyKey retrieves the settlement recorded under
	// a client-supplied idempotency key, or apperrors.ErrNotFound.
	FindSettlementByIdempotencyKey(ctx context.Context, key string) (*domain.Settlement, error)
}

// CommissionWriter defines the single write operation on commissions: the
// paid transition, owned exclusively by the settlement engine.
type CommissionWriter interface {
	// SettleCommissions atomically flips every listed commission to paid and
	// records the settlement, all inside one transaction. The commission
	// rows are locked first; a row that is already paid fails the whole call
	// with apperrors.ErrAlreadyPaid. When debitWallet is true the owner's
	// wallet is debited by settlement.TotalAmount via a conditional update;
	// an uncovered debit fails the whole call with an
	// apperrors.InsufficientBalanceError and no row changes.
	SettleCommissions(ctx context.Context, settlement domain.Settlement, commissionIDs []string, debitWallet bool) error
}

// CommissionRepositoryFacade combines all commission repository interfaces.
type CommissionRepositoryFacade interface {
	CommissionReader
	SettlementReader
	CommissionWriter
}
