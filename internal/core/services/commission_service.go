package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
	"github.com/kigalisoft/salon_manager_app/internal/middleware"
	"github.com/kigalisoft/salon_manager_app/internal/utils"
)

var (
	ErrMethodNotSettleable = errors.New("payment method cannot be settled through this engine")
	ErrReferenceRequired   = errors.New("mobile money settlements require a payment reference")
	ErrMixedEmployees      = errors.New("batch commissions must belong to a single employee")
	ErrEmptyBatch          = errors.New("batch must contain at least one commission")
)

// commissionService is the settlement engine: the only writer of the
// unpaid -> paid transition. Settlements are atomic per call, single or
// batch; a wallet-sourced settlement performs one check-and-debit of the
// total inside the same transaction that flips the records.
type commissionService struct {
	BaseService
	commissionRepo  portsrepo.CommissionRepositoryFacade
	defaultCurrency string
}

// NewCommissionService creates a new commission settlement service.
func NewCommissionService(commissionRepo portsrepo.CommissionRepositoryFacade, defaultCurrency string) portssvc.CommissionSvcFacade {
	return &commissionService{commissionRepo: commissionRepo, defaultCurrency: defaultCurrency}
}

var _ portssvc.CommissionSvcFacade = (*commissionService)(nil)

// validateSettlementInput checks the method/reference pairing shared by
// single and batch settlement.
func validateSettlementInput(method domain.PaymentMethod, reference string) error {
	if !method.Settleable() {
		return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrMethodNotSettleable, method)
	}
	if method == domain.MethodMobileMoney && reference == "" {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrReferenceRequired)
	}
	return nil
}

// replayedSettlement returns the settlement previously recorded under an
// idempotency key, or nil when the key is unused. The stored settlement is
// only replayed when the retry asks for the same thing: same commissions,
// method and reference. A key reused for a different request fails with
// ErrDuplicate instead of silently answering with someone else's payout.
func (s *commissionService) replayedSettlement(ctx context.Context, key string, method domain.PaymentMethod, reference string, commissionIDs []string) (*domain.Settlement, error) {
	if key == "" {
		return nil, nil
	}
	existing, err := s.commissionRepo.FindSettlementByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	if existing.Method != method || existing.Reference != reference || !sameStringSet(existing.CommissionIDs, commissionIDs) {
		return nil, fmt.Errorf("%w: idempotency key reused for a different settlement request", apperrors.ErrDuplicate)
	}
	return existing, nil
}

// SettleSingle marks one unpaid commission paid.
// Implements portssvc.SettlementSvc
func (s *commissionService) SettleSingle(ctx context.Context, commissionID string, req dto.SettleRequest, userID string) (*domain.Settlement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method := domain.PaymentMethod(req.PaymentMethod)
	if err := validateSettlementInput(method, req.PaymentReference); err != nil {
		return nil, err
	}

	if replay, err := s.replayedSettlement(ctx, req.IdempotencyKey, method, req.PaymentReference, []string{commissionID}); err != nil {
		return nil, err
	} else if replay != nil {
		logger.Info("Settlement replayed from idempotency key", slog.String("settlement_id", replay.SettlementID))
		return replay, nil
	}

	record, err := s.commissionRepo.FindCommissionByID(ctx, commissionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find commission", slog.String("error", err.Error()), slog.String("commission_id", commissionID))
		}
		return nil, fmt.Errorf("failed to find commission %s: %w", commissionID, err)
	}
	if record.Paid {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyPaid, commissionID)
	}

	settlement := s.newSettlement(record.EmployeeID, method, req.PaymentReference, req.IdempotencyKey, record.Amount, []string{commissionID}, userID)
	if err := s.commissionRepo.SettleCommissions(ctx, settlement, []string{commissionID}, method == domain.MethodWallet); err != nil {
		return nil, s.settlementError(ctx, err, []string{commissionID})
	}

	logger.Info("Commission settled",
		slog.String("commission_id", commissionID),
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("method", string(method)),
		slog.String("amount", record.Amount.String()))
	return &settlement, nil
}

// SettleBatch marks a set of unpaid commissions paid, all-or-nothing.
// Implements portssvc.SettlementSvc
func (s *commissionService) SettleBatch(ctx context.Context, req dto.SettleBatchRequest, userID string) (*domain.Settlement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method := domain.PaymentMethod(req.PaymentMethod)
	if err := validateSettlementInput(method, req.PaymentReference); err != nil {
		return nil, err
	}

	commissionIDs := uniqueStrings(req.CommissionIDs)
	if len(commissionIDs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrEmptyBatch)
	}

	if replay, err := s.replayedSettlement(ctx, req.IdempotencyKey, method, req.PaymentReference, commissionIDs); err != nil {
		return nil, err
	} else if replay != nil {
		logger.Info("Batch settlement replayed from idempotency key", slog.String("settlement_id", replay.SettlementID))
		return replay, nil
	}

	records, err := s.commissionRepo.FindCommissionsByIDs(ctx, commissionIDs)
	if err != nil {
		logger.Error("Failed to fetch commissions for batch settlement", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch commissions: %w", err)
	}

	// Fail fast before any mutation: every record must exist, be unpaid,
	// and belong to the same employee whose wallet will be debited.
	employeeID := ""
	totalAmount := decimal.Zero
	for _, id := range commissionIDs {
		record, found := records[id]
		if !found {
			return nil, fmt.Errorf("%w: commission %s", apperrors.ErrNotFound, id)
		}
		if record.Paid {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyPaid, id)
		}
		if employeeID == "" {
			employeeID = record.EmployeeID
		} else if record.EmployeeID != employeeID {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMixedEmployees)
		}
		totalAmount = totalAmount.Add(record.Amount)
	}

	settlement := s.newSettlement(employeeID, method, req.PaymentReference, req.IdempotencyKey, totalAmount, commissionIDs, userID)
	if err := s.commissionRepo.SettleCommissions(ctx, settlement, commissionIDs, method == domain.MethodWallet); err != nil {
		return nil, s.settlementError(ctx, err, commissionIDs)
	}

	logger.Info("Commission batch settled",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("employee_id", employeeID),
		slog.Int("commission_count", len(commissionIDs)),
		slog.String("method", string(method)),
		slog.String("total_amount", totalAmount.String()))
	return &settlement, nil
}

func (s *commissionService) newSettlement(employeeID string, method domain.PaymentMethod, reference, idempotencyKey string, total decimal.Decimal, commissionIDs []string, userID string) domain.Settlement {
	settlement := domain.Settlement{
		SettlementID:    uuid.NewString(),
		EmployeeID:      employeeID,
		Method:          method,
		Reference:       reference,
		TotalAmount:     total,
		CommissionCount: len(commissionIDs),
		CommissionIDs:   commissionIDs,
		SettledAt:       time.Now().UTC(),
		CreatedBy:       userID,
	}
	if idempotencyKey != "" {
		settlement.IdempotencyKey = &idempotencyKey
	}
	return settlement
}

// settlementError logs and wraps repository failures, passing the typed
// ones (already paid, insufficient balance, duplicate key) through intact.
func (s *commissionService) settlementError(ctx context.Context, err error, commissionIDs []string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	switch {
	case errors.Is(err, apperrors.ErrAlreadyPaid),
		errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Settlement rejected", slog.String("error", err.Error()), slog.Int("commission_count", len(commissionIDs)))
		return err
	default:
		logger.Error("Settlement failed", slog.String("error", err.Error()), slog.Int("commission_count", len(commissionIDs)))
		return fmt.Errorf("failed to settle commissions: %w", err)
	}
}

// GetCommissionByID retrieves one commission record.
// Implements portssvc.CommissionReaderSvc
func (s *commissionService) GetCommissionByID(ctx context.Context, commissionID string) (*domain.CommissionRecord, error) {
	record, err := s.commissionRepo.FindCommissionByID(ctx, commissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find commission %s: %w", commissionID, err)
	}
	return record, nil
}

// ListCommissions retrieves a page of an employee's commissions.
// Implements portssvc.CommissionReaderSvc
func (s *commissionService) ListCommissions(ctx context.Context, params dto.ListCommissionsParams) (*dto.ListCommissionsResponse, error) {
	if params.EmployeeID == "" {
		return nil, fmt.Errorf("%w: employee ID is required", apperrors.ErrValidation)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	records, nextToken, err := s.commissionRepo.ListCommissionsByEmployee(ctx, params.EmployeeID, params.Paid, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve commissions: %w", err)
	}

	return &dto.ListCommissionsResponse{
		Commissions: dto.ToCommissionResponses(records),
		NextToken:   nextToken,
	}, nil
}

// GetUnpaidSummary returns the count and total of an employee's unpaid
// commissions, formatted for the settlement screen.
// Implements portssvc.CommissionReaderSvc
func (s *commissionService) GetUnpaidSummary(ctx context.Context, employeeID string) (*dto.UnpaidCommissionSummary, error) {
	if employeeID == "" {
		return nil, fmt.Errorf("%w: employee ID is required", apperrors.ErrValidation)
	}

	count, total, err := s.commissionRepo.UnpaidSummaryByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize unpaid commissions: %w", err)
	}

	return &dto.UnpaidCommissionSummary{
		EmployeeID:   employeeID,
		Count:        count,
		TotalAmount:  total,
		TotalDisplay: utils.FormatAmount(total, s.defaultCurrency),
	}, nil
}
