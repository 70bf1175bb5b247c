package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portsrepo "github.com/kigalisoft/salon_manager_app/internal/core/ports/repositories"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
	"github.com/kigalisoft/salon_manager_app/internal/middleware"
)

var ErrNonPositiveAmount = errors.New("amount must be positive")

// walletService guards the non-negative-balance invariant. All debits go
// through a conditional update in the repository, so two concurrent
// settlements can never jointly overdraw a wallet.
type walletService struct {
	BaseService
	walletRepo portsrepo.WalletRepositoryFacade
}

// NewWalletService creates a new wallet service.
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade) portssvc.WalletSvcFacade {
	return &walletService{walletRepo: walletRepo}
}

var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// GetBalance retrieves the wallet for an owner.
// Implements portssvc.WalletReaderSvc
func (s *walletService) GetBalance(ctx context.Context, ownerID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet for owner %s: %w", ownerID, err)
	}
	return wallet, nil
}

// TopUp credits the owner's wallet.
// Implements portssvc.WalletWriterSvc
func (s *walletService) TopUp(ctx context.Context, ownerID string, req dto.TopUpRequest, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
	}

	newBalance, err := s.walletRepo.CreditWallet(ctx, ownerID, req.Amount, userID, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to credit wallet", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		}
		return decimal.Zero, fmt.Errorf("failed to credit wallet for owner %s: %w", ownerID, err)
	}

	logger.Info("Wallet credited",
		slog.String("owner_id", ownerID),
		slog.String("amount", req.Amount.String()),
		slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}

// Debit subtracts from the owner's wallet, failing without mutation when
// the balance cannot cover the amount.
// Implements portssvc.WalletWriterSvc
func (s *walletService) Debit(ctx context.Context, ownerID string, amount decimal.Decimal, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
	}

	newBalance, err := s.walletRepo.DebitWallet(ctx, ownerID, amount, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Wallet debit rejected", slog.String("owner_id", ownerID), slog.String("amount", amount.String()))
			return decimal.Zero, err
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to debit wallet", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		}
		return decimal.Zero, fmt.Errorf("failed to debit wallet for owner %s: %w", ownerID, err)
	}

	logger.Info("Wallet debited",
		slog.String("owner_id", ownerID),
		slog.String("amount", amount.String()),
		slog.String("new_balance", newBalance.String()))
	return newBalance, nil
}
