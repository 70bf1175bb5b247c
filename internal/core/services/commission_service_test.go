package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	"github.com/kigalisoft/salon_manager_app/internal/core/domain"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/core/services"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
)

// MockCommissionRepository is a mock type for the CommissionRepositoryFacade interface
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindCommissionByID(ctx context.Context, commissionID string) (*domain.CommissionRecord, error) {
	args := m.Called(ctx, commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) FindCommissionsByIDs(ctx context.Context, commissionIDs []string) (map[string]domain.CommissionRecord, error) {
	args := m.Called(ctx, commissionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) ListCommissionsByEmployee(ctx context.Context, employeeID string, paid *bool, limit int, nextToken *string) ([]domain.CommissionRecord, *string, error) {
	args := m.Called(ctx, employeeID, paid, limit, nextToken)
	var records []domain.CommissionRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.CommissionRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

func (m *MockCommissionRepository) UnpaidSummaryByEmployee(ctx context.Context, employeeID string) (int, decimal.Decimal, error) {
	args := m.Called(ctx, employeeID)
	return args.Int(0), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockCommissionRepository) FindSettlementByIdempotencyKey(ctx context.Context, key string) (*domain.Settlement, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockCommissionRepository) SettleCommissions(ctx context.Context, settlement domain.Settlement, commissionIDs []string, debitWallet bool) error {
	args := m.Called(ctx, settlement, commissionIDs, debitWallet)
	return args.Error(0)
}

// --- Test Suite Setup ---

type CommissionServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCommissionRepository
	service  portssvc.CommissionSvcFacade
}

func (suite *CommissionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCommissionRepository)
	suite.service = services.NewCommissionService(suite.mockRepo, "RWF")
}

func unpaidCommission(commissionID, employeeID string, amount int64) domain.CommissionRecord {
	return domain.CommissionRecord{
		CommissionID:   commissionID,
		SalonID:        uuid.NewString(),
		EmployeeID:     employeeID,
		SourceType:     domain.SourceSale,
		SourceID:       uuid.NewString(),
		SaleAmount:     decimal.NewFromInt(amount * 10),
		CommissionRate: decimal.NewFromFloat(0.10),
		Amount:         decimal.NewFromInt(amount),
		CurrencyCode:   "RWF",
		Paid:           false,
	}
}

// --- Test Cases ---

func (suite *CommissionServiceTestSuite) TestSettleSingle_WalletSuccess() {
	ctx := context.Background()
	commissionID := uuid.NewString()
	employeeID := uuid.NewString()
	userID := uuid.NewString()
	record := unpaidCommission(commissionID, employeeID, 10000)

	req := dto.SettleRequest{PaymentMethod: string(domain.MethodWallet)}

	suite.mockRepo.On("FindCommissionByID", ctx, commissionID).Return(&record, nil).Once()
	suite.mockRepo.On("SettleCommissions", ctx, mock.AnythingOfType("domain.Settlement"), []string{commissionID}, true).
		Run(func(args mock.Arguments) {
			settlement := args.Get(1).(domain.Settlement)
			suite.Equal(employeeID, settlement.EmployeeID)
			suite.Equal(domain.MethodWallet, settlement.Method)
			suite.True(settlement.TotalAmount.Equal(decimal.NewFromInt(10000)))
			suite.Equal(1, settlement.CommissionCount)
			suite.Equal([]string{commissionID}, settlement.CommissionIDs)
			suite.Equal(userID, settlement.CreatedBy)
			suite.Nil(settlement.IdempotencyKey)
		}).
		Return(nil).Once()

	settlement, err := suite.service.SettleSingle(ctx, commissionID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(settlement)
	suite.NotEmpty(settlement.SettlementID)
	suite.WithinDuration(time.Now(), settlement.SettledAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_MobileMoneyCarriesReference() {
	ctx := context.Background()
	commissionID := uuid.NewString()
	record := unpaidCommission(commissionID, uuid.NewString(), 5000)

	req := dto.SettleRequest{
		PaymentMethod:    string(domain.MethodMobileMoney),
		PaymentReference: "MTN-TXN-20260831-001",
	}

	suite.mockRepo.On("FindCommissionByID", ctx, commissionID).Return(&record, nil).Once()
	// Mobile money never touches the wallet.
	suite.mockRepo.On("SettleCommissions", ctx, mock.MatchedBy(func(s domain.Settlement) bool {
		return s.Reference == "MTN-TXN-20260831-001" && s.Method == domain.MethodMobileMoney
	}), []string{commissionID}, false).Return(nil).Once()

	settlement, err := suite.service.SettleSingle(ctx, commissionID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("MTN-TXN-20260831-001", settlement.Reference)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_MobileMoneyMissingReference() {
	req := dto.SettleRequest{PaymentMethod: string(domain.MethodMobileMoney)}

	settlement, err := suite.service.SettleSingle(context.Background(), uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCommissionByID")
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_LegacyMethodRejected() {
	req := dto.SettleRequest{PaymentMethod: string(domain.MethodCash)}

	settlement, err := suite.service.SettleSingle(context.Background(), uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_AlreadyPaid() {
	ctx := context.Background()
	commissionID := uuid.NewString()
	record := unpaidCommission(commissionID, uuid.NewString(), 3000)
	paidAt := time.Now().UTC().Add(-24 * time.Hour)
	record.Paid = true
	record.PaidAt = &paidAt

	req := dto.SettleRequest{PaymentMethod: string(domain.MethodWallet)}

	suite.mockRepo.On("FindCommissionByID", ctx, commissionID).Return(&record, nil).Once()

	settlement, err := suite.service.SettleSingle(ctx, commissionID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrAlreadyPaid)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_InsufficientBalancePassesThrough() {
	ctx := context.Background()
	commissionID := uuid.NewString()
	employeeID := uuid.NewString()
	record := unpaidCommission(commissionID, employeeID, 12000)

	req := dto.SettleRequest{PaymentMethod: string(domain.MethodWallet)}

	repoErr := apperrors.NewInsufficientBalanceError(employeeID, decimal.NewFromInt(10000), decimal.NewFromInt(12000))

	suite.mockRepo.On("FindCommissionByID", ctx, commissionID).Return(&record, nil).Once()
	suite.mockRepo.On("SettleCommissions", ctx, mock.AnythingOfType("domain.Settlement"), []string{commissionID}, true).
		Return(repoErr).Once()

	settlement, err := suite.service.SettleSingle(ctx, commissionID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	var balErr *apperrors.InsufficientBalanceError
	suite.Require().ErrorAs(err, &balErr)
	suite.True(balErr.Balance.Equal(decimal.NewFromInt(10000)))
	suite.True(balErr.Required.Equal(decimal.NewFromInt(12000)))
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_IdempotencyReplay() {
	ctx := context.Background()
	key := uuid.NewString()
	commissionID := uuid.NewString()
	stored := &domain.Settlement{
		SettlementID:    uuid.NewString(),
		EmployeeID:      uuid.NewString(),
		Method:          domain.MethodWallet,
		TotalAmount:     decimal.NewFromInt(8000),
		CommissionCount: 1,
		CommissionIDs:   []string{commissionID},
		IdempotencyKey:  &key,
		SettledAt:       time.Now().UTC().Add(-time.Minute),
	}

	req := dto.SettleRequest{PaymentMethod: string(domain.MethodWallet), IdempotencyKey: key}

	suite.mockRepo.On("FindSettlementByIdempotencyKey", ctx, key).Return(stored, nil).Once()

	settlement, err := suite.service.SettleSingle(ctx, commissionID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(stored.SettlementID, settlement.SettlementID)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCommissionByID")
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_IdempotencyKeyReuseDifferentCommission() {
	ctx := context.Background()
	key := uuid.NewString()
	stored := &domain.Settlement{
		SettlementID:    uuid.NewString(),
		EmployeeID:      uuid.NewString(),
		Method:          domain.MethodWallet,
		TotalAmount:     decimal.NewFromInt(8000),
		CommissionCount: 1,
		CommissionIDs:   []string{uuid.NewString()},
		IdempotencyKey:  &key,
		SettledAt:       time.Now().UTC().Add(-time.Minute),
	}

	req := dto.SettleRequest{PaymentMethod: string(domain.MethodWallet), IdempotencyKey: key}

	suite.mockRepo.On("FindSettlementByIdempotencyKey", ctx, key).Return(stored, nil).Once()

	// Same key, different commission: must not answer with the stored payout.
	settlement, err := suite.service.SettleSingle(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCommissionByID")
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleSingle_IdempotencyKeyReuseDifferentMethod() {
	ctx := context.Background()
	key := uuid.NewString()
	commissionID := uuid.NewString()
	stored := &domain.Settlement{
		SettlementID:    uuid.NewString(),
		EmployeeID:      uuid.NewString(),
		Method:          domain.MethodWallet,
		TotalAmount:     decimal.NewFromInt(8000),
		CommissionCount: 1,
		CommissionIDs:   []string{commissionID},
		IdempotencyKey:  &key,
		SettledAt:       time.Now().UTC().Add(-time.Minute),
	}

	req := dto.SettleRequest{
		PaymentMethod:    string(domain.MethodMobileMoney),
		PaymentReference: "MTN-TXN-20260831-002",
		IdempotencyKey:   key,
	}

	suite.mockRepo.On("FindSettlementByIdempotencyKey", ctx, key).Return(stored, nil).Once()

	settlement, err := suite.service.SettleSingle(ctx, commissionID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_Success() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	userID := uuid.NewString()
	idA, idB := uuid.NewString(), uuid.NewString()
	records := map[string]domain.CommissionRecord{
		idA: unpaidCommission(idA, employeeID, 10000),
		idB: unpaidCommission(idB, employeeID, 2000),
	}

	req := dto.SettleBatchRequest{
		CommissionIDs: []string{idA, idB},
		PaymentMethod: string(domain.MethodWallet),
	}

	suite.mockRepo.On("FindCommissionsByIDs", ctx, []string{idA, idB}).Return(records, nil).Once()
	suite.mockRepo.On("SettleCommissions", ctx, mock.MatchedBy(func(s domain.Settlement) bool {
		return s.TotalAmount.Equal(decimal.NewFromInt(12000)) && s.CommissionCount == 2 && s.EmployeeID == employeeID
	}), []string{idA, idB}, true).Return(nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(settlement)
	suite.True(settlement.TotalAmount.Equal(decimal.NewFromInt(12000)))
	suite.Equal(2, settlement.CommissionCount)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_DeduplicatesIDs() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	id := uuid.NewString()
	records := map[string]domain.CommissionRecord{
		id: unpaidCommission(id, employeeID, 7000),
	}

	req := dto.SettleBatchRequest{
		CommissionIDs: []string{id, id, id},
		PaymentMethod: string(domain.MethodWallet),
	}

	suite.mockRepo.On("FindCommissionsByIDs", ctx, []string{id}).Return(records, nil).Once()
	suite.mockRepo.On("SettleCommissions", ctx, mock.MatchedBy(func(s domain.Settlement) bool {
		return s.TotalAmount.Equal(decimal.NewFromInt(7000)) && s.CommissionCount == 1
	}), []string{id}, true).Return(nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(1, settlement.CommissionCount)
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_MissingCommissionFailsWhole() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	idA, idB := uuid.NewString(), uuid.NewString()
	records := map[string]domain.CommissionRecord{
		idA: unpaidCommission(idA, employeeID, 4000),
		// idB absent
	}

	req := dto.SettleBatchRequest{
		CommissionIDs: []string{idA, idB},
		PaymentMethod: string(domain.MethodWallet),
	}

	suite.mockRepo.On("FindCommissionsByIDs", ctx, []string{idA, idB}).Return(records, nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_PaidMemberFailsWhole() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	idA, idB := uuid.NewString(), uuid.NewString()
	paid := unpaidCommission(idB, employeeID, 2000)
	paidAt := time.Now().UTC()
	paid.Paid = true
	paid.PaidAt = &paidAt
	records := map[string]domain.CommissionRecord{
		idA: unpaidCommission(idA, employeeID, 4000),
		idB: paid,
	}

	req := dto.SettleBatchRequest{
		CommissionIDs: []string{idA, idB},
		PaymentMethod: string(domain.MethodWallet),
	}

	suite.mockRepo.On("FindCommissionsByIDs", ctx, []string{idA, idB}).Return(records, nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrAlreadyPaid)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_MixedEmployeesRejected() {
	ctx := context.Background()
	idA, idB := uuid.NewString(), uuid.NewString()
	records := map[string]domain.CommissionRecord{
		idA: unpaidCommission(idA, uuid.NewString(), 4000),
		idB: unpaidCommission(idB, uuid.NewString(), 2000),
	}

	req := dto.SettleBatchRequest{
		CommissionIDs: []string{idA, idB},
		PaymentMethod: string(domain.MethodWallet),
	}

	suite.mockRepo.On("FindCommissionsByIDs", ctx, []string{idA, idB}).Return(records, nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_InsufficientBalanceLeavesBatchUnpaid() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	idA, idB := uuid.NewString(), uuid.NewString()
	records := map[string]domain.CommissionRecord{
		idA: unpaidCommission(idA, employeeID, 10000),
		idB: unpaidCommission(idB, employeeID, 2000),
	}

	req := dto.SettleBatchRequest{
		CommissionIDs: []string{idA, idB},
		PaymentMethod: string(domain.MethodWallet),
	}

	repoErr := apperrors.NewInsufficientBalanceError(employeeID, decimal.NewFromInt(10000), decimal.NewFromInt(12000))

	suite.mockRepo.On("FindCommissionsByIDs", ctx, []string{idA, idB}).Return(records, nil).Once()
	suite.mockRepo.On("SettleCommissions", ctx, mock.AnythingOfType("domain.Settlement"), []string{idA, idB}, true).
		Return(repoErr).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_IdempotencyReplay() {
	ctx := context.Background()
	key := uuid.NewString()
	idA, idB := uuid.NewString(), uuid.NewString()
	stored := &domain.Settlement{
		SettlementID:    uuid.NewString(),
		Method:          domain.MethodWallet,
		TotalAmount:     decimal.NewFromInt(12000),
		CommissionCount: 2,
		CommissionIDs:   []string{idA, idB},
		IdempotencyKey:  &key,
	}

	// Order of the retried IDs must not matter.
	req := dto.SettleBatchRequest{
		CommissionIDs:  []string{idB, idA},
		PaymentMethod:  string(domain.MethodWallet),
		IdempotencyKey: key,
	}

	suite.mockRepo.On("FindSettlementByIdempotencyKey", ctx, key).Return(stored, nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(stored.SettlementID, settlement.SettlementID)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCommissionsByIDs")
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestSettleBatch_IdempotencyKeyReuseDifferentIDs() {
	ctx := context.Background()
	key := uuid.NewString()
	stored := &domain.Settlement{
		SettlementID:    uuid.NewString(),
		EmployeeID:      uuid.NewString(),
		Method:          domain.MethodWallet,
		TotalAmount:     decimal.NewFromInt(5000),
		CommissionCount: 1,
		CommissionIDs:   []string{uuid.NewString()},
		IdempotencyKey:  &key,
	}

	// A mutated retry: same key, two commissions the stored settlement
	// never paid. Replaying the stored settlement would leave these unpaid
	// while reporting success.
	req := dto.SettleBatchRequest{
		CommissionIDs:  []string{uuid.NewString(), uuid.NewString()},
		PaymentMethod:  string(domain.MethodWallet),
		IdempotencyKey: key,
	}

	suite.mockRepo.On("FindSettlementByIdempotencyKey", ctx, key).Return(stored, nil).Once()

	settlement, err := suite.service.SettleBatch(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(settlement)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindCommissionsByIDs")
	suite.mockRepo.AssertNotCalled(suite.T(), "SettleCommissions")
}

func (suite *CommissionServiceTestSuite) TestListCommissions_RequiresEmployeeID() {
	resp, err := suite.service.ListCommissions(context.Background(), dto.ListCommissionsParams{})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CommissionServiceTestSuite) TestListCommissions_DefaultLimit() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	records := []domain.CommissionRecord{
		unpaidCommission(uuid.NewString(), employeeID, 3000),
	}

	suite.mockRepo.On("ListCommissionsByEmployee", ctx, employeeID, (*bool)(nil), 20, (*string)(nil)).
		Return(records, nil, nil).Once()

	resp, err := suite.service.ListCommissions(ctx, dto.ListCommissionsParams{EmployeeID: employeeID})

	suite.Require().NoError(err)
	suite.Len(resp.Commissions, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestGetUnpaidSummary_FormatsTotal() {
	ctx := context.Background()
	employeeID := uuid.NewString()

	suite.mockRepo.On("UnpaidSummaryByEmployee", ctx, employeeID).
		Return(3, decimal.NewFromInt(12000), nil).Once()

	summary, err := suite.service.GetUnpaidSummary(ctx, employeeID)

	suite.Require().NoError(err)
	suite.Equal(3, summary.Count)
	suite.True(summary.TotalAmount.Equal(decimal.NewFromInt(12000)))
	suite.Equal("12000 RWF", summary.TotalDisplay)
}

func (suite *CommissionServiceTestSuite) TestGetUnpaidSummary_UsesConfiguredCurrency() {
	ctx := context.Background()
	employeeID := uuid.NewString()
	service := services.NewCommissionService(suite.mockRepo, "USD")

	suite.mockRepo.On("UnpaidSummaryByEmployee", ctx, employeeID).
		Return(2, decimal.NewFromInt(400), nil).Once()

	summary, err := service.GetUnpaidSummary(ctx, employeeID)

	suite.Require().NoError(err)
	suite.Equal("400 USD", summary.TotalDisplay)
}

func TestCommissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}
