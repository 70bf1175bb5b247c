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

// MockMovementRepository is a mock type for the MovementRepositoryFacade interface
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) FindMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	args := m.Called(ctx, productID, limit, nextToken)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return movements, token, args.Error(2)
}

func (m *MockMovementRepository) AppendMovement(ctx context.Context, movement domain.StockMovement, allowNegative bool) (*domain.StockMovement, error) {
	args := m.Called(ctx, movement, allowNegative)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) RebuildStockLevel(ctx context.Context, productID string, userID string, now time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, productID, userID, now)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockProductRepository is a mock type for the ProductRepositoryFacade interface
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListLowStockProducts(ctx context.Context, salonID string, threshold decimal.Decimal) ([]domain.Product, error) {
	args := m.Called(ctx, salonID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// --- Test Suite Setup ---

type InventoryServiceTestSuite struct {
	suite.Suite
	mockMovementRepo *MockMovementRepository
	mockProductRepo  *MockProductRepository
	service          portssvc.InventorySvcFacade
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewInventoryService(suite.mockMovementRepo, suite.mockProductRepo, true, 5)
}

func trackedProduct(productID string) *domain.Product {
	return &domain.Product{
		ProductID:       productID,
		SalonID:         uuid.NewString(),
		Name:            "Argan Oil 100ml",
		SKU:             "ARG-100",
		IsInventoryItem: true,
		StockLevel:      decimal.NewFromInt(10),
		IsActive:        true,
	}
}

// --- Test Cases ---

func (suite *InventoryServiceTestSuite) TestAppendMovement_PurchaseSuccess() {
	ctx := context.Background()
	productID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementPurchase),
		Quantity:     decimal.NewFromInt(12),
		Notes:        "restock order #88",
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(trackedProduct(productID), nil).Once()
	suite.mockMovementRepo.On("AppendMovement", ctx, mock.AnythingOfType("domain.StockMovement"), true).
		Run(func(args mock.Arguments) {
			movement := args.Get(1).(domain.StockMovement)
			suite.Equal(domain.MovementPurchase, movement.MovementType)
			suite.Equal(domain.DirectionIncrease, movement.Direction)
			suite.True(movement.Quantity.Equal(decimal.NewFromInt(12)))
			suite.Equal(userID, movement.CreatedBy)
		}).
		Return(&domain.StockMovement{
			MovementID:   uuid.NewString(),
			ProductID:    productID,
			MovementType: domain.MovementPurchase,
			Direction:    domain.DirectionIncrease,
			Quantity:     decimal.NewFromInt(12),
			LevelAfter:   decimal.NewFromInt(22),
		}, nil).Once()

	resp, err := suite.service.AppendMovement(ctx, productID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.LevelAfter.Equal(decimal.NewFromInt(22)))
	suite.Equal(string(domain.DirectionIncrease), resp.Direction)
	suite.mockProductRepo.AssertExpectations(suite.T())
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_ConsumptionImpliesDecrease() {
	ctx := context.Background()
	productID := uuid.NewString()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementConsumption),
		Quantity:     decimal.NewFromInt(3),
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(trackedProduct(productID), nil).Once()
	suite.mockMovementRepo.On("AppendMovement", ctx, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.Direction == domain.DirectionDecrease
	}), true).Return(&domain.StockMovement{
		MovementID: uuid.NewString(),
		ProductID:  productID,
		Direction:  domain.DirectionDecrease,
		Quantity:   decimal.NewFromInt(3),
		LevelAfter: decimal.NewFromInt(7),
	}, nil).Once()

	resp, err := suite.service.AppendMovement(ctx, productID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(resp.LevelAfter.Equal(decimal.NewFromInt(7)))
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_UnknownType() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{
		MovementType: "TRANSFER",
		Quantity:     decimal.NewFromInt(1),
	}

	resp, err := suite.service.AppendMovement(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductByID")
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_ZeroQuantity() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementPurchase),
		Quantity:     decimal.Zero,
	}

	resp, err := suite.service.AppendMovement(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_AdjustmentRequiresDirection() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementAdjustment),
		Quantity:     decimal.NewFromInt(2),
	}

	resp, err := suite.service.AppendMovement(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorContains(err, "explicit direction")
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_DirectionConflict() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementPurchase),
		Direction:    string(domain.DirectionDecrease),
		Quantity:     decimal.NewFromInt(2),
	}

	resp, err := suite.service.AppendMovement(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_AdjustmentDecrease() {
	ctx := context.Background()
	productID := uuid.NewString()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementAdjustment),
		Direction:    string(domain.DirectionDecrease),
		Quantity:     decimal.NewFromInt(4),
		Notes:        "breakage during stocktake",
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(trackedProduct(productID), nil).Once()
	suite.mockMovementRepo.On("AppendMovement", ctx, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.MovementType == domain.MovementAdjustment && m.Direction == domain.DirectionDecrease
	}), true).Return(&domain.StockMovement{
		MovementID: uuid.NewString(),
		ProductID:  productID,
		Direction:  domain.DirectionDecrease,
		Quantity:   decimal.NewFromInt(4),
		LevelAfter: decimal.NewFromInt(6),
	}, nil).Once()

	resp, err := suite.service.AppendMovement(ctx, productID, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(resp.LevelAfter.Equal(decimal.NewFromInt(6)))
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_NotInventoryTracked() {
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.IsInventoryItem = false

	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementPurchase),
		Quantity:     decimal.NewFromInt(1),
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.AppendMovement(ctx, productID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "AppendMovement")
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_StrictPolicyRejection() {
	// Strict-policy service: decreases below zero are refused by the repo.
	strictService := services.NewInventoryService(suite.mockMovementRepo, suite.mockProductRepo, false, 5)

	ctx := context.Background()
	productID := uuid.NewString()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementConsumption),
		Quantity:     decimal.NewFromInt(50),
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(trackedProduct(productID), nil).Once()
	suite.mockMovementRepo.On("AppendMovement", ctx, mock.AnythingOfType("domain.StockMovement"), false).
		Return(nil, apperrors.ErrInsufficientStock).Once()

	resp, err := strictService.AppendMovement(ctx, productID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
}

func (suite *InventoryServiceTestSuite) TestAppendMovement_ProductNotFound() {
	ctx := context.Background()
	productID := uuid.NewString()
	req := dto.CreateMovementRequest{
		MovementType: string(domain.MovementPurchase),
		Quantity:     decimal.NewFromInt(1),
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.AppendMovement(ctx, productID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InventoryServiceTestSuite) TestGetStockLevel_LowStock() {
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.StockLevel = decimal.NewFromInt(3)

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.GetStockLevel(ctx, productID)

	suite.Require().NoError(err)
	suite.True(resp.Level.Equal(decimal.NewFromInt(3)))
	suite.True(resp.LowStock)
	suite.False(resp.OutOfStock)
	suite.False(resp.Unlimited)
}

func (suite *InventoryServiceTestSuite) TestGetStockLevel_BoundaryAtThreshold() {
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.StockLevel = decimal.NewFromInt(5)

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.GetStockLevel(ctx, productID)

	suite.Require().NoError(err)
	suite.True(resp.LowStock)
	suite.False(resp.OutOfStock)
}

func (suite *InventoryServiceTestSuite) TestGetStockLevel_AboveThresholdNotLow() {
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.StockLevel = decimal.NewFromInt(6)

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.GetStockLevel(ctx, productID)

	suite.Require().NoError(err)
	suite.False(resp.LowStock)
	suite.False(resp.OutOfStock)
}

func (suite *InventoryServiceTestSuite) TestGetStockLevel_NegativeLevelIsOutOfStockNotLow() {
	// Permissive policy can drive a level negative; that reads as
	// out-of-stock, never low-stock.
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.StockLevel = decimal.NewFromInt(-2)

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.GetStockLevel(ctx, productID)

	suite.Require().NoError(err)
	suite.True(resp.OutOfStock)
	suite.False(resp.LowStock)
	suite.True(resp.Level.Equal(decimal.NewFromInt(-2)))
}

func (suite *InventoryServiceTestSuite) TestGetStockLevel_UntrackedIsUnlimited() {
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.IsInventoryItem = false
	product.StockLevel = decimal.Zero

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.GetStockLevel(ctx, productID)

	suite.Require().NoError(err)
	suite.True(resp.Unlimited)
	suite.False(resp.LowStock)
	suite.False(resp.OutOfStock)
}

func (suite *InventoryServiceTestSuite) TestRebuildStockLevel_Success() {
	ctx := context.Background()
	productID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(trackedProduct(productID), nil).Once()
	suite.mockMovementRepo.On("RebuildStockLevel", ctx, productID, userID, mock.AnythingOfType("time.Time")).
		Return(decimal.NewFromInt(4), nil).Once()

	resp, err := suite.service.RebuildStockLevel(ctx, productID, userID)

	suite.Require().NoError(err)
	suite.True(resp.Level.Equal(decimal.NewFromInt(4)))
	suite.True(resp.LowStock)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRebuildStockLevel_UntrackedRejected() {
	ctx := context.Background()
	productID := uuid.NewString()
	product := trackedProduct(productID)
	product.IsInventoryItem = false

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(product, nil).Once()

	resp, err := suite.service.RebuildStockLevel(ctx, productID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "RebuildStockLevel")
}

func (suite *InventoryServiceTestSuite) TestListMovements_DefaultLimit() {
	ctx := context.Background()
	productID := uuid.NewString()
	movements := []domain.StockMovement{
		{MovementID: uuid.NewString(), ProductID: productID, MovementType: domain.MovementPurchase, Direction: domain.DirectionIncrease, Quantity: decimal.NewFromInt(10), LevelAfter: decimal.NewFromInt(10)},
		{MovementID: uuid.NewString(), ProductID: productID, MovementType: domain.MovementConsumption, Direction: domain.DirectionDecrease, Quantity: decimal.NewFromInt(2), LevelAfter: decimal.NewFromInt(8)},
	}

	suite.mockProductRepo.On("FindProductByID", ctx, productID).Return(trackedProduct(productID), nil).Once()
	suite.mockMovementRepo.On("FindMovementsByProduct", ctx, productID, 50, (*string)(nil)).
		Return(movements, nil, nil).Once()

	resp, err := suite.service.ListMovements(ctx, productID, dto.ListMovementsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Movements, 2)
	suite.Nil(resp.NextToken)
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestListLowStockProducts_Success() {
	ctx := context.Background()
	salonID := uuid.NewString()
	products := []domain.Product{
		{ProductID: uuid.NewString(), Name: "Shampoo", SKU: "SH-01", StockLevel: decimal.NewFromInt(2), IsInventoryItem: true},
		{ProductID: uuid.NewString(), Name: "Conditioner", SKU: "CO-01", StockLevel: decimal.Zero, IsInventoryItem: true},
	}

	suite.mockProductRepo.On("ListLowStockProducts", ctx, salonID, mock.AnythingOfType("decimal.Decimal")).
		Return(products, nil).Once()

	resp, err := suite.service.ListLowStockProducts(ctx, salonID)

	suite.Require().NoError(err)
	suite.Require().Len(resp, 2)
	suite.False(resp[0].OutOfStock)
	suite.True(resp[1].OutOfStock)
}

func (suite *InventoryServiceTestSuite) TestListLowStockProducts_MissingSalonID() {
	resp, err := suite.service.ListLowStockProducts(context.Background(), "")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
