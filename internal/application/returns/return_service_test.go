package returns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type passthroughUow struct{}

func (passthroughUow) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.Return), args.Error(1)
}

func (m *MockReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.Return, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]returns.Return), args.Error(1)
}

func (m *MockReturnRepository) FindInPeriod(ctx context.Context, start, end time.Time) ([]returns.Return, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]returns.Return), args.Error(1)
}

func (m *MockReturnRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]returns.Return, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]returns.Return), args.Error(1)
}

func (m *MockReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReturnRepository) Save(ctx context.Context, ret *returns.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReturnRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindInPeriod(ctx context.Context, start, end time.Time) ([]sales.Sale, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movements ...*catalog.StockMovement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.StockMovement, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]catalog.StockMovement), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCreditTransactionRepository struct {
	mock.Mock
}

func (m *MockCreditTransactionRepository) Create(ctx context.Context, tx *partner.CreditTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCreditTransactionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]partner.CreditTransaction, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]partner.CreditTransaction), args.Error(1)
}

type serviceMocks struct {
	returnRepo   *MockReturnRepository
	saleRepo     *MockSaleRepository
	productRepo  *MockProductRepository
	movementRepo *MockStockMovementRepository
	customerRepo *MockCustomerRepository
	creditRepo   *MockCreditTransactionRepository
}

func newTestService() (*ReturnService, *serviceMocks) {
	mocks := &serviceMocks{
		returnRepo:   new(MockReturnRepository),
		saleRepo:     new(MockSaleRepository),
		productRepo:  new(MockProductRepository),
		movementRepo: new(MockStockMovementRepository),
		customerRepo: new(MockCustomerRepository),
		creditRepo:   new(MockCreditTransactionRepository),
	}
	service := NewReturnService(
		mocks.returnRepo, mocks.saleRepo, mocks.productRepo, mocks.movementRepo,
		mocks.customerRepo, mocks.creditRepo, passthroughUow{}, zap.NewNop(),
	)
	return service, mocks
}

func newSoldSale(t *testing.T, productID uuid.UUID, quantity int64) *sales.Sale {
	t.Helper()
	item, err := sales.NewSaleItem(productID, "Widget", quantity, decimal.NewFromInt(25))
	require.NoError(t, err)
	sale, err := sales.NewSale(nil, "", []sales.SaleItem{*item}, decimal.Zero, decimal.Zero, sales.PaymentMethodCash)
	require.NoError(t, err)
	return sale
}

func TestReturnService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("should file a pending return priced from the sale", func(t *testing.T) {
		service, mocks := newTestService()
		productID := uuid.New()
		sale := newSoldSale(t, productID, 4)

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.returnRepo.On("FindBySale", ctx, sale.ID).Return([]returns.Return{}, nil)
		mocks.returnRepo.On("Save", ctx, mock.AnythingOfType("*returns.Return")).Return(nil)

		response, err := service.Create(ctx, CreateReturnRequest{
			SaleID:       sale.ID,
			Items:        []CreateReturnItemInput{{ProductID: productID, Quantity: 2}},
			RefundMethod: "cash",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending", response.Status)
		assert.True(t, response.RefundAmount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("should reject quantities beyond what remains returnable", func(t *testing.T) {
		service, mocks := newTestService()
		productID := uuid.New()
		sale := newSoldSale(t, productID, 4)

		priorItem, err := returns.NewReturnItem(productID, "Widget", 3, decimal.NewFromInt(25), "", returns.ConditionResellable)
		require.NoError(t, err)
		prior, err := returns.NewReturn(sale.ID, nil, "", []returns.ReturnItem{*priorItem}, decimal.NewFromInt(75), returns.RefundMethodCash, "")
		require.NoError(t, err)

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.returnRepo.On("FindBySale", ctx, sale.ID).Return([]returns.Return{*prior}, nil)

		_, err = service.Create(ctx, CreateReturnRequest{
			SaleID:       sale.ID,
			Items:        []CreateReturnItemInput{{ProductID: productID, Quantity: 2}},
			RefundMethod: "cash",
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		mocks.returnRepo.AssertNotCalled(t, "Save")
	})

	t.Run("should reject products not on the sale", func(t *testing.T) {
		service, mocks := newTestService()
		sale := newSoldSale(t, uuid.New(), 4)

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.returnRepo.On("FindBySale", ctx, sale.ID).Return([]returns.Return{}, nil)

		_, err := service.Create(ctx, CreateReturnRequest{
			SaleID:       sale.ID,
			Items:        []CreateReturnItemInput{{ProductID: uuid.New(), Quantity: 1}},
			RefundMethod: "cash",
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestReturnService_Approve(t *testing.T) {
	ctx := context.Background()

	newPendingReturn := func(t *testing.T, productID uuid.UUID, customerID *uuid.UUID, method returns.RefundMethod, condition returns.ItemCondition) *returns.Return {
		t.Helper()
		item, err := returns.NewReturnItem(productID, "Widget", 2, decimal.NewFromInt(25), "", condition)
		require.NoError(t, err)
		ret, err := returns.NewReturn(uuid.New(), customerID, "Acme Corp", []returns.ReturnItem{*item}, decimal.NewFromInt(50), method, "")
		require.NoError(t, err)
		ret.ClearDomainEvents()
		return ret
	}

	t.Run("should restock resellable items", func(t *testing.T) {
		service, mocks := newTestService()

		product, err := catalog.NewProduct("Widget", decimal.NewFromInt(25), nil, 3, 0)
		require.NoError(t, err)
		ret := newPendingReturn(t, product.ID, nil, returns.RefundMethodCash, returns.ConditionResellable)

		mocks.returnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		mocks.productRepo.On("Save", ctx, product).Return(nil)
		mocks.movementRepo.On("Create", ctx, mock.Anything).Return(nil)
		mocks.returnRepo.On("Save", ctx, ret).Return(nil)

		response, err := service.Approve(ctx, ret.ID)

		require.NoError(t, err)
		assert.Equal(t, "approved", response.Status)
		assert.Equal(t, int64(5), product.Stock)
	})

	t.Run("should not restock damaged items", func(t *testing.T) {
		service, mocks := newTestService()
		ret := newPendingReturn(t, uuid.New(), nil, returns.RefundMethodCash, returns.ConditionDamaged)

		mocks.returnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mocks.returnRepo.On("Save", ctx, ret).Return(nil)

		_, err := service.Approve(ctx, ret.ID)

		require.NoError(t, err)
		mocks.productRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("store-credit refund grants credit to the customer", func(t *testing.T) {
		service, mocks := newTestService()

		customer, err := partner.NewCustomer("Acme Corp", "", "", "")
		require.NoError(t, err)
		product, err := catalog.NewProduct("Widget", decimal.NewFromInt(25), nil, 0, 0)
		require.NoError(t, err)
		ret := newPendingReturn(t, product.ID, &customer.ID, returns.RefundMethodStoreCredit, returns.ConditionResellable)

		mocks.returnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mocks.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		mocks.productRepo.On("Save", ctx, product).Return(nil)
		mocks.movementRepo.On("Create", ctx, mock.Anything).Return(nil)
		mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		mocks.customerRepo.On("Save", ctx, customer).Return(nil)
		mocks.creditRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)
		mocks.returnRepo.On("Save", ctx, ret).Return(nil)

		_, err = service.Approve(ctx, ret.ID)

		require.NoError(t, err)
		assert.True(t, customer.StoreCredit.Equal(decimal.NewFromInt(50)))
	})

	t.Run("second approval fails", func(t *testing.T) {
		service, mocks := newTestService()
		ret := newPendingReturn(t, uuid.New(), nil, returns.RefundMethodCash, returns.ConditionDamaged)
		require.NoError(t, ret.Approve())

		mocks.returnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)

		_, err := service.Approve(ctx, ret.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		mocks.returnRepo.AssertNotCalled(t, "Save")
	})
}

func TestReturnService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("should refuse deleting an approved return", func(t *testing.T) {
		service, mocks := newTestService()

		item, err := returns.NewReturnItem(uuid.New(), "Widget", 1, decimal.NewFromInt(25), "", returns.ConditionDamaged)
		require.NoError(t, err)
		ret, err := returns.NewReturn(uuid.New(), nil, "", []returns.ReturnItem{*item}, decimal.NewFromInt(25), returns.RefundMethodCash, "")
		require.NoError(t, err)
		require.NoError(t, ret.Approve())

		mocks.returnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)

		err = service.Delete(ctx, ret.ID)

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		mocks.returnRepo.AssertNotCalled(t, "Delete")
	})
}
