package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/settings"
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

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoicing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]invoicing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInPeriod(ctx context.Context, start, end time.Time) ([]invoicing.Invoice, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]invoicing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
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

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.InvoiceTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context) ([]settings.InvoiceTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]settings.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindDefault(ctx context.Context) (*settings.InvoiceTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *settings.InvoiceTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) ClearDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type serviceMocks struct {
	invoiceRepo  *MockInvoiceRepository
	saleRepo     *MockSaleRepository
	customerRepo *MockCustomerRepository
	creditRepo   *MockCreditTransactionRepository
	templateRepo *MockTemplateRepository
}

func newTestService() (*InvoiceService, *serviceMocks) {
	mocks := &serviceMocks{
		invoiceRepo:  new(MockInvoiceRepository),
		saleRepo:     new(MockSaleRepository),
		customerRepo: new(MockCustomerRepository),
		creditRepo:   new(MockCreditTransactionRepository),
		templateRepo: new(MockTemplateRepository),
	}
	service := NewInvoiceService(
		mocks.invoiceRepo, mocks.saleRepo, mocks.customerRepo,
		mocks.creditRepo, mocks.templateRepo, passthroughUow{}, zap.NewNop(),
	)
	return service, mocks
}

func newStoredInvoice(t *testing.T, customerID *uuid.UUID, total int64) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice("INV-0001", customerID, "Acme Corp", nil, []invoicing.InvoiceItem{
		{Description: "Consulting", Quantity: 1, UnitPrice: decimal.NewFromInt(total), Total: decimal.NewFromInt(total)},
	}, decimal.Zero, decimal.Zero, invoicing.InvoiceTypeStandard, "USD")
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("should create independent invoice with generated number", func(t *testing.T) {
		service, mocks := newTestService()
		mocks.templateRepo.On("FindDefault", ctx).Return(nil, shared.ErrNotFound)
		mocks.invoiceRepo.On("NextNumber", ctx, "INV-").Return("INV-0007", nil)
		mocks.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		response, err := service.Create(ctx, CreateInvoiceRequest{
			Items: []CreateInvoiceItemInput{
				{Description: "Consulting", Quantity: 2, UnitPrice: decimal.NewFromInt(150)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "INV-0007", response.Number)
		assert.True(t, response.Total.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, "unpaid", response.PaymentStatus)
		assert.Nil(t, response.SaleID)
	})

	t.Run("should link sale-backed invoice both ways", func(t *testing.T) {
		service, mocks := newTestService()

		item, err := sales.NewSaleItem(uuid.New(), "Widget", 1, decimal.NewFromInt(100))
		require.NoError(t, err)
		sale, err := sales.NewSale(nil, "", []sales.SaleItem{*item}, decimal.Zero, decimal.Zero, sales.PaymentMethodCash)
		require.NoError(t, err)

		mocks.templateRepo.On("FindDefault", ctx).Return(nil, shared.ErrNotFound)
		mocks.invoiceRepo.On("NextNumber", ctx, "INV-").Return("INV-0008", nil)
		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.saleRepo.On("Save", ctx, sale).Return(nil)
		mocks.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

		response, err := service.Create(ctx, CreateInvoiceRequest{
			SaleID: &sale.ID,
			Items: []CreateInvoiceItemInput{
				{Description: "Widget", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
			},
		})

		require.NoError(t, err)
		require.NotNil(t, sale.InvoiceID)
		assert.Equal(t, response.ID, *sale.InvoiceID)
	})

	t.Run("should refuse a second invoice for the same sale", func(t *testing.T) {
		service, mocks := newTestService()

		item, err := sales.NewSaleItem(uuid.New(), "Widget", 1, decimal.NewFromInt(100))
		require.NoError(t, err)
		sale, err := sales.NewSale(nil, "", []sales.SaleItem{*item}, decimal.Zero, decimal.Zero, sales.PaymentMethodCash)
		require.NoError(t, err)
		require.NoError(t, sale.LinkInvoice(uuid.New()))

		mocks.templateRepo.On("FindDefault", ctx).Return(nil, shared.ErrNotFound)
		mocks.invoiceRepo.On("NextNumber", ctx, "INV-").Return("INV-0009", nil)
		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		_, err = service.Create(ctx, CreateInvoiceRequest{
			SaleID: &sale.ID,
			Items: []CreateInvoiceItemInput{
				{Description: "Widget", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
			},
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		mocks.invoiceRepo.AssertNotCalled(t, "Save")
	})
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist a valid payment", func(t *testing.T) {
		service, mocks := newTestService()
		inv := newStoredInvoice(t, nil, 100)
		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		mocks.invoiceRepo.On("Save", ctx, inv).Return(nil)

		response, err := service.RecordPayment(ctx, inv.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(60),
			Method: "cash",
		})

		require.NoError(t, err)
		assert.Equal(t, "partial", response.PaymentStatus)
		assert.True(t, response.Balance.Equal(decimal.NewFromInt(40)))
	})

	t.Run("should not persist a rejected overpay attempt", func(t *testing.T) {
		service, mocks := newTestService()
		inv := newStoredInvoice(t, nil, 100)
		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

		_, err := service.RecordPayment(ctx, inv.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(101),
		})

		assert.ErrorIs(t, err, shared.ErrPaymentExceedsTotal)
		mocks.invoiceRepo.AssertNotCalled(t, "Save")
	})
}

func TestInvoiceService_ApplyCustomerCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("should move credit from customer to invoice atomically", func(t *testing.T) {
		service, mocks := newTestService()

		customer, err := partner.NewCustomer("Acme Corp", "", "", "")
		require.NoError(t, err)
		_, err = customer.GrantCredit(decimal.NewFromInt(80), partner.CreditSourceManual, "")
		require.NoError(t, err)

		inv := newStoredInvoice(t, &customer.ID, 100)

		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		mocks.invoiceRepo.On("Save", ctx, inv).Return(nil)
		mocks.customerRepo.On("Save", ctx, customer).Return(nil)
		mocks.creditRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)

		response, err := service.ApplyCustomerCredit(ctx, inv.ID, ApplyCreditRequest{
			Amount: decimal.NewFromInt(50),
		})

		require.NoError(t, err)
		assert.Equal(t, "partial", response.PaymentStatus)
		assert.True(t, customer.StoreCredit.Equal(decimal.NewFromInt(30)))
		mocks.creditRepo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("should reject credit beyond invoice balance", func(t *testing.T) {
		service, mocks := newTestService()

		customer, err := partner.NewCustomer("Acme Corp", "", "", "")
		require.NoError(t, err)
		_, err = customer.GrantCredit(decimal.NewFromInt(500), partner.CreditSourceManual, "")
		require.NoError(t, err)

		inv := newStoredInvoice(t, &customer.ID, 100)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(90), "cash"))

		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err = service.ApplyCustomerCredit(ctx, inv.ID, ApplyCreditRequest{
			Amount: decimal.NewFromInt(11),
		})

		assert.ErrorIs(t, err, shared.ErrAmountExceedsBalance)
		assert.True(t, customer.StoreCredit.Equal(decimal.NewFromInt(500)))
		mocks.creditRepo.AssertNotCalled(t, "Create")
	})

	t.Run("should reject credit beyond customer balance", func(t *testing.T) {
		service, mocks := newTestService()

		customer, err := partner.NewCustomer("Acme Corp", "", "", "")
		require.NoError(t, err)
		_, err = customer.GrantCredit(decimal.NewFromInt(10), partner.CreditSourceManual, "")
		require.NoError(t, err)

		inv := newStoredInvoice(t, &customer.ID, 100)

		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err = service.ApplyCustomerCredit(ctx, inv.ID, ApplyCreditRequest{
			Amount: decimal.NewFromInt(50),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientCredit)
		mocks.invoiceRepo.AssertNotCalled(t, "Save")
	})

	t.Run("should require a customer on the invoice", func(t *testing.T) {
		service, mocks := newTestService()
		inv := newStoredInvoice(t, nil, 100)
		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

		_, err := service.ApplyCustomerCredit(ctx, inv.ID, ApplyCreditRequest{
			Amount: decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestInvoiceService_ResolveOverpayment(t *testing.T) {
	ctx := context.Background()

	newOverpaidInvoice := func(t *testing.T, customerID *uuid.UUID) *invoicing.Invoice {
		t.Helper()
		inv := newStoredInvoice(t, customerID, 100)
		inv.PaidAmount = decimal.NewFromInt(130)
		return inv
	}

	t.Run("store_credit action grants excess to the customer", func(t *testing.T) {
		service, mocks := newTestService()

		customer, err := partner.NewCustomer("Acme Corp", "", "", "")
		require.NoError(t, err)
		inv := newOverpaidInvoice(t, &customer.ID)

		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		mocks.customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		mocks.customerRepo.On("Save", ctx, customer).Return(nil)
		mocks.creditRepo.On("Create", ctx, mock.AnythingOfType("*partner.CreditTransaction")).Return(nil)
		mocks.invoiceRepo.On("Save", ctx, inv).Return(nil)

		response, err := service.ResolveOverpayment(ctx, inv.ID, ResolveOverpaymentRequest{Action: "store_credit"})

		require.NoError(t, err)
		require.NotNil(t, response.ResolutionAction)
		assert.Equal(t, "store_credit", *response.ResolutionAction)
		assert.True(t, customer.StoreCredit.Equal(decimal.NewFromInt(30)))
	})

	t.Run("keep action records the resolution without touching credit", func(t *testing.T) {
		service, mocks := newTestService()
		inv := newOverpaidInvoice(t, nil)

		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)
		mocks.invoiceRepo.On("Save", ctx, inv).Return(nil)

		response, err := service.ResolveOverpayment(ctx, inv.ID, ResolveOverpaymentRequest{Action: "keep"})

		require.NoError(t, err)
		require.NotNil(t, response.ResolutionAction)
		assert.Equal(t, "keep", *response.ResolutionAction)
		mocks.customerRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("second resolution fails", func(t *testing.T) {
		service, mocks := newTestService()
		inv := newOverpaidInvoice(t, nil)
		_, err := inv.ResolveOverpayment(invoicing.ResolutionKeep)
		require.NoError(t, err)

		mocks.invoiceRepo.On("FindByID", ctx, inv.ID).Return(inv, nil)

		_, err = service.ResolveOverpayment(ctx, inv.ID, ResolveOverpaymentRequest{Action: "refunded"})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		mocks.invoiceRepo.AssertNotCalled(t, "Save")
	})
}
