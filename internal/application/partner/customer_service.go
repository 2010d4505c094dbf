package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	creditRepo     partner.CreditTransactionRepository
	saleRepo       sales.SaleRepository
	invoiceRepo    invoicing.InvoiceRepository
	returnRepo     returns.ReturnRepository
	dealRepo       crm.DealRepository
	uow            shared.UnitOfWork
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	creditRepo partner.CreditTransactionRepository,
	saleRepo sales.SaleRepository,
	invoiceRepo invoicing.InvoiceRepository,
	returnRepo returns.ReturnRepository,
	dealRepo crm.DealRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		saleRepo:     saleRepo,
		invoiceRepo:  invoiceRepo,
		returnRepo:   returnRepo,
		dealRepo:     dealRepo,
		uow:          uow,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer's contact information
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer and detaches every document that referenced it.
// Sales, invoices, returns and deals keep the denormalized customer name but
// lose the ID reference; all of it happens in one transaction so a failure
// leaves no half-detached documents.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		detachedSales, err := s.saleRepo.DetachCustomer(txCtx, customerID)
		if err != nil {
			return err
		}
		detachedInvoices, err := s.invoiceRepo.DetachCustomer(txCtx, customerID)
		if err != nil {
			return err
		}
		detachedReturns, err := s.returnRepo.DetachCustomer(txCtx, customerID)
		if err != nil {
			return err
		}
		detachedDeals, err := s.dealRepo.DetachCustomer(txCtx, customerID)
		if err != nil {
			return err
		}

		if err := s.customerRepo.Delete(txCtx, customerID); err != nil {
			return err
		}

		s.logger.Info("customer deleted, references detached",
			zap.String("customer_id", customerID.String()),
			zap.String("customer_name", customer.Name),
			zap.Int64("sales", detachedSales),
			zap.Int64("invoices", detachedInvoices),
			zap.Int64("returns", detachedReturns),
			zap.Int64("deals", detachedDeals),
		)

		return nil
	})
}

// AdjustCredit applies a manual store-credit correction. Positive amounts
// grant credit, negative amounts remove it (bounded by the balance).
func (s *CustomerService) AdjustCredit(ctx context.Context, customerID uuid.UUID, req AdjustCreditRequest) (*CustomerResponse, error) {
	if req.Amount.IsZero() {
		return nil, shared.NewValidationError("Adjustment amount cannot be zero")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var tx *partner.CreditTransaction
	if req.Amount.IsPositive() {
		tx, err = customer.GrantCredit(req.Amount, partner.CreditSourceManual, "")
	} else {
		tx, err = customer.ApplyCredit(req.Amount.Neg(), partner.CreditSourceManual, "")
	}
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		tx.WithRemark(req.Remark)
	}

	if err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.customerRepo.Save(txCtx, customer); err != nil {
			return err
		}
		return s.creditRepo.Create(txCtx, tx)
	}); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetCreditHistory retrieves the store-credit ledger for a customer
func (s *CustomerService) GetCreditHistory(ctx context.Context, customerID uuid.UUID, filter CustomerListFilter) ([]CreditTransactionResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	txs, err := s.creditRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToCreditTransactionResponses(txs), nil
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range customer.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	customer.ClearDomainEvents()
}
