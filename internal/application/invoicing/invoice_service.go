package invoicing

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/settings"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles invoice business operations, including the payment
// lifecycle and overpayment resolution
type InvoiceService struct {
	invoiceRepo    invoicing.InvoiceRepository
	saleRepo       sales.SaleRepository
	customerRepo   partner.CustomerRepository
	creditRepo     partner.CreditTransactionRepository
	templateRepo   settings.InvoiceTemplateRepository
	uow            shared.UnitOfWork
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
	fallbackPrefix string
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	saleRepo sales.SaleRepository,
	customerRepo partner.CustomerRepository,
	creditRepo partner.CreditTransactionRepository,
	templateRepo settings.InvoiceTemplateRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		templateRepo: templateRepo,
		uow:          uow,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDefaultNumberPrefix overrides the built-in INV- fallback used when no
// default template carries a prefix
func (s *InvoiceService) SetDefaultNumberPrefix(prefix string) {
	s.fallbackPrefix = prefix
}

// Create creates an invoice, either independent or raised for a sale. A
// sale-linked invoice links the sale back to it atomically; a sale already
// carrying an invoice fails with INVALID_STATE.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceType := invoicing.InvoiceTypeStandard
	if req.InvoiceType != "" {
		invoiceType = invoicing.InvoiceType(req.InvoiceType)
	}

	customerName := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		customerName = customer.Name
	}

	items := make([]invoicing.InvoiceItem, 0, len(req.Items))
	for _, input := range req.Items {
		items = append(items, invoicing.InvoiceItem{
			ProductID:   input.ProductID,
			Description: input.Description,
			Quantity:    input.Quantity,
			UnitPrice:   input.UnitPrice,
			Total:       input.UnitPrice.Mul(decimal.NewFromInt(input.Quantity)),
		})
	}

	var response InvoiceResponse
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		number, err := s.invoiceRepo.NextNumber(txCtx, s.numberPrefix(txCtx))
		if err != nil {
			return err
		}

		inv, err := invoicing.NewInvoice(number, req.CustomerID, customerName, req.SaleID, items, req.Tax, req.Discount, invoiceType, req.Currency)
		if err != nil {
			return err
		}
		if req.DueDate != nil {
			inv.SetDueDate(*req.DueDate)
		}

		if req.SaleID != nil {
			sale, err := s.saleRepo.FindByID(txCtx, *req.SaleID)
			if err != nil {
				return err
			}
			if err := sale.LinkInvoice(inv.ID); err != nil {
				return err
			}
			if err := s.saleRepo.Save(txCtx, sale); err != nil {
				return err
			}
		}

		if err := s.invoiceRepo.Save(txCtx, inv); err != nil {
			return err
		}

		s.publishEvents(txCtx, inv)
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
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
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceResponses(invoices), total, nil
}

// RecordPayment applies a direct payment to an invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.RecordPayment(req.Amount, req.Method); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// ApplyCustomerCredit pays part of an invoice with the customer's store
// credit. The credit deduction, its ledger row, the invoice payment and both
// saves happen in one transaction.
func (s *InvoiceService) ApplyCustomerCredit(ctx context.Context, invoiceID uuid.UUID, req ApplyCreditRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CustomerID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice has no customer to draw credit from")
	}

	var response InvoiceResponse
	err = s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		customer, err := s.customerRepo.FindByID(txCtx, *inv.CustomerID)
		if err != nil {
			return err
		}

		// Invoice-side bound first so the error names the tighter constraint
		if err := inv.ApplyStoreCredit(req.Amount); err != nil {
			return err
		}

		tx, err := customer.ApplyCredit(req.Amount, partner.CreditSourceInvoicePayment, inv.ID.String())
		if err != nil {
			return err
		}

		if err := s.invoiceRepo.Save(txCtx, inv); err != nil {
			return err
		}
		if err := s.customerRepo.Save(txCtx, customer); err != nil {
			return err
		}
		if err := s.creditRepo.Create(txCtx, tx); err != nil {
			return err
		}

		s.publishEvents(txCtx, inv)
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// ResolveOverpayment resolves an overpaid invoice exactly once. The
// store_credit action grants the excess to the customer inside the same
// transaction that persists the resolution marker.
func (s *InvoiceService) ResolveOverpayment(ctx context.Context, invoiceID uuid.UUID, req ResolveOverpaymentRequest) (*InvoiceResponse, error) {
	action := invoicing.ResolutionAction(req.Action)

	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	var response InvoiceResponse
	err = s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		excess, err := inv.ResolveOverpayment(action)
		if err != nil {
			return err
		}

		if action == invoicing.ResolutionStoreCredit {
			if inv.CustomerID == nil {
				return shared.NewDomainError("INVALID_STATE", "Invoice has no customer to grant credit to")
			}
			customer, err := s.customerRepo.FindByID(txCtx, *inv.CustomerID)
			if err != nil {
				return err
			}
			tx, err := customer.GrantCredit(excess, partner.CreditSourceInvoiceOverpayment, inv.ID.String())
			if err != nil {
				return err
			}
			if err := s.customerRepo.Save(txCtx, customer); err != nil {
				return err
			}
			if err := s.creditRepo.Create(txCtx, tx); err != nil {
				return err
			}
		}

		if err := s.invoiceRepo.Save(txCtx, inv); err != nil {
			return err
		}

		s.logger.Info("overpayment resolved",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("action", string(action)),
			zap.String("excess", excess.String()))

		s.publishEvents(txCtx, inv)
		response = ToInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// MarkSent transitions an invoice to sent
func (s *InvoiceService) MarkSent(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*invoicing.Invoice).MarkSent)
}

// MarkOverdue flags an invoice past its due date
func (s *InvoiceService) MarkOverdue(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*invoicing.Invoice).MarkOverdue)
}

// Cancel cancels an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, invoiceID, (*invoicing.Invoice).Cancel)
}

// Delete removes an invoice and unlinks any sale pointing at it
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if inv.SaleID != nil {
			sale, err := s.saleRepo.FindByID(txCtx, *inv.SaleID)
			if err == nil && sale.InvoiceID != nil && *sale.InvoiceID == inv.ID {
				sale.InvoiceID = nil
				if err := s.saleRepo.Save(txCtx, sale); err != nil {
					return err
				}
			}
		}
		return s.invoiceRepo.Delete(txCtx, inv.ID)
	})
}

func (s *InvoiceService) transition(ctx context.Context, invoiceID uuid.UUID, fn func(*invoicing.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := fn(inv); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// numberPrefix reads the configured prefix from the default template,
// falling back to INV- when none exists
func (s *InvoiceService) numberPrefix(ctx context.Context) string {
	template, err := s.templateRepo.FindDefault(ctx)
	if err == nil && template.NumberPrefix != "" {
		return template.NumberPrefix
	}
	if s.fallbackPrefix != "" {
		return s.fallbackPrefix
	}
	return "INV-"
}

func (s *InvoiceService) publishEvents(ctx context.Context, inv *invoicing.Invoice) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, inv.GetDomainEvents()...)
	inv.ClearDomainEvents()
}
