package returns

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReturnService handles sales return business operations. Approval is the
// interesting path: resellable items go back to stock and store-credit
// refunds are granted to the customer, all in one unit of work.
type ReturnService struct {
	returnRepo     returns.ReturnRepository
	saleRepo       sales.SaleRepository
	productRepo    catalog.ProductRepository
	movementRepo   catalog.StockMovementRepository
	customerRepo   partner.CustomerRepository
	creditRepo     partner.CreditTransactionRepository
	uow            shared.UnitOfWork
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returnRepo returns.ReturnRepository,
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	movementRepo catalog.StockMovementRepository,
	customerRepo partner.CustomerRepository,
	creditRepo partner.CreditTransactionRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returnRepo:   returnRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		uow:          uow,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create files a pending return against an existing sale. Returned
// quantities are validated against what the sale actually contained, net of
// returns already filed for it.
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.returnRepo.FindBySale(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}

	// Remaining returnable quantity per product
	remaining := make(map[uuid.UUID]int64)
	soldPrice := make(map[uuid.UUID]decimal.Decimal)
	soldName := make(map[uuid.UUID]string)
	for _, item := range sale.Items {
		remaining[item.ProductID] += item.Quantity
		soldPrice[item.ProductID] = item.UnitPrice
		soldName[item.ProductID] = item.ProductName
	}
	for _, prior := range existing {
		if prior.Status == returns.ReturnStatusRejected {
			continue
		}
		for _, item := range prior.Items {
			remaining[item.ProductID] -= item.Quantity
		}
	}

	items := make([]returns.ReturnItem, 0, len(req.Items))
	itemTotal := decimal.Zero
	for _, input := range req.Items {
		price, sold := soldPrice[input.ProductID]
		if !sold {
			return nil, shared.NewValidationError("Returned product was not part of the sale")
		}
		if input.Quantity > remaining[input.ProductID] {
			return nil, shared.NewValidationError(
				fmt.Sprintf("Cannot return %d of %s: only %d returnable", input.Quantity, soldName[input.ProductID], remaining[input.ProductID]))
		}
		remaining[input.ProductID] -= input.Quantity

		item, err := returns.NewReturnItem(input.ProductID, soldName[input.ProductID], input.Quantity, price, input.Reason, returns.ItemCondition(input.Condition))
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		itemTotal = itemTotal.Add(item.Total)
	}

	refundAmount := itemTotal
	if req.RefundAmount != nil {
		refundAmount = *req.RefundAmount
	}

	ret, err := returns.NewReturn(sale.ID, sale.CustomerID, sale.CustomerName, items, refundAmount, returns.RefundMethod(req.RefundMethod), req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ret)

	response := ToReturnResponse(ret)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// List retrieves returns with filtering and pagination
func (s *ReturnService) List(ctx context.Context, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	rets, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReturnResponses(rets), total, nil
}

// Approve approves a pending return: resellable items restock, store-credit
// refunds grant credit, and the status flip persists, atomically.
func (s *ReturnService) Approve(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	var response ReturnResponse
	err = s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := ret.Approve(); err != nil {
			return err
		}

		for productID, quantity := range ret.RestockableQuantities() {
			product, err := s.productRepo.FindByID(txCtx, productID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					s.logger.Warn("skipping restock for deleted product",
						zap.String("return_id", ret.ID.String()),
						zap.String("product_id", productID.String()))
					continue
				}
				return err
			}

			movement, err := product.Restock(quantity, catalog.MovementTypeReturnRestock, catalog.MovementSourceReturn, ret.ID.String())
			if err != nil {
				return err
			}
			if err := s.productRepo.Save(txCtx, product); err != nil {
				return err
			}
			if err := s.movementRepo.Create(txCtx, movement); err != nil {
				return err
			}
		}

		if ret.RefundMethod == returns.RefundMethodStoreCredit && ret.RefundAmount.IsPositive() {
			if ret.CustomerID == nil {
				return shared.NewDomainError("INVALID_STATE", "Store-credit refund requires a customer")
			}
			customer, err := s.customerRepo.FindByID(txCtx, *ret.CustomerID)
			if err != nil {
				return err
			}
			tx, err := customer.GrantCredit(ret.RefundAmount, partner.CreditSourceReturnRefund, ret.ID.String())
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

		if err := s.returnRepo.Save(txCtx, ret); err != nil {
			return err
		}

		s.publishEvents(txCtx, ret)
		response = ToReturnResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// Reject rejects a pending return; nothing moves
func (s *ReturnService) Reject(ctx context.Context, returnID uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := ret.Reject(req.Reason); err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Complete marks an approved return as paid out
func (s *ReturnService) Complete(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return nil, err
	}

	if err := ret.Complete(); err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Delete removes a pending or rejected return. Approved and completed
// returns already moved stock or credit and cannot be deleted.
func (s *ReturnService) Delete(ctx context.Context, returnID uuid.UUID) error {
	ret, err := s.returnRepo.FindByID(ctx, returnID)
	if err != nil {
		return err
	}

	if ret.Status == returns.ReturnStatusApproved || ret.Status == returns.ReturnStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot delete a %s return", ret.Status))
	}

	return s.returnRepo.Delete(ctx, returnID)
}

func (s *ReturnService) publishEvents(ctx context.Context, ret *returns.Return) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, ret.GetDomainEvents()...)
	ret.ClearDomainEvents()
}
