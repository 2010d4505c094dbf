package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SaleService handles sale business operations. Creating a sale deducts
// stock and deleting one restores it; both run as a single unit of work so
// the sale row and its stock movements can never disagree.
type SaleService struct {
	saleRepo       sales.SaleRepository
	productRepo    catalog.ProductRepository
	movementRepo   catalog.StockMovementRepository
	customerRepo   partner.CustomerRepository
	uow            shared.UnitOfWork
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	movementRepo catalog.StockMovementRepository,
	customerRepo partner.CustomerRepository,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
		uow:          uow,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a sale. Every item is checked against current stock before
// anything is written; if any line cannot be fulfilled the whole sale fails
// with INSUFFICIENT_STOCK and no stock moves.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	paymentMethod := sales.PaymentMethod(req.PaymentMethod)
	if !paymentMethod.IsValid() {
		return nil, shared.NewValidationError("Invalid payment method")
	}

	customerName := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		customerName = customer.Name
	}

	var response SaleResponse
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		// Merge duplicate product lines so stock is checked once per product
		quantities := make(map[uuid.UUID]int64)
		order := make([]uuid.UUID, 0, len(req.Items))
		for _, input := range req.Items {
			if _, seen := quantities[input.ProductID]; !seen {
				order = append(order, input.ProductID)
			}
			quantities[input.ProductID] += input.Quantity
		}

		products, err := s.productRepo.FindByIDs(txCtx, order)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		items := make([]sales.SaleItem, 0, len(order))
		for _, productID := range order {
			product, ok := byID[productID]
			if !ok {
				return shared.ErrNotFound
			}
			if !product.CanFulfill(quantities[productID]) {
				return shared.NewInsufficientStockError(product.Name, quantities[productID], product.Stock)
			}
			item, err := sales.NewSaleItem(product.ID, product.Name, quantities[productID], product.Price)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}

		sale, err := sales.NewSale(req.CustomerID, customerName, items, req.Tax, req.Discount, paymentMethod)
		if err != nil {
			return err
		}

		movements := make([]*catalog.StockMovement, 0, len(order))
		for _, productID := range order {
			product := byID[productID]
			movement, err := product.DeductStock(quantities[productID], catalog.MovementSourceSale, sale.ID.String())
			if err != nil {
				return err
			}
			movements = append(movements, movement)
		}

		if err := s.saleRepo.Save(txCtx, sale); err != nil {
			return err
		}
		for _, product := range byID {
			if err := s.productRepo.Save(txCtx, product); err != nil {
				return err
			}
		}
		if err := s.movementRepo.Create(txCtx, movements...); err != nil {
			return err
		}

		s.publishEvents(txCtx, sale)
		response = ToSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
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
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	saleRows, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(saleRows), total, nil
}

// Delete removes a sale and restores the stock it consumed, in one unit of
// work. Products that were deleted since the sale are skipped with a log
// line; their stock is gone with them.
func (s *SaleService) Delete(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		quantities := make(map[uuid.UUID]int64)
		order := make([]uuid.UUID, 0, len(sale.Items))
		for _, item := range sale.Items {
			if _, seen := quantities[item.ProductID]; !seen {
				order = append(order, item.ProductID)
			}
			quantities[item.ProductID] += item.Quantity
		}

		products, err := s.productRepo.FindByIDs(txCtx, order)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		for _, productID := range order {
			product, ok := byID[productID]
			if !ok {
				s.logger.Warn("skipping restock for deleted product",
					zap.String("sale_id", sale.ID.String()),
					zap.String("product_id", productID.String()))
				continue
			}

			movement, err := product.Restock(quantities[productID], catalog.MovementTypeSaleReversal, catalog.MovementSourceSale, sale.ID.String())
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

		if err := s.saleRepo.Delete(txCtx, sale.ID); err != nil {
			return err
		}

		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(txCtx, sales.NewSaleDeletedEvent(sale))
		}

		return nil
	})
}

func (s *SaleService) publishEvents(ctx context.Context, sale *sales.Sale) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, sale.GetDomainEvents()...)
	sale.ClearDomainEvents()
}
