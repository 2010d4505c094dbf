package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// DealService handles sales pipeline business operations
type DealService struct {
	dealRepo     crm.DealRepository
	customerRepo partner.CustomerRepository
}

// NewDealService creates a new DealService
func NewDealService(dealRepo crm.DealRepository, customerRepo partner.CustomerRepository) *DealService {
	return &DealService{
		dealRepo:     dealRepo,
		customerRepo: customerRepo,
	}
}

// Create creates a new deal
func (s *DealService) Create(ctx context.Context, req CreateDealRequest) (*DealResponse, error) {
	customerName := ""
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		customerName = customer.Name
	}

	deal, err := crm.NewDeal(req.Title, req.CustomerID, customerName, req.Value, req.ExpectedCloseDate, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// GetByID retrieves a deal by ID
func (s *DealService) GetByID(ctx context.Context, dealID uuid.UUID) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	response := ToDealResponse(deal)
	return &response, nil
}

// List retrieves deals with filtering and pagination
func (s *DealService) List(ctx context.Context, filter DealListFilter) ([]DealResponse, int64, error) {
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

	var deals []crm.Deal
	var err error
	if filter.Stage != "" {
		deals, err = s.dealRepo.FindByStage(ctx, crm.DealStage(filter.Stage), domainFilter)
	} else {
		deals, err = s.dealRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.dealRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToDealResponses(deals), total, nil
}

// Update updates an open deal
func (s *DealService) Update(ctx context.Context, dealID uuid.UUID, req UpdateDealRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := deal.Update(req.Title, req.Value, req.ExpectedCloseDate, req.Notes); err != nil {
		return nil, err
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// Move advances a deal through the pipeline, optionally overriding the
// stage-default probability
func (s *DealService) Move(ctx context.Context, dealID uuid.UUID, req MoveDealRequest) (*DealResponse, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if err := deal.MoveToStage(crm.DealStage(req.Stage)); err != nil {
		return nil, err
	}
	if req.Probability != nil && !deal.Stage.IsClosed() {
		if err := deal.SetProbability(*req.Probability); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		return nil, err
	}

	response := ToDealResponse(deal)
	return &response, nil
}

// Delete removes a deal
func (s *DealService) Delete(ctx context.Context, dealID uuid.UUID) error {
	if _, err := s.dealRepo.FindByID(ctx, dealID); err != nil {
		return err
	}
	return s.dealRepo.Delete(ctx, dealID)
}
