package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/report"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Period is a named dashboard reporting window
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Range resolves the period to a half-open [start, end) window ending now
func (p Period) Range(now time.Time) (time.Time, time.Time, error) {
	end := now
	switch p {
	case PeriodToday:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), end, nil
	case PeriodWeek:
		return report.GranularityWeek.BucketStart(now), end, nil
	case PeriodMonth:
		return report.GranularityMonth.BucketStart(now), end, nil
	case PeriodYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), end, nil
	default:
		return time.Time{}, time.Time{}, shared.NewValidationError("Invalid period")
	}
}

// DashboardStats is the full dashboard payload, recomputed from source rows
// on every request
type DashboardStats struct {
	Period        string                 `json:"period"`
	Start         time.Time              `json:"start"`
	End           time.Time              `json:"end"`
	Revenue       report.RevenueSummary  `json:"revenue"`
	Series        []report.RevenueBucket `json:"series"`
	LowStockCount int                    `json:"low_stock_count"`
	PipelineValue decimal.Decimal        `json:"pipeline_value"`
	OpenDeals     int                    `json:"open_deals"`
}

// DashboardService computes dashboard figures from the transaction stores
type DashboardService struct {
	saleRepo    sales.SaleRepository
	invoiceRepo invoicing.InvoiceRepository
	returnRepo  returns.ReturnRepository
	productRepo catalog.ProductRepository
	dealRepo    crm.DealRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	saleRepo sales.SaleRepository,
	invoiceRepo invoicing.InvoiceRepository,
	returnRepo returns.ReturnRepository,
	productRepo catalog.ProductRepository,
	dealRepo crm.DealRepository,
) *DashboardService {
	return &DashboardService{
		saleRepo:    saleRepo,
		invoiceRepo: invoiceRepo,
		returnRepo:  returnRepo,
		productRepo: productRepo,
		dealRepo:    dealRepo,
		now:         time.Now,
	}
}

// GetDashboardStats reconciles revenue for the named period and attaches
// stock and pipeline indicators
func (s *DashboardService) GetDashboardStats(ctx context.Context, period Period) (*DashboardStats, error) {
	start, end, err := period.Range(s.now())
	if err != nil {
		return nil, err
	}

	granularity := report.GranularityDay
	if period == PeriodYear {
		granularity = report.GranularityMonth
	}

	return s.compute(ctx, string(period), start, end, granularity)
}

// GetRevenueReport reconciles revenue over an explicit window with the given
// bucket granularity
func (s *DashboardService) GetRevenueReport(ctx context.Context, start, end time.Time, granularity report.Granularity) (*DashboardStats, error) {
	if !end.After(start) {
		return nil, shared.NewValidationError("End of the reporting window must be after its start")
	}
	if !granularity.IsValid() {
		return nil, shared.NewValidationError("Invalid granularity")
	}

	return s.compute(ctx, "custom", start, end, granularity)
}

func (s *DashboardService) compute(ctx context.Context, label string, start, end time.Time, granularity report.Granularity) (*DashboardStats, error) {
	saleRows, err := s.saleRepo.FindInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	invoiceRows, err := s.invoiceRepo.FindInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}
	returnRows, err := s.returnRepo.FindInPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	costs, err := s.loadCosts(ctx, saleRows)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	pipelineValue, openDeals, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Period:        label,
		Start:         start,
		End:           end,
		Revenue:       report.Reconcile(saleRows, invoiceRows, returnRows, costs),
		Series:        report.ReconcileBuckets(saleRows, invoiceRows, returnRows, costs, start, end, granularity),
		LowStockCount: len(lowStock),
		PipelineValue: pipelineValue,
		OpenDeals:     openDeals,
	}, nil
}

// loadCosts resolves current product costs for the products the sales touch.
// Costs are read as of now, not as of the sale; the desktop ledger has no
// cost history to draw on.
func (s *DashboardService) loadCosts(ctx context.Context, saleRows []sales.Sale) (map[uuid.UUID]decimal.Decimal, error) {
	idSet := make(map[uuid.UUID]struct{})
	for i := range saleRows {
		for _, item := range saleRows[i].Items {
			idSet[item.ProductID] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	costs := make(map[uuid.UUID]decimal.Decimal, len(products))
	for i := range products {
		if products[i].Cost != nil {
			costs[products[i].ID] = *products[i].Cost
		}
	}
	return costs, nil
}

func (s *DashboardService) pipeline(ctx context.Context) (decimal.Decimal, int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 1000

	deals, err := s.dealRepo.FindAll(ctx, filter)
	if err != nil {
		return decimal.Zero, 0, err
	}

	total := decimal.Zero
	open := 0
	for i := range deals {
		if deals[i].Stage.IsClosed() {
			continue
		}
		total = total.Add(deals[i].WeightedValue())
		open++
	}
	return total, open, nil
}
