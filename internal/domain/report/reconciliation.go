// Package report computes revenue figures from the raw transaction rows.
// Everything here is a pure function over in-memory snapshots: the dashboard
// recomputes on demand instead of maintaining cached counters, so the numbers
// can never drift from the source of truth.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// Granularity is the bucket size for time series figures
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValid checks if the granularity is valid
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// BucketStart truncates t to the start of its bucket. Weeks start on Monday.
func (g Granularity) BucketStart(t time.Time) time.Time {
	year, month, day := t.Date()
	switch g {
	case GranularityWeek:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(year, month, day-weekday+1, 0, 0, 0, 0, t.Location())
	case GranularityMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	}
}

// Next returns the start of the bucket after the one containing t
func (g Granularity) Next(t time.Time) time.Time {
	start := g.BucketStart(t)
	switch g {
	case GranularityWeek:
		return start.AddDate(0, 0, 7)
	case GranularityMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// RevenueSummary is the reconciled revenue position over a period. Sales and
// paid independent invoices each count once; a sale-linked invoice is the
// same money as its sale and is excluded from gross revenue.
type RevenueSummary struct {
	SalesRevenue   decimal.Decimal `json:"sales_revenue"`
	InvoiceRevenue decimal.Decimal `json:"invoice_revenue"`
	GrossRevenue   decimal.Decimal `json:"gross_revenue"`
	ReturnAmount   decimal.Decimal `json:"return_amount"`
	NetRevenue     decimal.Decimal `json:"net_revenue"`
	COGS           decimal.Decimal `json:"cogs"`
	Profit         decimal.Decimal `json:"profit"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	SaleCount      int             `json:"sale_count"`
	InvoiceCount   int             `json:"invoice_count"`
	ReturnCount    int             `json:"return_count"`
	ItemsSold      int64           `json:"items_sold"`
}

// RevenueBucket is one time-series data point
type RevenueBucket struct {
	Start   time.Time      `json:"start"`
	Summary RevenueSummary `json:"summary"`
}

// Reconcile computes the revenue summary over the given rows. Product costs
// are keyed by product ID; products with no recorded cost contribute zero to
// COGS.
func Reconcile(saleRows []sales.Sale, invoiceRows []invoicing.Invoice, returnRows []returns.Return, costs map[uuid.UUID]decimal.Decimal) RevenueSummary {
	summary := newSummary()

	for i := range saleRows {
		accumulateSale(&summary, &saleRows[i], costs)
	}
	for i := range invoiceRows {
		accumulateInvoice(&summary, &invoiceRows[i])
	}
	for i := range returnRows {
		accumulateReturn(&summary, &returnRows[i])
	}

	finalize(&summary)
	return summary
}

// ReconcileBuckets computes one summary per time bucket between start and
// end. Rows outside the range are ignored; empty buckets are emitted so the
// series has no gaps.
func ReconcileBuckets(saleRows []sales.Sale, invoiceRows []invoicing.Invoice, returnRows []returns.Return, costs map[uuid.UUID]decimal.Decimal, start, end time.Time, granularity Granularity) []RevenueBucket {
	if !granularity.IsValid() {
		granularity = GranularityDay
	}

	buckets := make(map[time.Time]*RevenueSummary)
	bucketFor := func(t time.Time) *RevenueSummary {
		key := granularity.BucketStart(t)
		if s, ok := buckets[key]; ok {
			return s
		}
		s := newSummary()
		buckets[key] = &s
		return &s
	}
	inRange := func(t time.Time) bool {
		return !t.Before(start) && t.Before(end)
	}

	for i := range saleRows {
		if inRange(saleRows[i].CreatedAt) {
			accumulateSale(bucketFor(saleRows[i].CreatedAt), &saleRows[i], costs)
		}
	}
	for i := range invoiceRows {
		if inRange(invoiceRows[i].CreatedAt) {
			accumulateInvoice(bucketFor(invoiceRows[i].CreatedAt), &invoiceRows[i])
		}
	}
	for i := range returnRows {
		if inRange(returnRows[i].CreatedAt) {
			accumulateReturn(bucketFor(returnRows[i].CreatedAt), &returnRows[i])
		}
	}

	result := make([]RevenueBucket, 0, len(buckets))
	for cursor := granularity.BucketStart(start); cursor.Before(end); cursor = granularity.Next(cursor) {
		summary := newSummary()
		if s, ok := buckets[cursor]; ok {
			summary = *s
		}
		finalize(&summary)
		result = append(result, RevenueBucket{Start: cursor, Summary: summary})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })

	return result
}

func newSummary() RevenueSummary {
	return RevenueSummary{
		SalesRevenue:   decimal.Zero,
		InvoiceRevenue: decimal.Zero,
		GrossRevenue:   decimal.Zero,
		ReturnAmount:   decimal.Zero,
		NetRevenue:     decimal.Zero,
		COGS:           decimal.Zero,
		Profit:         decimal.Zero,
		MarginPercent:  decimal.Zero,
	}
}

func accumulateSale(s *RevenueSummary, sale *sales.Sale, costs map[uuid.UUID]decimal.Decimal) {
	if !sale.Status.CountsTowardRevenue() {
		return
	}

	s.SalesRevenue = s.SalesRevenue.Add(sale.Total)
	s.SaleCount++
	for _, item := range sale.Items {
		s.ItemsSold += item.Quantity
		if cost, ok := costs[item.ProductID]; ok {
			s.COGS = s.COGS.Add(cost.Mul(decimal.NewFromInt(item.Quantity)))
		}
	}
}

func accumulateInvoice(s *RevenueSummary, inv *invoicing.Invoice) {
	if !inv.IsIndependent() {
		return
	}
	if inv.Status != invoicing.InvoiceStatusPaid {
		return
	}

	s.InvoiceRevenue = s.InvoiceRevenue.Add(inv.Total)
	s.InvoiceCount++
}

func accumulateReturn(s *RevenueSummary, ret *returns.Return) {
	if !ret.ReducesRevenue() {
		return
	}

	s.ReturnAmount = s.ReturnAmount.Add(ret.RefundAmount)
	s.ReturnCount++
}

func finalize(s *RevenueSummary) {
	s.GrossRevenue = s.SalesRevenue.Add(s.InvoiceRevenue)
	s.NetRevenue = s.GrossRevenue.Sub(s.ReturnAmount)
	s.Profit = s.NetRevenue.Sub(s.COGS)
	if s.NetRevenue.IsPositive() {
		s.MarginPercent = s.Profit.Div(s.NetRevenue).Mul(decimal.NewFromInt(100)).Round(2)
	}
}
