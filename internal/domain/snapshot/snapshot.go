// Package snapshot defines the full-database export document and the store
// contract for replacing the database with one. A snapshot is the unit of
// backup and transfer: one JSON document holding every table.
package snapshot

import (
	"context"
	"time"

	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/settings"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// Document is the complete exported state. Ledger tables (credit
// transactions, stock movements) ride along for audit fidelity; import
// tolerates their absence since the materialized balances are on the
// aggregates themselves.
type Document struct {
	ExportedAt         time.Time                   `json:"exportedAt"`
	Customers          []partner.Customer          `json:"customers"`
	CreditTransactions []partner.CreditTransaction `json:"creditTransactions,omitempty"`
	Products           []catalog.Product           `json:"products"`
	StockMovements     []catalog.StockMovement     `json:"stockMovements,omitempty"`
	Sales              []sales.Sale                `json:"sales"`
	Invoices           []invoicing.Invoice         `json:"invoices"`
	Returns            []returns.Return            `json:"returns,omitempty"`
	Deals              []crm.Deal                  `json:"deals,omitempty"`
	InvoiceTemplates   []settings.InvoiceTemplate  `json:"invoiceTemplates,omitempty"`
	Settings           []settings.Setting          `json:"settings,omitempty"`
}

// Validate rejects documents that would violate ledger invariants before any
// row is written
func (d *Document) Validate() error {
	for i := range d.Products {
		if d.Products[i].Stock < 0 {
			return shared.NewValidationError("Snapshot contains a product with negative stock")
		}
	}
	for i := range d.Customers {
		if d.Customers[i].StoreCredit.IsNegative() {
			return shared.NewValidationError("Snapshot contains a customer with negative store credit")
		}
	}
	for i := range d.Invoices {
		if d.Invoices[i].PaidAmount.IsNegative() {
			return shared.NewValidationError("Snapshot contains an invoice with negative paid amount")
		}
	}
	return nil
}

// Store reads and replaces the entire database
type Store interface {
	// ExportAll reads every table into a document
	ExportAll(ctx context.Context) (*Document, error)
	// ReplaceAll deletes all rows and inserts the document's, in one
	// transaction; on error the previous state survives untouched
	ReplaceAll(ctx context.Context, doc *Document) error
}
