package persistence

import (
	"context"

	"github.com/salesdesk/backend/internal/domain/catalog"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/partner"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/settings"
	"github.com/salesdesk/backend/internal/domain/snapshot"
	"gorm.io/gorm"
)

// insertBatchSize keeps multi-row inserts under SQLite's bound-variable limit
const insertBatchSize = 100

// GormSnapshotStore implements snapshot.Store on the full schema. Export
// reads every table; ReplaceAll clears and reloads them inside a single
// transaction so a failed import leaves the previous data intact.
type GormSnapshotStore struct {
	db *gorm.DB
}

// NewGormSnapshotStore creates a new GormSnapshotStore
func NewGormSnapshotStore(db *gorm.DB) *GormSnapshotStore {
	return &GormSnapshotStore{db: db}
}

// ExportAll reads every table into a snapshot document
func (s *GormSnapshotStore) ExportAll(ctx context.Context) (*snapshot.Document, error) {
	doc := &snapshot.Document{}
	db := dbFromContext(ctx, s.db)

	reads := []struct {
		dest  interface{}
		order string
	}{
		{&doc.Customers, "created_at ASC"},
		{&doc.CreditTransactions, "created_at ASC"},
		{&doc.Products, "created_at ASC"},
		{&doc.StockMovements, "created_at ASC"},
		{&doc.Sales, "created_at ASC"},
		{&doc.Invoices, "created_at ASC"},
		{&doc.Returns, "created_at ASC"},
		{&doc.Deals, "created_at ASC"},
		{&doc.InvoiceTemplates, "name ASC"},
		{&doc.Settings, "key ASC"},
	}
	for _, read := range reads {
		if err := db.Order(read.order).Find(read.dest).Error; err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// ReplaceAll deletes all rows and inserts the document's, in one transaction
func (s *GormSnapshotStore) ReplaceAll(ctx context.Context, doc *snapshot.Document) error {
	return dbFromContext(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		// Ledger tables first so no movement or credit row ever points at
		// a row that outlived its aggregate mid-import.
		tables := []interface{}{
			&catalog.StockMovement{},
			&partner.CreditTransaction{},
			&returns.Return{},
			&invoicing.Invoice{},
			&sales.Sale{},
			&crm.Deal{},
			&catalog.Product{},
			&partner.Customer{},
			&settings.InvoiceTemplate{},
			&settings.Setting{},
		}
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}

		if err := createAll(tx, doc.Customers); err != nil {
			return err
		}
		if err := createAll(tx, doc.CreditTransactions); err != nil {
			return err
		}
		if err := createAll(tx, doc.Products); err != nil {
			return err
		}
		if err := createAll(tx, doc.StockMovements); err != nil {
			return err
		}
		if err := createAll(tx, doc.Sales); err != nil {
			return err
		}
		if err := createAll(tx, doc.Invoices); err != nil {
			return err
		}
		if err := createAll(tx, doc.Returns); err != nil {
			return err
		}
		if err := createAll(tx, doc.Deals); err != nil {
			return err
		}
		if err := createAll(tx, doc.InvoiceTemplates); err != nil {
			return err
		}
		if err := createAll(tx, doc.Settings); err != nil {
			return err
		}

		return nil
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, insertBatchSize).Error
}

// Ensure GormSnapshotStore implements snapshot.Store
var _ snapshot.Store = (*GormSnapshotStore)(nil)
