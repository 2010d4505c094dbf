package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/invoicing"
	"github.com/salesdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := dbFromContext(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its unique number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoicing.Invoice, error) {
	var invoice invoicing.Invoice
	if err := dbFromContext(ctx, r.db).First(&invoice, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// NextNumber generates the next sequential invoice number for the prefix,
// e.g. INV-0007 after INV-0006. Call inside the same transaction that saves
// the invoice so two concurrent creates cannot take the same number.
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, prefix string) (string, error) {
	var last string
	err := dbFromContext(ctx, r.db).
		Model(&invoicing.Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Order("length(number) DESC").
		Order("number DESC").
		Limit(1).
		Pluck("number", &last).Error
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// FindAll finds all invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	query := applyFilter(dbFromContext(ctx, r.db).Model(&invoicing.Invoice{}), filter, "number", "customer_name")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindInPeriod finds invoices created in [start, end), for reconciliation
func (r *GormInvoiceRepository) FindInPeriod(ctx context.Context, start, end time.Time) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	if err := dbFromContext(ctx, r.db).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByCustomer finds a customer's invoices
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	query := applyFilter(
		dbFromContext(ctx, r.db).Model(&invoicing.Invoice{}).Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&invoicing.Invoice{}), filter, "number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	return dbFromContext(ctx, r.db).Save(invoice).Error
}

// Delete deletes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&invoicing.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DetachCustomer clears the customer reference on every invoice belonging to
// the customer. Returns the number of detached rows.
func (r *GormInvoiceRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Model(&invoicing.Invoice{}).
		Where("customer_id = ?", customerID).
		Update("customer_id", nil)
	return result.RowsAffected, result.Error
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
