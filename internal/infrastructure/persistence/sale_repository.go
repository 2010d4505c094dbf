package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/sales"
	"github.com/salesdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := dbFromContext(ctx, r.db).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := applyFilter(dbFromContext(ctx, r.db).Model(&sales.Sale{}), filter, "customer_name")
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindInPeriod finds sales created in [start, end), for reconciliation
func (r *GormSaleRepository) FindInPeriod(ctx context.Context, start, end time.Time) ([]sales.Sale, error) {
	var result []sales.Sale
	if err := dbFromContext(ctx, r.db).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByCustomer finds a customer's sales
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := applyFilter(
		dbFromContext(ctx, r.db).Model(&sales.Sale{}).Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&sales.Sale{}), filter, "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return dbFromContext(ctx, r.db).Save(sale).Error
}

// Delete deletes a sale
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&sales.Sale{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DetachCustomer clears the customer reference on every sale belonging to
// the customer, keeping the denormalized customer name for history. Returns
// the number of detached rows.
func (r *GormSaleRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Model(&sales.Sale{}).
		Where("customer_id = ?", customerID).
		Update("customer_id", nil)
	return result.RowsAffected, result.Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
