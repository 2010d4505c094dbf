package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/returns"
	"github.com/salesdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.Return, error) {
	var ret returns.Return
	if err := dbFromContext(ctx, r.db).First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAll finds all returns matching the filter
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.Return, error) {
	var result []returns.Return
	query := applyFilter(dbFromContext(ctx, r.db).Model(&returns.Return{}), filter, "customer_name")
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindInPeriod finds returns created in [start, end), for reconciliation
func (r *GormReturnRepository) FindInPeriod(ctx context.Context, start, end time.Time) ([]returns.Return, error) {
	var result []returns.Return
	if err := dbFromContext(ctx, r.db).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindBySale finds all returns filed against a sale
func (r *GormReturnRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]returns.Return, error) {
	var result []returns.Return
	if err := dbFromContext(ctx, r.db).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Count counts returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&returns.Return{}), filter, "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a return
func (r *GormReturnRepository) Save(ctx context.Context, ret *returns.Return) error {
	return dbFromContext(ctx, r.db).Save(ret).Error
}

// Delete deletes a return
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&returns.Return{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DetachCustomer clears the customer reference on every return belonging to
// the customer. Returns the number of detached rows.
func (r *GormReturnRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Model(&returns.Return{}).
		Where("customer_id = ?", customerID).
		Update("customer_id", nil)
	return result.RowsAffected, result.Error
}

// Ensure GormReturnRepository implements ReturnRepository
var _ returns.ReturnRepository = (*GormReturnRepository)(nil)
