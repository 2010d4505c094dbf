package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/crm"
	"github.com/salesdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDealRepository implements DealRepository using GORM
type GormDealRepository struct {
	db *gorm.DB
}

// NewGormDealRepository creates a new GormDealRepository
func NewGormDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// FindByID finds a deal by its ID
func (r *GormDealRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Deal, error) {
	var deal crm.Deal
	if err := dbFromContext(ctx, r.db).First(&deal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &deal, nil
}

// FindAll finds all deals matching the filter
func (r *GormDealRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Deal, error) {
	var deals []crm.Deal
	query := applyFilter(dbFromContext(ctx, r.db).Model(&crm.Deal{}), filter, "title", "customer_name")
	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByStage finds deals in a pipeline stage
func (r *GormDealRepository) FindByStage(ctx context.Context, stage crm.DealStage, filter shared.Filter) ([]crm.Deal, error) {
	var deals []crm.Deal
	query := applyFilter(
		dbFromContext(ctx, r.db).Model(&crm.Deal{}).Where("stage = ?", stage),
		filter, "title", "customer_name",
	)
	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// FindByCustomer finds a customer's deals
func (r *GormDealRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]crm.Deal, error) {
	var deals []crm.Deal
	query := applyFilter(
		dbFromContext(ctx, r.db).Model(&crm.Deal{}).Where("customer_id = ?", customerID),
		filter,
	)
	if err := query.Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// Count counts deals matching the filter
func (r *GormDealRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&crm.Deal{}), filter, "title", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a deal
func (r *GormDealRepository) Save(ctx context.Context, deal *crm.Deal) error {
	return dbFromContext(ctx, r.db).Save(deal).Error
}

// Delete deletes a deal
func (r *GormDealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&crm.Deal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DetachCustomer clears the customer reference on every deal belonging to
// the customer. Returns the number of detached rows.
func (r *GormDealRepository) DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Model(&crm.Deal{}).
		Where("customer_id = ?", customerID).
		Update("customer_id", nil)
	return result.RowsAffected, result.Error
}

// Ensure GormDealRepository implements DealRepository
var _ crm.DealRepository = (*GormDealRepository)(nil)
