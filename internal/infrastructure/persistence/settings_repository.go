package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/settings"
	"github.com/salesdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get reads one setting by key
func (r *GormSettingRepository) Get(ctx context.Context, key string) (*settings.Setting, error) {
	var setting settings.Setting
	if err := dbFromContext(ctx, r.db).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// GetAll reads all settings
func (r *GormSettingRepository) GetAll(ctx context.Context) ([]settings.Setting, error) {
	var result []settings.Setting
	if err := dbFromContext(ctx, r.db).Order("key ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Set creates or overwrites a setting
func (r *GormSettingRepository) Set(ctx context.Context, setting *settings.Setting) error {
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

// Delete removes a setting
func (r *GormSettingRepository) Delete(ctx context.Context, key string) error {
	result := dbFromContext(ctx, r.db).Delete(&settings.Setting{}, "key = ?", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSettingRepository implements SettingRepository
var _ settings.SettingRepository = (*GormSettingRepository)(nil)

// GormInvoiceTemplateRepository implements InvoiceTemplateRepository using
// GORM
type GormInvoiceTemplateRepository struct {
	db *gorm.DB
}

// NewGormInvoiceTemplateRepository creates a new GormInvoiceTemplateRepository
func NewGormInvoiceTemplateRepository(db *gorm.DB) *GormInvoiceTemplateRepository {
	return &GormInvoiceTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormInvoiceTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.InvoiceTemplate, error) {
	var template settings.InvoiceTemplate
	if err := dbFromContext(ctx, r.db).First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindAll reads all templates
func (r *GormInvoiceTemplateRepository) FindAll(ctx context.Context) ([]settings.InvoiceTemplate, error) {
	var templates []settings.InvoiceTemplate
	if err := dbFromContext(ctx, r.db).Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// FindDefault finds the template marked as default
func (r *GormInvoiceTemplateRepository) FindDefault(ctx context.Context) (*settings.InvoiceTemplate, error) {
	var template settings.InvoiceTemplate
	if err := dbFromContext(ctx, r.db).First(&template, "is_default = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// Save creates or updates a template
func (r *GormInvoiceTemplateRepository) Save(ctx context.Context, template *settings.InvoiceTemplate) error {
	return dbFromContext(ctx, r.db).Save(template).Error
}

// Delete deletes a template
func (r *GormInvoiceTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&settings.InvoiceTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearDefault removes the default flag from every template
func (r *GormInvoiceTemplateRepository) ClearDefault(ctx context.Context) error {
	return dbFromContext(ctx, r.db).
		Model(&settings.InvoiceTemplate{}).
		Where("is_default = ?", true).
		Update("is_default", false).Error
}

// Ensure GormInvoiceTemplateRepository implements InvoiceTemplateRepository
var _ settings.InvoiceTemplateRepository = (*GormInvoiceTemplateRepository)(nil)
