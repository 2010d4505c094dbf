package settings

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/settings"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// SettingsService manages application preferences and invoice templates
type SettingsService struct {
	settingRepo  settings.SettingRepository
	templateRepo settings.InvoiceTemplateRepository
	uow          shared.UnitOfWork
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settingRepo settings.SettingRepository,
	templateRepo settings.InvoiceTemplateRepository,
	uow shared.UnitOfWork,
) *SettingsService {
	return &SettingsService{
		settingRepo:  settingRepo,
		templateRepo: templateRepo,
		uow:          uow,
	}
}

// GetSetting reads one setting by key
func (s *SettingsService) GetSetting(ctx context.Context, key string) (*settings.Setting, error) {
	return s.settingRepo.Get(ctx, key)
}

// ListSettings reads all settings
func (s *SettingsService) ListSettings(ctx context.Context) ([]settings.Setting, error) {
	return s.settingRepo.GetAll(ctx)
}

// PutSetting creates or overwrites a setting
func (s *SettingsService) PutSetting(ctx context.Context, key, value string) (*settings.Setting, error) {
	setting, err := settings.NewSetting(key, value)
	if err != nil {
		return nil, err
	}
	if err := s.settingRepo.Set(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

// DeleteSetting removes a setting
func (s *SettingsService) DeleteSetting(ctx context.Context, key string) error {
	return s.settingRepo.Delete(ctx, key)
}

// CreateTemplateRequest represents a request to create an invoice template
type CreateTemplateRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	CompanyName  string `json:"company_name" binding:"omitempty,max=200"`
	CompanyLogo  string `json:"company_logo"`
	HeaderText   string `json:"header_text"`
	FooterText   string `json:"footer_text"`
	AccentColor  string `json:"accent_color" binding:"omitempty,max=20"`
	NumberPrefix string `json:"number_prefix" binding:"omitempty,max=20"`
	IsDefault    bool   `json:"is_default"`
}

// CreateTemplate creates an invoice template, optionally making it the default
func (s *SettingsService) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*settings.InvoiceTemplate, error) {
	template, err := settings.NewInvoiceTemplate(req.Name, req.CompanyName)
	if err != nil {
		return nil, err
	}
	if err := template.Update(req.Name, req.CompanyName, req.CompanyLogo, req.HeaderText, req.FooterText, req.AccentColor, req.NumberPrefix); err != nil {
		return nil, err
	}

	if err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if req.IsDefault {
			if err := s.templateRepo.ClearDefault(txCtx); err != nil {
				return err
			}
			template.MarkDefault()
		}
		return s.templateRepo.Save(txCtx, template)
	}); err != nil {
		return nil, err
	}

	return template, nil
}

// UpdateTemplate updates an invoice template
func (s *SettingsService) UpdateTemplate(ctx context.Context, templateID uuid.UUID, req CreateTemplateRequest) (*settings.InvoiceTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if err := template.Update(req.Name, req.CompanyName, req.CompanyLogo, req.HeaderText, req.FooterText, req.AccentColor, req.NumberPrefix); err != nil {
		return nil, err
	}

	if err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if req.IsDefault && !template.IsDefault {
			if err := s.templateRepo.ClearDefault(txCtx); err != nil {
				return err
			}
			template.MarkDefault()
		}
		return s.templateRepo.Save(txCtx, template)
	}); err != nil {
		return nil, err
	}

	return template, nil
}

// ListTemplates reads all invoice templates
func (s *SettingsService) ListTemplates(ctx context.Context) ([]settings.InvoiceTemplate, error) {
	return s.templateRepo.FindAll(ctx)
}

// DeleteTemplate removes an invoice template
func (s *SettingsService) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, templateID)
}
