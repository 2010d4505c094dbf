package settings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// InvoiceTemplate holds the layout and branding used when rendering invoices
type InvoiceTemplate struct {
	shared.BaseEntity
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	CompanyName  string `gorm:"type:varchar(200)" json:"company_name"`
	CompanyLogo  string `gorm:"type:text" json:"company_logo,omitempty"` // Data URL or file path
	HeaderText   string `gorm:"type:text" json:"header_text,omitempty"`
	FooterText   string `gorm:"type:text" json:"footer_text,omitempty"`
	AccentColor  string `gorm:"type:varchar(20)" json:"accent_color,omitempty"`
	NumberPrefix string `gorm:"type:varchar(20);default:'INV-'" json:"number_prefix"`
	IsDefault    bool   `gorm:"not null;default:false" json:"is_default"`
}

// TableName returns the table name for GORM
func (InvoiceTemplate) TableName() string {
	return "invoice_templates"
}

// NewInvoiceTemplate creates a new invoice template
func NewInvoiceTemplate(name, companyName string) (*InvoiceTemplate, error) {
	if name == "" {
		return nil, shared.NewValidationError("Template name is required")
	}
	return &InvoiceTemplate{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		CompanyName:  companyName,
		NumberPrefix: "INV-",
	}, nil
}

// Update modifies the template fields
func (t *InvoiceTemplate) Update(name, companyName, companyLogo, headerText, footerText, accentColor, numberPrefix string) error {
	if name == "" {
		return shared.NewValidationError("Template name is required")
	}

	t.Name = name
	t.CompanyName = companyName
	t.CompanyLogo = companyLogo
	t.HeaderText = headerText
	t.FooterText = footerText
	t.AccentColor = accentColor
	if numberPrefix != "" {
		t.NumberPrefix = numberPrefix
	}
	t.UpdatedAt = time.Now()

	return nil
}

// MarkDefault flags this template as the default one
func (t *InvoiceTemplate) MarkDefault() {
	t.IsDefault = true
	t.UpdatedAt = time.Now()
}

// InvoiceTemplateRepository defines the persistence contract for templates
type InvoiceTemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceTemplate, error)
	FindAll(ctx context.Context) ([]InvoiceTemplate, error)
	FindDefault(ctx context.Context) (*InvoiceTemplate, error)
	Save(ctx context.Context, template *InvoiceTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearDefault(ctx context.Context) error
}
