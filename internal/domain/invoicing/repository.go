package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence contract for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	// NextNumber generates the next sequential invoice number for the prefix
	NextNumber(ctx context.Context, prefix string) (string, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	FindInPeriod(ctx context.Context, start, end time.Time) ([]Invoice, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
