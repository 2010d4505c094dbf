package returns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// ReturnRepository defines the persistence contract for returns
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Return, error)
	FindInPeriod(ctx context.Context, start, end time.Time) ([]Return, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Return, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ret *Return) error
	Delete(ctx context.Context, id uuid.UUID) error
	DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
