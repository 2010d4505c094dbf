package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// DealRepository defines the persistence contract for deals
type DealRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Deal, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Deal, error)
	FindByStage(ctx context.Context, stage DealStage, filter shared.Filter) ([]Deal, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Deal, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, deal *Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
	DetachCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}
