package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence contract for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreditTransactionRepository defines the persistence contract for the
// append-only store-credit ledger
type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *CreditTransaction) error
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]CreditTransaction, error)
}
