package snapshot

import (
	"context"
	"time"

	"github.com/salesdesk/backend/internal/domain/snapshot"
	"go.uber.org/zap"
)

// SnapshotService exports the full database to one JSON document and
// replaces it wholesale on import
type SnapshotService struct {
	store  snapshot.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(store snapshot.Store, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Export reads every table into a snapshot document
func (s *SnapshotService) Export(ctx context.Context) (*snapshot.Document, error) {
	doc, err := s.store.ExportAll(ctx)
	if err != nil {
		return nil, err
	}
	doc.ExportedAt = s.now()

	s.logger.Info("snapshot exported",
		zap.Int("customers", len(doc.Customers)),
		zap.Int("products", len(doc.Products)),
		zap.Int("sales", len(doc.Sales)),
		zap.Int("invoices", len(doc.Invoices)),
		zap.Int("returns", len(doc.Returns)),
		zap.Int("deals", len(doc.Deals)),
	)

	return doc, nil
}

// Import validates the document and replaces the entire database with it.
// Failure at any point leaves the previous data intact.
func (s *SnapshotService) Import(ctx context.Context, doc *snapshot.Document) error {
	if doc == nil {
		return s.store.ReplaceAll(ctx, &snapshot.Document{})
	}

	if err := doc.Validate(); err != nil {
		return err
	}

	if err := s.store.ReplaceAll(ctx, doc); err != nil {
		return err
	}

	s.logger.Info("snapshot imported",
		zap.Time("exported_at", doc.ExportedAt),
		zap.Int("customers", len(doc.Customers)),
		zap.Int("products", len(doc.Products)),
		zap.Int("sales", len(doc.Sales)),
		zap.Int("invoices", len(doc.Invoices)),
	)

	return nil
}
