package persistence

import (
	"context"

	"github.com/salesdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormUnitOfWork implements shared.UnitOfWork by opening a GORM transaction
// and threading it through the context. Repositories built on the same base
// connection pick the transaction up via dbFromContext, so every call inside
// fn joins the same transaction without the services knowing about GORM.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx executes fn inside a transaction. Any error rolls the whole unit
// back; a nested call joins the enclosing transaction instead of opening a
// second one.
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// txFromContext returns the transaction carried by ctx, or nil
func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx
}

// dbFromContext returns the context's transaction if one is open, otherwise
// the repository's own connection. Every repository query goes through this.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ shared.UnitOfWork = (*GormUnitOfWork)(nil)
