package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, stock int64) *Product {
	t.Helper()
	product, err := NewProduct("Widget", decimal.NewFromInt(25), nil, stock, 0)
	require.NoError(t, err)
	return product
}

func TestNewProduct(t *testing.T) {
	t.Run("should create product with valid data", func(t *testing.T) {
		cost := decimal.NewFromInt(10)
		product, err := NewProduct("Widget", decimal.NewFromInt(25), &cost, 100, 5)

		require.NoError(t, err)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, int64(100), product.Stock)
		assert.Equal(t, int64(5), product.MinStock)
		assert.False(t, product.IsLowStock())
	})

	t.Run("should fail with empty name", func(t *testing.T) {
		_, err := NewProduct("  ", decimal.NewFromInt(25), nil, 0, 0)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail with non-positive price", func(t *testing.T) {
		_, err := NewProduct("Widget", decimal.Zero, nil, 0, 0)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail with non-positive cost", func(t *testing.T) {
		cost := decimal.Zero
		_, err := NewProduct("Widget", decimal.NewFromInt(25), &cost, 0, 0)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail with negative stock", func(t *testing.T) {
		_, err := NewProduct("Widget", decimal.NewFromInt(25), nil, -1, 0)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestProduct_DeductStock(t *testing.T) {
	t.Run("should deduct and record a negative movement", func(t *testing.T) {
		product := newTestProduct(t, 10)

		movement, err := product.DeductStock(3, MovementSourceSale, uuid.NewString())

		require.NoError(t, err)
		assert.Equal(t, int64(7), product.Stock)
		assert.Equal(t, MovementTypeSale, movement.MovementType)
		assert.Equal(t, int64(-3), movement.Quantity)
		assert.Equal(t, int64(10), movement.StockBefore)
		assert.Equal(t, int64(7), movement.StockAfter)
	})

	t.Run("should fail when stock is insufficient", func(t *testing.T) {
		product := newTestProduct(t, 2)

		_, err := product.DeductStock(3, MovementSourceSale, uuid.NewString())

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Widget")
		assert.Contains(t, err.Error(), "requested 3")
		assert.Contains(t, err.Error(), "available 2")
		assert.Equal(t, int64(2), product.Stock)
	})

	t.Run("should allow deducting to exactly zero", func(t *testing.T) {
		product := newTestProduct(t, 5)

		_, err := product.DeductStock(5, MovementSourceSale, uuid.NewString())

		require.NoError(t, err)
		assert.Equal(t, int64(0), product.Stock)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		product := newTestProduct(t, 5)

		_, err := product.DeductStock(0, MovementSourceSale, uuid.NewString())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should emit low stock event below threshold", func(t *testing.T) {
		product, err := NewProduct("Widget", decimal.NewFromInt(25), nil, 10, 8)
		require.NoError(t, err)
		product.ClearDomainEvents()

		_, err = product.DeductStock(5, MovementSourceSale, uuid.NewString())
		require.NoError(t, err)

		events := product.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeLowStock, events[1].EventType())
	})
}

func TestProduct_Restock(t *testing.T) {
	t.Run("should restock on sale reversal", func(t *testing.T) {
		product := newTestProduct(t, 2)

		movement, err := product.Restock(3, MovementTypeSaleReversal, MovementSourceSale, uuid.NewString())

		require.NoError(t, err)
		assert.Equal(t, int64(5), product.Stock)
		assert.Equal(t, int64(3), movement.Quantity)
	})

	t.Run("should reject a plain sale movement type", func(t *testing.T) {
		product := newTestProduct(t, 2)

		_, err := product.Restock(3, MovementTypeSale, MovementSourceSale, uuid.NewString())
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestProduct_AdjustStock(t *testing.T) {
	t.Run("should set absolute quantity with signed delta", func(t *testing.T) {
		product := newTestProduct(t, 10)

		movement, err := product.AdjustStock(4, "annual count")

		require.NoError(t, err)
		assert.Equal(t, int64(4), product.Stock)
		assert.Equal(t, int64(-6), movement.Quantity)
		assert.Equal(t, "annual count", movement.Remark)
		assert.Equal(t, MovementTypeAdjustment, movement.MovementType)
	})

	t.Run("should require a reason", func(t *testing.T) {
		product := newTestProduct(t, 10)

		_, err := product.AdjustStock(4, " ")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestProduct_Update(t *testing.T) {
	t.Run("should not touch stock", func(t *testing.T) {
		product := newTestProduct(t, 10)

		err := product.Update("Widget Pro", decimal.NewFromInt(30), nil, 2)

		require.NoError(t, err)
		assert.Equal(t, "Widget Pro", product.Name)
		assert.Equal(t, int64(10), product.Stock)
		assert.Equal(t, int64(2), product.MinStock)
	})
}
