package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItems(t *testing.T) []SaleItem {
	t.Helper()
	first, err := NewSaleItem(uuid.New(), "Widget", 2, decimal.NewFromInt(25))
	require.NoError(t, err)
	second, err := NewSaleItem(uuid.New(), "Gadget", 1, decimal.NewFromInt(40))
	require.NoError(t, err)
	return []SaleItem{*first, *second}
}

func TestNewSaleItem(t *testing.T) {
	t.Run("should compute line total", func(t *testing.T) {
		item, err := NewSaleItem(uuid.New(), "Widget", 3, decimal.NewFromFloat(9.99))

		require.NoError(t, err)
		assert.True(t, item.Total.Equal(decimal.NewFromFloat(29.97)))
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		_, err := NewSaleItem(uuid.New(), "Widget", 0, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should reject negative price", func(t *testing.T) {
		_, err := NewSaleItem(uuid.New(), "Widget", 1, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestNewSale(t *testing.T) {
	t.Run("should compute totals from items", func(t *testing.T) {
		sale, err := NewSale(nil, "Walk-in", newTestItems(t), decimal.NewFromInt(9), decimal.NewFromInt(10), PaymentMethodCash)

		require.NoError(t, err)
		assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(90)))
		assert.True(t, sale.Total.Equal(decimal.NewFromInt(89)))
		assert.Equal(t, SaleStatusCompleted, sale.Status)
		assert.Equal(t, int64(3), sale.TotalQuantity())
	})

	t.Run("should fail without items", func(t *testing.T) {
		_, err := NewSale(nil, "", nil, decimal.Zero, decimal.Zero, PaymentMethodCash)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail with unknown payment method", func(t *testing.T) {
		_, err := NewSale(nil, "", newTestItems(t), decimal.Zero, decimal.Zero, PaymentMethod("iou"))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail when discount exceeds subtotal plus tax", func(t *testing.T) {
		_, err := NewSale(nil, "", newTestItems(t), decimal.Zero, decimal.NewFromInt(1000), PaymentMethodCash)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSale_LinkInvoice(t *testing.T) {
	t.Run("should link once", func(t *testing.T) {
		sale, err := NewSale(nil, "", newTestItems(t), decimal.Zero, decimal.Zero, PaymentMethodCard)
		require.NoError(t, err)

		invoiceID := uuid.New()
		require.NoError(t, sale.LinkInvoice(invoiceID))
		require.NotNil(t, sale.InvoiceID)
		assert.Equal(t, invoiceID, *sale.InvoiceID)
	})

	t.Run("should reject a second link", func(t *testing.T) {
		sale, err := NewSale(nil, "", newTestItems(t), decimal.Zero, decimal.Zero, PaymentMethodCard)
		require.NoError(t, err)
		require.NoError(t, sale.LinkInvoice(uuid.New()))

		err = sale.LinkInvoice(uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestSaleStatus_CountsTowardRevenue(t *testing.T) {
	assert.True(t, SaleStatusCompleted.CountsTowardRevenue())
	assert.True(t, SaleStatusPending.CountsTowardRevenue())
	assert.True(t, SaleStatusRefunded.CountsTowardRevenue())
	assert.False(t, SaleStatusCancelled.CountsTowardRevenue())
}

func TestSale_DetachCustomer(t *testing.T) {
	customerID := uuid.New()
	sale, err := NewSale(&customerID, "Acme Corp", newTestItems(t), decimal.Zero, decimal.Zero, PaymentMethodCash)
	require.NoError(t, err)

	sale.DetachCustomer()

	assert.Nil(t, sale.CustomerID)
	assert.Equal(t, "Acme Corp", sale.CustomerName)
}
