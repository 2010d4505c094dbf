package returns

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReturn(t *testing.T, method RefundMethod, conditions ...ItemCondition) *Return {
	t.Helper()
	if len(conditions) == 0 {
		conditions = []ItemCondition{ConditionResellable}
	}

	items := make([]ReturnItem, 0, len(conditions))
	for _, condition := range conditions {
		item, err := NewReturnItem(uuid.New(), "Widget", 2, decimal.NewFromInt(25), "wrong size", condition)
		require.NoError(t, err)
		items = append(items, *item)
	}

	refund := decimal.NewFromInt(50).Mul(decimal.NewFromInt(int64(len(conditions))))
	ret, err := NewReturn(uuid.New(), nil, "", items, refund, method, "")
	require.NoError(t, err)
	return ret
}

func TestNewReturn(t *testing.T) {
	t.Run("should start pending", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodCash)

		assert.Equal(t, ReturnStatusPending, ret.Status)
		assert.False(t, ret.ReducesRevenue())
		assert.Len(t, ret.GetDomainEvents(), 1)
	})

	t.Run("should fail without sale reference", func(t *testing.T) {
		item, err := NewReturnItem(uuid.New(), "Widget", 1, decimal.NewFromInt(10), "", ConditionResellable)
		require.NoError(t, err)

		_, err = NewReturn(uuid.Nil, nil, "", []ReturnItem{*item}, decimal.NewFromInt(10), RefundMethodCash, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail when refund exceeds item total", func(t *testing.T) {
		item, err := NewReturnItem(uuid.New(), "Widget", 1, decimal.NewFromInt(10), "", ConditionResellable)
		require.NoError(t, err)

		_, err = NewReturn(uuid.New(), nil, "", []ReturnItem{*item}, decimal.NewFromInt(11), RefundMethodCash, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail with unknown refund method", func(t *testing.T) {
		item, err := NewReturnItem(uuid.New(), "Widget", 1, decimal.NewFromInt(10), "", ConditionResellable)
		require.NoError(t, err)

		_, err = NewReturn(uuid.New(), nil, "", []ReturnItem{*item}, decimal.NewFromInt(10), RefundMethod("barter"), "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestReturn_Approve(t *testing.T) {
	t.Run("should approve a pending return", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodCash)

		require.NoError(t, ret.Approve())

		assert.Equal(t, ReturnStatusApproved, ret.Status)
		assert.NotNil(t, ret.ProcessedAt)
		assert.True(t, ret.ReducesRevenue())
	})

	t.Run("should reject a second approval", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodCash)
		require.NoError(t, ret.Approve())

		err := ret.Approve()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("should reject approving a rejected return", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodCash)
		require.NoError(t, ret.Reject("damaged by customer"))

		err := ret.Approve()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestReturn_Complete(t *testing.T) {
	t.Run("should complete only from approved", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodCash)

		err := ret.Complete()
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		require.NoError(t, ret.Approve())
		require.NoError(t, ret.Complete())
		assert.Equal(t, ReturnStatusCompleted, ret.Status)
		assert.True(t, ret.ReducesRevenue())
	})
}

func TestReturn_ReducesRevenue(t *testing.T) {
	t.Run("store credit refund never reduces revenue", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodStoreCredit)
		require.NoError(t, ret.Approve())

		assert.False(t, ret.ReducesRevenue())
	})

	t.Run("exchange never reduces revenue", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodExchange)
		require.NoError(t, ret.Approve())

		assert.False(t, ret.ReducesRevenue())
	})

	t.Run("original payment refund reduces revenue once approved", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodOriginalPayment)
		require.NoError(t, ret.Approve())

		assert.True(t, ret.ReducesRevenue())
	})
}

func TestReturn_RestockableQuantities(t *testing.T) {
	t.Run("should exclude damaged and defective items", func(t *testing.T) {
		ret := newTestReturn(t, RefundMethodCash, ConditionResellable, ConditionDamaged, ConditionDefective)

		quantities := ret.RestockableQuantities()

		require.Len(t, quantities, 1)
		for _, qty := range quantities {
			assert.Equal(t, int64(2), qty)
		}
	})

	t.Run("should sum quantities per product", func(t *testing.T) {
		productID := uuid.New()
		first, err := NewReturnItem(productID, "Widget", 2, decimal.NewFromInt(10), "", ConditionResellable)
		require.NoError(t, err)
		second, err := NewReturnItem(productID, "Widget", 3, decimal.NewFromInt(10), "", ConditionResellable)
		require.NoError(t, err)

		ret, err := NewReturn(uuid.New(), nil, "", []ReturnItem{*first, *second}, decimal.NewFromInt(50), RefundMethodCash, "")
		require.NoError(t, err)

		assert.Equal(t, int64(5), ret.RestockableQuantities()[productID])
	})
}
