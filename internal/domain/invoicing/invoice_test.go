package invoicing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salesdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, total int64) *Invoice {
	t.Helper()
	customerID := uuid.New()
	inv, err := NewInvoice("INV-001", &customerID, "Acme Corp", nil, []InvoiceItem{
		{
			Description: "Widget",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(total),
			Total:       decimal.NewFromInt(total),
		},
	}, decimal.Zero, decimal.Zero, InvoiceTypeStandard, "USD")
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("should create invoice with valid data", func(t *testing.T) {
		inv := newTestInvoice(t, 100)

		assert.Equal(t, "INV-001", inv.Number)
		assert.True(t, decimal.NewFromInt(100).Equal(inv.Total))
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.Equal(t, PaymentStatusUnpaid, inv.PaymentStatus())
		assert.True(t, inv.Balance().Equal(decimal.NewFromInt(100)))
		assert.True(t, inv.IsIndependent())
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("should fail without number", func(t *testing.T) {
		_, err := NewInvoice("", nil, "", nil, []InvoiceItem{
			{Description: "Widget", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
		}, decimal.Zero, decimal.Zero, InvoiceTypeStandard, "USD")

		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail without items", func(t *testing.T) {
		_, err := NewInvoice("INV-002", nil, "", nil, nil, decimal.Zero, decimal.Zero, InvoiceTypeStandard, "USD")

		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should fail when discount drives total negative", func(t *testing.T) {
		_, err := NewInvoice("INV-003", nil, "", nil, []InvoiceItem{
			{Description: "Widget", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
		}, decimal.Zero, decimal.NewFromInt(50), InvoiceTypeStandard, "USD")

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(100)

	tests := []struct {
		name     string
		paid     decimal.Decimal
		expected PaymentStatus
	}{
		{"zero paid is unpaid", decimal.Zero, PaymentStatusUnpaid},
		{"negative paid is unpaid", decimal.NewFromInt(-5), PaymentStatusUnpaid},
		{"partial payment", decimal.NewFromInt(40), PaymentStatusPartial},
		{"exact payment", decimal.NewFromInt(100), PaymentStatusPaid},
		{"excess payment", decimal.NewFromFloat(100.01), PaymentStatusOverpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DerivePaymentStatus(total, tt.paid))
		})
	}
}

func TestInvoice_RecordPayment(t *testing.T) {
	t.Run("should record partial then full payment", func(t *testing.T) {
		inv := newTestInvoice(t, 100)

		err := inv.RecordPayment(decimal.NewFromInt(40), "cash")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPartial, inv.PaymentStatus())
		assert.True(t, inv.Balance().Equal(decimal.NewFromInt(60)))
		assert.Equal(t, InvoiceStatusSent, inv.Status)

		err = inv.RecordPayment(decimal.NewFromInt(60), "card")
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus())
		assert.True(t, inv.Balance().IsZero())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Len(t, inv.PaymentHistory, 2)
	})

	t.Run("should reject non-positive amount", func(t *testing.T) {
		inv := newTestInvoice(t, 100)

		err := inv.RecordPayment(decimal.Zero, "cash")
		assert.ErrorIs(t, err, shared.ErrValidation)

		err = inv.RecordPayment(decimal.NewFromInt(-10), "cash")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("should reject payment exceeding total", func(t *testing.T) {
		inv := newTestInvoice(t, 100)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(80), "cash"))

		err := inv.RecordPayment(decimal.NewFromInt(30), "cash")
		assert.ErrorIs(t, err, shared.ErrPaymentExceedsTotal)
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(80)))
	})

	t.Run("should reject payment on cancelled invoice", func(t *testing.T) {
		inv := newTestInvoice(t, 100)
		require.NoError(t, inv.Cancel())

		err := inv.RecordPayment(decimal.NewFromInt(10), "cash")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestInvoice_ApplyStoreCredit(t *testing.T) {
	t.Run("should apply credit up to balance", func(t *testing.T) {
		inv := newTestInvoice(t, 100)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(70), "cash"))

		err := inv.ApplyStoreCredit(decimal.NewFromInt(30))
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPaid, inv.PaymentStatus())
		assert.Equal(t, PaymentSourceStoreCredit, inv.PaymentHistory[1].Source)
	})

	t.Run("should reject credit above balance", func(t *testing.T) {
		inv := newTestInvoice(t, 100)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(70), "cash"))

		err := inv.ApplyStoreCredit(decimal.NewFromInt(31))
		assert.ErrorIs(t, err, shared.ErrAmountExceedsBalance)
	})

	t.Run("should reject non-positive credit", func(t *testing.T) {
		inv := newTestInvoice(t, 100)

		err := inv.ApplyStoreCredit(decimal.Zero)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInvoice_ResolveOverpayment(t *testing.T) {
	// Overpaid invoices cannot be produced through RecordPayment; they enter
	// the system via snapshot import of historical data.
	newOverpaid := func(t *testing.T) *Invoice {
		t.Helper()
		inv := newTestInvoice(t, 100)
		inv.PaidAmount = decimal.NewFromInt(130)
		require.Equal(t, PaymentStatusOverpaid, inv.PaymentStatus())
		return inv
	}

	t.Run("should resolve once and return the excess", func(t *testing.T) {
		inv := newOverpaid(t)

		excess, err := inv.ResolveOverpayment(ResolutionStoreCredit)
		require.NoError(t, err)
		assert.True(t, excess.Equal(decimal.NewFromInt(30)))
		require.NotNil(t, inv.ResolutionAction)
		assert.Equal(t, ResolutionStoreCredit, *inv.ResolutionAction)
		assert.NotNil(t, inv.ResolvedAt)
	})

	t.Run("should reject a second resolution", func(t *testing.T) {
		inv := newOverpaid(t)
		_, err := inv.ResolveOverpayment(ResolutionKeep)
		require.NoError(t, err)

		_, err = inv.ResolveOverpayment(ResolutionRefunded)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("should reject resolution when not overpaid", func(t *testing.T) {
		inv := newTestInvoice(t, 100)

		_, err := inv.ResolveOverpayment(ResolutionStoreCredit)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("should reject unknown action", func(t *testing.T) {
		inv := newOverpaid(t)

		_, err := inv.ResolveOverpayment(ResolutionAction("shrug"))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInvoice_Balance(t *testing.T) {
	t.Run("balance floors at zero when overpaid", func(t *testing.T) {
		inv := newTestInvoice(t, 100)
		inv.PaidAmount = decimal.NewFromInt(150)

		assert.True(t, inv.Balance().IsZero())
		assert.True(t, inv.OverpaidAmount().Equal(decimal.NewFromInt(50)))
	})
}

func TestInvoice_Cancel(t *testing.T) {
	t.Run("should refuse to cancel after payment", func(t *testing.T) {
		inv := newTestInvoice(t, 100)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(10), "cash"))

		err := inv.Cancel()
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestInvoice_DetachCustomer(t *testing.T) {
	inv := newTestInvoice(t, 100)
	require.NotNil(t, inv.CustomerID)

	inv.DetachCustomer()

	assert.Nil(t, inv.CustomerID)
	assert.Equal(t, "Acme Corp", inv.CustomerName)
}
