package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("should add same-currency values", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10.50)
		b := NewMoneyUSDFromFloat(4.25)

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.True(t, sum.Equals(NewMoneyUSDFromFloat(14.75)))
	})

	t.Run("should reject cross-currency addition", func(t *testing.T) {
		usd := NewMoneyUSD(decimal.NewFromInt(10))
		eur, err := NewMoney(decimal.NewFromInt(10), EUR)
		require.NoError(t, err)

		_, err = usd.Add(eur)
		assert.Error(t, err)
	})

	t.Run("should subtract into negative", func(t *testing.T) {
		a := NewMoneyUSD(decimal.NewFromInt(5))
		b := NewMoneyUSD(decimal.NewFromInt(8))

		diff, err := a.Subtract(b)

		require.NoError(t, err)
		assert.True(t, diff.IsNegative())
	})

	t.Run("should multiply without float drift", func(t *testing.T) {
		price := NewMoneyUSDFromFloat(0.10)

		total := price.MultiplyByInt(3)

		assert.True(t, total.Equals(NewMoneyUSDFromFloat(0.30)))
	})
}

func TestNewMoney(t *testing.T) {
	t.Run("should reject empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyUSD(decimal.NewFromInt(10))
	b := NewMoneyUSD(decimal.NewFromInt(20))

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	eur := Zero(EUR)
	_, err = a.GreaterThan(eur)
	assert.Error(t, err)
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyUSDFromFloat(12.5)
	assert.Equal(t, "12.5 USD", m.String())
}
