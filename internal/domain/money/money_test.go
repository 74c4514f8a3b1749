package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-capture/internal/domain/domainerr"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{name: "positive", amount: decimal.RequireFromString("12.50")},
		{name: "zero is valid", amount: decimal.Zero},
		{name: "negative rejected", amount: decimal.RequireFromString("-0.01"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.amount)
			if tt.wantErr {
				require.ErrorIs(t, err, domainerr.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.amount.Equal(m.Amount()))
		})
	}
}

func TestNewFromString(t *testing.T) {
	_, err := NewFromString("ten")
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)

	_, err = NewFromString("-3")
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)

	m, err := NewFromString("3.5")
	require.NoError(t, err)
	assert.Equal(t, "3.50", m.String())
}

func TestMultiply(t *testing.T) {
	price := MustParse("9.99")

	got, err := price.Multiply(3)
	require.NoError(t, err)
	assert.True(t, MustParse("29.97").Equal(got), "got %s", got)

	got, err = price.Multiply(0)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = price.Multiply(-1)
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)

	assert.Equal(t, "9.99", price.String(), "receiver must not change")
}

func TestEqualByValue(t *testing.T) {
	assert.True(t, MustParse("1.5").Equal(MustParse("1.50")))
	assert.False(t, MustParse("1.5").Equal(MustParse("1.51")))
	assert.True(t, Zero.Equal(MustParse("0")))
}

func TestAdd(t *testing.T) {
	sum := MustParse("1.25").Add(MustParse("2.75"))
	assert.Equal(t, "4.00", sum.String())
}
