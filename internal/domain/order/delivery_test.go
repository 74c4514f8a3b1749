package order_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/order"
)

func TestNewDeliveryDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{name: "two days ahead", at: now.Add(48 * time.Hour)},
		{name: "one nanosecond ahead", at: now.Add(time.Nanosecond)},
		{name: "equal to now", at: now, wantErr: true},
		{name: "in the past", at: now.Add(-time.Hour), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := order.NewDeliveryDate(tt.at, now)
			if tt.wantErr {
				require.ErrorIs(t, err, domainerr.ErrInvalidValue)
				assert.EqualError(t, err, "delivery date must be in the future")
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.at.Equal(d.Time()))
		})
	}
}

func TestDeliveryDate_Equal(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	at := now.Add(time.Hour)

	a, err := order.NewDeliveryDate(at, now)
	require.NoError(t, err)
	b, err := order.NewDeliveryDate(at.In(time.FixedZone("CEST", 2*60*60)), now)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, order.RestoreDeliveryDate(at).Equal(a))
}
