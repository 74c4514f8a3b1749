package order

import (
	"time"

	"github.com/xenking/order-capture/internal/domain/domainerr"
)

// DeliveryDate is the requested delivery moment of an order. It is always
// strictly later than the clock reading it was validated against.
type DeliveryDate struct {
	value time.Time
}

// NewDeliveryDate validates t against now.
func NewDeliveryDate(t, now time.Time) (DeliveryDate, error) {
	if !t.After(now) {
		return DeliveryDate{}, domainerr.InvalidValue("delivery_date", "delivery date must be in the future")
	}
	return DeliveryDate{value: t}, nil
}

// RestoreDeliveryDate rebuilds a persisted delivery date without re-running
// the future check, which only applies when an order is placed.
func RestoreDeliveryDate(t time.Time) DeliveryDate {
	return DeliveryDate{value: t}
}

// Time returns the delivery moment.
func (d DeliveryDate) Time() time.Time {
	return d.value
}

// IsZero reports whether d was never set.
func (d DeliveryDate) IsZero() bool {
	return d.value.IsZero()
}

// Equal reports whether both dates denote the same instant.
func (d DeliveryDate) Equal(other DeliveryDate) bool {
	return d.value.Equal(other.value)
}

func (d DeliveryDate) String() string {
	return d.value.Format(time.RFC3339)
}
