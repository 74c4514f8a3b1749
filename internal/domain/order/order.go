package order

import (
	"time"

	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/product"
)

// Line is a single order line frozen at placement time. Later catalog changes
// do not affect it.
type Line struct {
	item      CartItem
	unitPrice money.Money
	lineTotal money.Money
}

func newLine(item CartItem) (Line, error) {
	if item.quantity <= 0 {
		return Line{}, domainerr.InvalidValue("quantity", "quantity must be greater than 0")
	}
	total, err := item.product.Price.Multiply(item.quantity)
	if err != nil {
		return Line{}, err
	}
	return Line{
		item:      item,
		unitPrice: item.product.Price,
		lineTotal: total,
	}, nil
}

// RestoreLine rebuilds a persisted line from its product snapshot and the
// line total recorded at placement.
func RestoreLine(p product.Product, quantity int, lineTotal money.Money) (Line, error) {
	item, err := NewCartItem(p, quantity)
	if err != nil {
		return Line{}, err
	}
	return Line{
		item:      item,
		unitPrice: p.Price,
		lineTotal: lineTotal,
	}, nil
}

// Item returns the frozen cart item.
func (l Line) Item() CartItem { return l.item }

// ProductID returns the ordered product's identifier.
func (l Line) ProductID() string { return l.item.product.ID }

// Product returns the product snapshot taken at placement.
func (l Line) Product() product.Product { return l.item.product }

// Quantity returns the ordered quantity.
func (l Line) Quantity() int { return l.item.quantity }

// UnitPrice returns the price per unit at placement.
func (l Line) UnitPrice() money.Money { return l.unitPrice }

// LineTotal returns unit price * quantity at placement.
func (l Line) LineTotal() money.Money { return l.lineTotal }

// Order is an immutable snapshot of a cart placed by a customer.
type Order struct {
	id              string
	lines           []Line
	deliveryDate    DeliveryDate
	shippingAddress Address
	giftWrap        bool
	placedAt        time.Time
}

// CheckPlaceable reports why cart could not be placed at now, if at all.
// The cart must contain at least one line, the delivery date must still lie
// after now and the shipping address must be complete.
func CheckPlaceable(cart *Cart, deliveryDate DeliveryDate, shippingAddress Address, now time.Time) error {
	if cart == nil || cart.IsEmpty() {
		return domainerr.InvalidOperation("place_order", "cannot place an order with an empty cart")
	}
	for _, item := range cart.lines {
		if item.quantity <= 0 {
			return domainerr.InvalidValue("quantity", "quantity must be greater than 0")
		}
	}
	if !deliveryDate.Time().After(now) {
		return domainerr.InvalidValue("delivery_date", "delivery date must be in the future")
	}
	return shippingAddress.Validate()
}

// New snapshots cart into an order placed at now. It fails under the same
// conditions as CheckPlaceable and does not attach the order to any customer.
func New(
	id string,
	cart *Cart,
	deliveryDate DeliveryDate,
	giftWrap bool,
	shippingAddress Address,
	now time.Time,
) (*Order, error) {
	if err := CheckPlaceable(cart, deliveryDate, shippingAddress, now); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domainerr.InvalidValue("id", "order id is required")
	}

	lines := make([]Line, 0, cart.Len())
	for _, item := range cart.lines {
		line, err := newLine(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return &Order{
		id:              id,
		lines:           lines,
		deliveryDate:    deliveryDate,
		shippingAddress: shippingAddress,
		giftWrap:        giftWrap,
		placedAt:        now,
	}, nil
}

// Restore rebuilds a persisted order. It still refuses an order without lines.
func Restore(
	id string,
	lines []Line,
	deliveryDate DeliveryDate,
	giftWrap bool,
	shippingAddress Address,
	placedAt time.Time,
) (*Order, error) {
	if len(lines) == 0 {
		return nil, domainerr.InvalidOperation("restore_order", "order "+id+" has no lines")
	}
	return &Order{
		id:              id,
		lines:           append([]Line(nil), lines...),
		deliveryDate:    deliveryDate,
		shippingAddress: shippingAddress,
		giftWrap:        giftWrap,
		placedAt:        placedAt,
	}, nil
}

// ID returns the order identifier.
func (o *Order) ID() string { return o.id }

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Len returns the number of lines.
func (o *Order) Len() int { return len(o.lines) }

// DeliveryDate returns the requested delivery date.
func (o *Order) DeliveryDate() DeliveryDate { return o.deliveryDate }

// ShippingAddress returns where the order ships to.
func (o *Order) ShippingAddress() Address { return o.shippingAddress }

// GiftWrap reports whether the order is gift wrapped.
func (o *Order) GiftWrap() bool { return o.giftWrap }

// PlacedAt returns the placement time.
func (o *Order) PlacedAt() time.Time { return o.placedAt }

// Total returns the sum of all line totals.
func (o *Order) Total() money.Money {
	total := money.Zero
	for _, l := range o.lines {
		total = total.Add(l.lineTotal)
	}
	return total
}
