package customer_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/order"
	"github.com/xenking/order-capture/internal/domain/product"
	"github.com/xenking/order-capture/internal/fake"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sequentialIDs(prefix string) customer.IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newCustomer(t *testing.T, f *gofakeit.Faker) *customer.Customer {
	t.Helper()
	c, err := customer.New("c1", f.Name(), f.Email(), fake.Address(f),
		customer.WithClock(fixedClock),
		customer.WithIDSource(sequentialIDs("o")),
	)
	require.NoError(t, err)
	return c
}

func cartOf(t *testing.T, items ...order.CartItem) *order.Cart {
	t.Helper()
	cart := order.NewCart()
	for _, item := range items {
		require.NoError(t, cart.AddItem(item))
	}
	return cart
}

func item(t *testing.T, p product.Product, qty int) order.CartItem {
	t.Helper()
	i, err := order.NewCartItem(p, qty)
	require.NoError(t, err)
	return i
}

func tomorrow(t *testing.T) order.DeliveryDate {
	t.Helper()
	dd, err := order.NewDeliveryDate(fixedNow.Add(24*time.Hour), fixedNow)
	require.NoError(t, err)
	return dd
}

func TestNew_Validation(t *testing.T) {
	f := gofakeit.New(20)
	addr := fake.Address(f)

	tests := []struct {
		name    string
		id      string
		cname   string
		address order.Address
		field   string
	}{
		{name: "missing id", cname: "Ann", address: addr, field: "id"},
		{name: "blank name", id: "c1", cname: "  ", address: addr, field: "name"},
		{name: "incomplete address", id: "c1", cname: "Ann", address: order.Address{City: "Oslo"}, field: "shipping_address.street"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := customer.New(tt.id, tt.cname, "", tt.address)
			var ive *domainerr.InvalidValueError
			require.ErrorAs(t, err, &ive)
			assert.Equal(t, tt.field, ive.Field)
		})
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := gofakeit.New(21)
	c := newCustomer(t, f)

	o, err := c.PlaceOrder(order.NewCart(), tomorrow(t), false, c.Address())
	require.ErrorIs(t, err, domainerr.ErrInvalidOperation)
	assert.Nil(t, o)
	assert.Zero(t, c.OrderCount())
}

func TestPlaceOrder_Success(t *testing.T) {
	f := gofakeit.New(22)
	c := newCustomer(t, f)
	ps := fake.Products(f, 2)
	shipTo := fake.Address(f)
	dd := tomorrow(t)

	o, err := c.PlaceOrder(cartOf(t, item(t, ps[0], 1), item(t, ps[1], 3)), dd, true, shipTo)
	require.NoError(t, err)

	require.Equal(t, 1, c.OrderCount())
	assert.Same(t, o, c.Orders()[0])
	assert.Equal(t, "o-1", o.ID())
	assert.Equal(t, 2, o.Len())
	assert.True(t, o.DeliveryDate().Equal(dd))
	assert.Equal(t, shipTo, o.ShippingAddress())
	assert.True(t, o.GiftWrap())
	assert.Equal(t, fixedNow, o.PlacedAt())
}

func TestPlaceOrder_DeliveryDateExpired(t *testing.T) {
	f := gofakeit.New(23)
	now := fixedNow
	c, err := customer.New("c1", f.Name(), f.Email(), fake.Address(f),
		customer.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	// Valid when created, but the clock moved past it before placement.
	dd := tomorrow(t)
	now = now.Add(48 * time.Hour)

	_, err = c.PlaceOrder(cartOf(t, item(t, fake.Product(f), 1)), dd, false, c.Address())
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)
	assert.Zero(t, c.OrderCount())
}

func TestPlaceOrder_PriceSnapshot(t *testing.T) {
	f := gofakeit.New(24)
	c := newCustomer(t, f)
	p := fake.Product(f)
	p.Price = money.MustParse("12.50")

	o, err := c.PlaceOrder(cartOf(t, item(t, p, 2)), tomorrow(t), false, c.Address())
	require.NoError(t, err)

	p.Price = money.MustParse("99.99")

	line := c.Orders()[0].Lines()[0]
	assert.Equal(t, "25.00", line.LineTotal().String())
	assert.Equal(t, "12.50", line.UnitPrice().String())
	assert.Equal(t, "25.00", o.Total().String())
}

func TestPlaceOrder_HistoryIsAppendOnly(t *testing.T) {
	f := gofakeit.New(25)
	c := newCustomer(t, f)

	var placed []*order.Order
	for i := 1; i <= 3; i++ {
		o, err := c.PlaceOrder(cartOf(t, item(t, fake.Product(f), i)), tomorrow(t), false, c.Address())
		require.NoError(t, err)
		placed = append(placed, o)

		// A failed attempt in between changes nothing.
		_, err = c.PlaceOrder(order.NewCart(), tomorrow(t), false, c.Address())
		require.Error(t, err)
	}

	history := c.Orders()
	require.Len(t, history, 3)
	for i, o := range history {
		assert.Same(t, placed[i], o)
		assert.Equal(t, fmt.Sprintf("o-%d", i+1), o.ID())
		assert.Equal(t, i+1, o.Lines()[0].Quantity())
	}

	// The returned slice is a copy.
	history[0] = nil
	assert.NotNil(t, c.Orders()[0])
}

func TestPlaceOrder_RejectedAttemptsDrawNoID(t *testing.T) {
	f := gofakeit.New(26)
	draws := 0
	c, err := customer.New("c1", f.Name(), f.Email(), fake.Address(f),
		customer.WithClock(fixedClock),
		customer.WithIDSource(func() string {
			draws++
			return fmt.Sprintf("o-%d", draws)
		}),
	)
	require.NoError(t, err)

	_, err = c.PlaceOrder(order.NewCart(), tomorrow(t), false, c.Address())
	require.ErrorIs(t, err, domainerr.ErrInvalidOperation)
	_, err = c.PlaceOrder(cartOf(t, item(t, fake.Product(f), 1)), order.RestoreDeliveryDate(fixedNow), false, c.Address())
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)
	_, err = c.PlaceOrder(cartOf(t, item(t, fake.Product(f), 1)), tomorrow(t), false, order.Address{})
	require.ErrorIs(t, err, domainerr.ErrInvalidValue)
	assert.Zero(t, draws)

	o, err := c.PlaceOrder(cartOf(t, item(t, fake.Product(f), 1)), tomorrow(t), false, c.Address())
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID())
	assert.Equal(t, 1, draws)
}
