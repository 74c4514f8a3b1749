package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/order"
	"github.com/xenking/order-capture/internal/domain/product"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func (h *Handler) encodeMoney(e *jx.Encoder, name string, m money.Money) {
	e.FieldStart(name)
	e.Num(jx.Num(m.String()))
}

func (h *Handler) encodeSummary(e *jx.Encoder, s product.Summary) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(s.ID)
	e.FieldStart("name")
	e.Str(s.Name)
	e.FieldStart("inStock")
	e.Bool(s.InStock)
	h.encodeMoney(e, "price", s.Price)
	e.FieldStart("currency")
	e.Str(h.currency)
	e.ObjEnd()
}

func (h *Handler) encodeDetail(e *jx.Encoder, d product.Detail) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(d.ID)
	e.FieldStart("name")
	e.Str(d.Name)
	e.FieldStart("inStock")
	e.Bool(d.InStock)
	h.encodeMoney(e, "price", d.Price)
	e.FieldStart("currency")
	e.Str(h.currency)
	e.FieldStart("description")
	e.Str(d.Description)
	e.FieldStart("category")
	e.Str(d.Category)
	e.ObjEnd()
}

func encodeAddress(e *jx.Encoder, a order.Address) {
	e.ObjStart()
	e.FieldStart("street")
	e.Str(a.Street)
	e.FieldStart("city")
	e.Str(a.City)
	e.FieldStart("postalCode")
	e.Str(a.PostalCode)
	e.FieldStart("country")
	e.Str(a.Country)
	e.ObjEnd()
}

func encodeCustomer(e *jx.Encoder, c *customer.Customer) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(c.ID())
	e.FieldStart("name")
	e.Str(c.Name())
	e.FieldStart("email")
	e.Str(c.Email())
	e.FieldStart("address")
	encodeAddress(e, c.Address())
	e.FieldStart("orderCount")
	e.Int(c.OrderCount())
	e.ObjEnd()
}

func (h *Handler) encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID())
	e.FieldStart("placedAt")
	e.Str(o.PlacedAt().UTC().Format(time.RFC3339))
	e.FieldStart("deliveryDate")
	e.Str(o.DeliveryDate().String())
	e.FieldStart("giftWrap")
	e.Bool(o.GiftWrap())
	e.FieldStart("shippingAddress")
	encodeAddress(e, o.ShippingAddress())
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range o.Lines() {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(l.ProductID())
		e.FieldStart("name")
		e.Str(l.Product().Name)
		e.FieldStart("quantity")
		e.Int(l.Quantity())
		h.encodeMoney(e, "unitPrice", l.UnitPrice())
		h.encodeMoney(e, "lineTotal", l.LineTotal())
		e.ObjEnd()
	}
	e.ArrEnd()
	h.encodeMoney(e, "total", o.Total())
	e.FieldStart("currency")
	e.Str(h.currency)
	e.ObjEnd()
}
