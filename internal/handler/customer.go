package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/order"
)

// CreateCustomer registers a customer.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody(r.Body, decodeCreateCustomer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customers.CreateCustomer(r.Context(), customer.CreateCustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address.toDomain(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/customers/"+c.ID())
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeCustomer(e, c)
	})
}

// GetCustomer returns a customer and the size of its order history.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCustomer(e, c)
	})
}

// PlaceOrder turns the requested items into an order for the customer.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody(r.Body, decodePlaceOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items := make([]customer.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = customer.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	var shipTo *order.Address
	if req.ShippingAddress != nil {
		a := req.ShippingAddress.toDomain()
		shipTo = &a
	}

	o, err := h.customers.PlaceOrder(r.Context(), customer.PlaceOrderRequest{
		CustomerID:      r.PathValue("id"),
		Items:           items,
		DeliveryDate:    req.DeliveryDate,
		GiftWrap:        req.GiftWrap,
		ShippingAddress: shipTo,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeOrder(e, o)
	})
}

// ListOrders returns the customer's orders, oldest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.customers.Orders(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, o := range orders {
			h.encodeOrder(e, o)
		}
		e.ArrEnd()
	})
}
