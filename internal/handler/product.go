package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/product"
)

// ListProducts returns the catalog as summaries.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	summaries := product.Summaries(products)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, s := range summaries {
			h.encodeSummary(e, s)
		}
		e.ArrEnd()
	})
}

// GetProduct returns a single product in detail.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeDetail(e, product.ToDetail(*p))
	})
}

// CreateProduct adds a product to the catalog.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody(r.Body, decodeCreateProduct)
	if err != nil {
		writeError(w, r, err)
		return
	}
	price, err := money.NewFromString(req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := product.New(req.Name, req.Description, price, req.InStock, req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.ID, err = h.products.Create(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}

	zctx.From(r.Context()).Info("Product created", zap.String("product_id", p.ID))
	w.Header().Set("Location", "/api/products/"+p.ID)
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeDetail(e, product.ToDetail(p))
	})
}

// DeleteProduct removes a product. Placed orders are unaffected.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	zctx.From(r.Context()).Info("Product deleted", zap.String("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}
