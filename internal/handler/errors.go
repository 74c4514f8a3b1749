package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/order-capture/internal/domain/customer"
	"github.com/xenking/order-capture/internal/domain/domainerr"
	"github.com/xenking/order-capture/internal/domain/product"
)

// writeError maps err onto a status code and writes the error body.
// Unrecognized errors are logged and reported as 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusInternalServerError
		msg    = http.StatusText(http.StatusInternalServerError)
		field  string
		fields map[string]string
	)

	var (
		validationErr *ValidationError
		decodeErr     *decodeError
		valueErr      *domainerr.InvalidValueError
		productErr    *customer.ProductNotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		status, msg, fields = http.StatusBadRequest, "request validation failed", validationErr.Fields()
	case errors.As(err, &decodeErr):
		status, msg = http.StatusBadRequest, decodeErr.Error()
	case errors.As(err, &productErr):
		status, msg = http.StatusUnprocessableEntity, productErr.Error()
	case errors.As(err, &valueErr):
		status, msg, field = http.StatusUnprocessableEntity, valueErr.Error(), valueErr.Field
	case errors.Is(err, domainerr.ErrInvalidOperation):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, customer.ErrAlreadyExists):
		status, msg = http.StatusConflict, customer.ErrAlreadyExists.Error()
	case errors.Is(err, product.ErrNotFound):
		status, msg = http.StatusNotFound, product.ErrNotFound.Error()
	case errors.Is(err, customer.ErrNotFound):
		status, msg = http.StatusNotFound, customer.ErrNotFound.Error()
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	}

	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		if field != "" {
			e.FieldStart("field")
			e.Str(field)
		}
		if len(fields) > 0 {
			e.FieldStart("fields")
			e.ObjStart()
			for k, v := range fields {
				e.FieldStart(k)
				e.Str(v)
			}
			e.ObjEnd()
		}
		e.ObjEnd()
	})
}
