package handler

import (
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/order-capture/internal/domain/order"
)

const maxBodyBytes = 1 << 20

// decodeError marks a body that is not the expected JSON document.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "invalid request body: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

type createProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       string `json:"price" validate:"required,numeric"`
	InStock     bool   `json:"inStock"`
	Category    string `json:"category" validate:"required,max=100"`
}

type addressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a addressRequest) toDomain() order.Address {
	return order.Address{
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type createCustomerRequest struct {
	Name    string         `json:"name" validate:"required,max=200"`
	Email   string         `json:"email" validate:"omitempty,email"`
	Address addressRequest `json:"address"`
}

type itemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type placeOrderRequest struct {
	Items           []itemRequest   `json:"items" validate:"max=100,dive"`
	DeliveryDate    time.Time       `json:"deliveryDate" validate:"required"`
	GiftWrap        bool            `json:"giftWrap"`
	ShippingAddress *addressRequest `json:"shippingAddress"`
}

// decodeBody reads at most maxBodyBytes, decodes them with fn and validates
// the result.
func decodeBody[T any](r io.Reader, fn func(d *jx.Decoder, v *T) error) (*T, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, &decodeError{err: err}
	}
	v := new(T)
	if err := fn(jx.DecodeBytes(data), v); err != nil {
		return nil, &decodeError{err: err}
	}
	if err := validateStruct(v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeCreateProduct(d *jx.Decoder, req *createProductRequest) error {
	return d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "name":
			req.Name, err = d.Str()
		case "description":
			req.Description, err = d.Str()
		case "price":
			// Accept both 12.5 and "12.50" without going through float64.
			if d.Next() == jx.String {
				req.Price, err = d.Str()
			} else {
				var n jx.Num
				n, err = d.Num()
				req.Price = n.String()
			}
		case "inStock":
			req.InStock, err = d.Bool()
		case "category":
			req.Category, err = d.Str()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

func decodeAddress(d *jx.Decoder, a *addressRequest) error {
	return d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "street":
			a.Street, err = d.Str()
		case "city":
			a.City, err = d.Str()
		case "postalCode":
			a.PostalCode, err = d.Str()
		case "country":
			a.Country, err = d.Str()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

func decodeCreateCustomer(d *jx.Decoder, req *createCustomerRequest) error {
	return d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "name":
			req.Name, err = d.Str()
		case "email":
			req.Email, err = d.Str()
		case "address":
			err = decodeAddress(d, &req.Address)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

func decodeItem(d *jx.Decoder, item *itemRequest) error {
	return d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "productId":
			item.ProductID, err = d.Str()
		case "quantity":
			item.Quantity, err = d.Int()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}

func decodePlaceOrder(d *jx.Decoder, req *placeOrderRequest) error {
	return d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				var item itemRequest
				if err := decodeItem(d, &item); err != nil {
					return err
				}
				req.Items = append(req.Items, item)
				return nil
			})
		case "deliveryDate":
			var s string
			if s, err = d.Str(); err == nil {
				req.DeliveryDate, err = time.Parse(time.RFC3339, s)
			}
		case "giftWrap":
			req.GiftWrap, err = d.Bool()
		case "shippingAddress":
			if d.Next() == jx.Null {
				return d.Null()
			}
			req.ShippingAddress = &addressRequest{}
			err = decodeAddress(d, req.ShippingAddress)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
}
