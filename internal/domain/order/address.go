package order

import (
	"strings"

	"github.com/xenking/order-capture/internal/domain/domainerr"
)

// Address is a postal address used for shipping.
type Address struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Validate checks that the address can be shipped to.
func (a Address) Validate() error {
	switch {
	case strings.TrimSpace(a.Street) == "":
		return domainerr.InvalidValue("shipping_address.street", "shipping address street is required")
	case strings.TrimSpace(a.City) == "":
		return domainerr.InvalidValue("shipping_address.city", "shipping address city is required")
	case strings.TrimSpace(a.Country) == "":
		return domainerr.InvalidValue("shipping_address.country", "shipping address country is required")
	}
	return nil
}

// IsZero reports whether no field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}
