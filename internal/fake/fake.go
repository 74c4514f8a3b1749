// Package fake generates random catalog and customer data for seeding and
// tests.
package fake

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-capture/internal/domain/money"
	"github.com/xenking/order-capture/internal/domain/order"
	"github.com/xenking/order-capture/internal/domain/product"
)

// MaxPrice bounds generated prices.
const MaxPrice = 200

// Product returns an in-stock product with an assigned identifier.
func Product(f *gofakeit.Faker) product.Product {
	p := NewProduct(f)
	p.ID = f.UUID()
	p.InStock = true
	return p
}

// NewProduct returns a product as submitted to the catalog: random stock
// state and no identifier.
func NewProduct(f *gofakeit.Faker) product.Product {
	price, err := money.New(decimal.NewFromFloat(f.Price(0, MaxPrice)).Round(2))
	if err != nil {
		// f.Price never returns a negative amount.
		panic(err)
	}
	return product.Product{
		Name:        f.ProductName(),
		Description: f.ProductDescription(),
		Price:       price,
		InStock:     f.Bool(),
		Category:    f.ProductCategory(),
	}
}

// Products returns n distinct in-stock products.
func Products(f *gofakeit.Faker, n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		out[i] = Product(f)
	}
	return out
}

// Address returns a complete shipping address.
func Address(f *gofakeit.Faker) order.Address {
	return order.Address{
		Street:     f.Street(),
		City:       f.City(),
		PostalCode: f.Zip(),
		Country:    f.Country(),
	}
}
