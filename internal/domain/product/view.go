package product

import "github.com/xenking/order-capture/internal/domain/money"

// Summary is the list view of a product.
type Summary struct {
	ID      string
	Name    string
	InStock bool
	Price   money.Money
}

// Detail is the single-product view of a product.
type Detail struct {
	ID          string
	Name        string
	InStock     bool
	Price       money.Money
	Description string
	Category    string
}

// ToSummary projects p onto its list view.
func ToSummary(p Product) Summary {
	return Summary{
		ID:      p.ID,
		Name:    p.Name,
		InStock: p.InStock,
		Price:   p.Price,
	}
}

// ToDetail projects p onto its single-product view.
func ToDetail(p Product) Detail {
	return Detail{
		ID:          p.ID,
		Name:        p.Name,
		InStock:     p.InStock,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
	}
}

// Summaries projects every product in ps, preserving order.
func Summaries(ps []Product) []Summary {
	out := make([]Summary, len(ps))
	for i, p := range ps {
		out[i] = ToSummary(p)
	}
	return out
}
