package catalog

import (
	"sort"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// InStockOnly keeps products with at least one variant in stock.
func InStockOnly(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.InStock() {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy. The default mode keeps the server order.
func Sort(products []Product, mode enums.SortMode) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	var less func(a, b Product) bool
	switch mode {
	case enums.SortModePriceAsc:
		less = func(a, b Product) bool { return a.BasePrice.LessThan(b.BasePrice.Decimal) }
	case enums.SortModePriceDesc:
		less = func(a, b Product) bool { return a.BasePrice.GreaterThan(b.BasePrice.Decimal) }
	case enums.SortModeDateDesc:
		less = func(a, b Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case enums.SortModeDateAsc:
		less = func(a, b Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// FindProduct looks a product up by id.
func FindProduct(products []Product, id uint) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
