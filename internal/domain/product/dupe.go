package product

import "github.com/shopspring/decimal"

// dupeRatio is the price ceiling for a cheaper alternative, relative to the
// original product's price.
var dupeRatio = decimal.RequireFromString("0.6")

// FindDupe returns the first product in catalog order that can be offered as
// a cheaper alternative to original: same category, a different id, and a
// price strictly below 60% of the original's. Only dupe candidates get a
// suggestion.
//
// The first match wins even when a closer or cheaper one exists later in
// the list.
func FindDupe(catalog []Product, original Product) (Product, bool) {
	if !original.IsDupeCandidate {
		return Product{}, false
	}
	ceiling := original.Price.Mul(dupeRatio)
	for _, p := range catalog {
		if p.ID == original.ID || p.Category != original.Category {
			continue
		}
		if p.Price.LessThan(ceiling) {
			return p, true
		}
	}
	return Product{}, false
}
