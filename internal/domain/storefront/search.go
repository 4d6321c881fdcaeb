package storefront

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSearch lowercases s and strips diacritics, so "Café" matches "cafe"
func NormalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// MatchesSearch reports whether the normalized term occurs in the product name
// or description. An empty term matches everything.
func (p *Product) MatchesSearch(term string) bool {
	term = NormalizeSearch(term)
	if term == "" {
		return true
	}
	return strings.Contains(NormalizeSearch(p.Name), term) ||
		strings.Contains(NormalizeSearch(p.Description), term)
}

// FilterProducts keeps the products matching term, preserving order
func FilterProducts(products []Product, term string) []Product {
	if NormalizeSearch(term) == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for i := range products {
		if products[i].MatchesSearch(term) {
			out = append(out, products[i])
		}
	}
	return out
}
