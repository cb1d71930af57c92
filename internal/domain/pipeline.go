package domain

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Predicate is a boolean condition over a single product
type Predicate func(Product) bool

// Pipeline derives the visible product list from the catalog and a FilterState
type Pipeline struct {
	locale language.Tag
}

// NewPipeline creates a pipeline that orders names with the collation rules of locale
func NewPipeline(locale language.Tag) *Pipeline {
	return &Pipeline{locale: locale}
}

// Predicates returns the active predicates for the filter state in the order
// they are applied: search, category, availability, best seller, price.
func Predicates(f FilterState) []Predicate {
	var preds []Predicate

	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		preds = append(preds, func(p Product) bool {
			return strings.Contains(strings.ToLower(p.Name), term)
		})
	}

	if f.Category != "" {
		id, err := strconv.Atoi(strings.TrimSpace(f.Category))
		preds = append(preds, func(p Product) bool {
			return err == nil && p.InCategory(id)
		})
	}

	if f.ShowAvailable {
		preds = append(preds, func(p Product) bool { return p.Available })
	}

	if f.ShowBestSellers {
		preds = append(preds, func(p Product) bool { return p.BestSeller })
	}

	switch f.PriceFilter {
	case PriceAbove30000:
		preds = append(preds, func(p Product) bool { return p.NumericPrice() > priceUpperThreshold })
	case PriceBelow10000:
		preds = append(preds, func(p Product) bool { return p.NumericPrice() < priceLowerThreshold })
	}

	return preds
}

// Matches reports whether the product passes every active predicate of f
func Matches(p Product, f FilterState) bool {
	for _, pred := range Predicates(f) {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Apply returns the products passing every active filter, ordered by f.SortBy.
// The input slice is left untouched. Without a sort order the relative order
// of the input is kept.
func (pl *Pipeline) Apply(products []Product, f FilterState) []Product {
	preds := Predicates(f)

	out := make([]Product, 0, len(products))
next:
	for _, p := range products {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}

	if cmpFn := pl.comparator(f.SortBy); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

// comparator returns nil when no ordering is selected.
// Unparseable prices compare as NaN, which cmp.Compare places first.
func (pl *Pipeline) comparator(by SortBy) func(a, b Product) int {
	switch by {
	case SortName:
		// collators keep internal buffers; one per call
		c := collate.New(pl.locale)
		return func(a, b Product) int {
			return c.CompareString(a.Name, b.Name)
		}
	case SortLowPrice:
		return func(a, b Product) int {
			return cmp.Compare(a.NumericPrice(), b.NumericPrice())
		}
	case SortHighPrice:
		return func(a, b Product) int {
			return cmp.Compare(b.NumericPrice(), a.NumericPrice())
		}
	}
	return nil
}
