package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPriceFilter = errors.New("invalid price filter")
	ErrInvalidSortBy      = errors.New("invalid sort order")
)

// PriceFilter selects a fixed price bracket
type PriceFilter string

const (
	PriceAny        PriceFilter = ""
	PriceAbove30000 PriceFilter = "above-30000"
	PriceBelow10000 PriceFilter = "below-10000"
)

const (
	priceUpperThreshold = 30000
	priceLowerThreshold = 10000
)

// ParsePriceFilter validates a price bracket name
func ParsePriceFilter(s string) (PriceFilter, error) {
	switch f := PriceFilter(s); f {
	case PriceAny, PriceAbove30000, PriceBelow10000:
		return f, nil
	}
	return PriceAny, fmt.Errorf("%w: %q", ErrInvalidPriceFilter, s)
}

// SortBy selects at most one ordering of the visible list
type SortBy string

const (
	SortNone      SortBy = ""
	SortName      SortBy = "name"
	SortLowPrice  SortBy = "low-price"
	SortHighPrice SortBy = "high-price"
)

// ParseSortBy validates a sort order name
func ParseSortBy(s string) (SortBy, error) {
	switch o := SortBy(s); o {
	case SortNone, SortName, SortLowPrice, SortHighPrice:
		return o, nil
	}
	return SortNone, fmt.Errorf("%w: %q", ErrInvalidSortBy, s)
}

// FilterState holds the current filter, search and sort selections.
// The zero value shows the whole catalog in its original order.
type FilterState struct {
	// Category is the selected category id as entered; empty means all
	Category        string
	ShowAvailable   bool
	ShowBestSellers bool
	PriceFilter     PriceFilter
	SortBy          SortBy
	SearchTerm      string
}

// IsZero reports whether no filter or ordering is active
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}
