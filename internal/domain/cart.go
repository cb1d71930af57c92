package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound         = errors.New("cart not found")
	ErrInvalidRemovalPolicy = errors.New("invalid cart removal policy")
)

// RemovalPolicy decides which entries a removal by product id drops
type RemovalPolicy string

const (
	// RemoveAll drops every entry with the product id
	RemoveAll RemovalPolicy = "all"
	// RemoveOne drops only the earliest entry with the product id
	RemoveOne RemovalPolicy = "one"
)

// ParseRemovalPolicy validates a removal policy name
func ParseRemovalPolicy(s string) (RemovalPolicy, error) {
	switch p := RemovalPolicy(s); p {
	case RemoveAll, RemoveOne:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRemovalPolicy, s)
}

// Cart is an ordered, duplicate-permitting sequence of products.
// Carts are values: Add and Remove return a new cart and leave the receiver unchanged.
type Cart struct {
	ID    string
	Items []Product
}

// NewCart creates an empty cart with a fresh id
func NewCart() Cart {
	return Cart{ID: uuid.New().String(), Items: []Product{}}
}

// Add appends the product to the end of the cart
func (c Cart) Add(p Product) Cart {
	items := make([]Product, 0, len(c.Items)+1)
	items = append(items, c.Items...)
	items = append(items, p)
	return Cart{ID: c.ID, Items: items}
}

// Remove drops the entries with productID selected by policy.
// Removing an id that is not in the cart returns an equal cart.
func (c Cart) Remove(productID int, policy RemovalPolicy) Cart {
	items := make([]Product, 0, len(c.Items))
	removed := false
	for _, p := range c.Items {
		if p.ID == productID && (policy != RemoveOne || !removed) {
			removed = true
			continue
		}
		items = append(items, p)
	}
	return Cart{ID: c.ID, Items: items}
}

// Count returns the number of entries with productID
func (c Cart) Count(productID int) int {
	n := 0
	for _, p := range c.Items {
		if p.ID == productID {
			n++
		}
	}
	return n
}

// Contains reports whether the cart holds at least one entry with productID
func (c Cart) Contains(productID int) bool {
	return slices.ContainsFunc(c.Items, func(p Product) bool { return p.ID == productID })
}

// Total sums the parsed prices of the entries.
// Entries whose price does not parse are skipped and counted in unpriced.
func (c Cart) Total() (total float64, unpriced int) {
	for _, p := range c.Items {
		v := p.NumericPrice()
		if math.IsNaN(v) {
			unpriced++
			continue
		}
		total += v
	}
	return total, unpriced
}
