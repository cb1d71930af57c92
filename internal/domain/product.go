package domain

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Product represents a catalog entry as published by the data source
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Available   bool   `json:"available"`
	BestSeller  bool   `json:"best_seller"`
	Categories  []int  `json:"categories"`
	Img         string `json:"img"`
	Description string `json:"description"`
}

// Category represents a product category
type Category struct {
	ID   int    `json:"categori_id"`
	Name string `json:"name"`
}

// Catalog is the document loaded from the data source
type Catalog struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// ParsePrice converts a price string into a number.
// Every '.' is treated as a thousands separator, so "35.000" is 35000 and a
// decimal price such as "9.99" reads as 999. Unparseable input yields NaN.
func ParsePrice(price string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(price, ".", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// NumericPrice returns the parsed price of the product
func (p Product) NumericPrice() float64 {
	return ParsePrice(p.Price)
}

// InCategory reports whether the product belongs to the category
func (p Product) InCategory(id int) bool {
	return slices.Contains(p.Categories, id)
}
