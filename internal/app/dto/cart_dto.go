package dto

import "github.com/mrops-br/catalog-browser-api/internal/domain"

// AddCartItemRequest represents the request to add a product to a cart
type AddCartItemRequest struct {
	ProductID *int `json:"product_id"`
}

// CartResponse represents the cart response
type CartResponse struct {
	ID            string             `json:"id"`
	Items         []*ProductResponse `json:"items"`
	ItemCount     int                `json:"item_count"`
	Total         float64            `json:"total"`
	UnpricedItems int                `json:"unpriced_items"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c domain.Cart) *CartResponse {
	total, unpriced := c.Total()
	return &CartResponse{
		ID:            c.ID,
		Items:         ToProductResponseList(c.Items),
		ItemCount:     len(c.Items),
		Total:         total,
		UnpricedItems: unpriced,
	}
}
