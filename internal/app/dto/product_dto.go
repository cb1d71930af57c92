package dto

import (
	"time"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
)

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Available   bool   `json:"available"`
	BestSeller  bool   `json:"best_seller"`
	Categories  []int  `json:"categories"`
	Img         string `json:"img"`
	Description string `json:"description"`
}

// CategoryResponse represents the category response
type CategoryResponse struct {
	ID   int    `json:"categori_id"`
	Name string `json:"name"`
}

// ProductListResponse wraps a filtered product list
type ProductListResponse struct {
	Count    int                `json:"count"`
	Products []*ProductResponse `json:"products"`
}

// CatalogStatusResponse represents the state of the catalog load
type CatalogStatusResponse struct {
	State      string     `json:"state"`
	Source     string     `json:"source"`
	Products   int        `json:"products"`
	Categories int        `json:"categories"`
	Error      string     `json:"error,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p domain.Product) *ProductResponse {
	categories := p.Categories
	if categories == nil {
		categories = []int{}
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Available:   p.Available,
		BestSeller:  p.BestSeller,
		Categories:  categories,
		Img:         p.Img,
		Description: p.Description,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// ToCategoryResponseList converts domain Categories to CategoryResponse list
func ToCategoryResponseList(categories []domain.Category) []*CategoryResponse {
	responses := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = &CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return responses
}

// ToCatalogStatusResponse converts a load status
func ToCatalogStatusResponse(s domain.LoadStatus) *CatalogStatusResponse {
	resp := &CatalogStatusResponse{
		State:      string(s.State),
		Source:     s.Source,
		Products:   s.Products,
		Categories: s.Categories,
	}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	if !s.FinishedAt.IsZero() {
		finished := s.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}
