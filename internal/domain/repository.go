package domain

import (
	"context"
)

// CatalogRepository defines the contract for the catalog store
type CatalogRepository interface {
	Replace(ctx context.Context, catalog Catalog) error
	FindAllProducts(ctx context.Context) ([]Product, error)
	FindProductByID(ctx context.Context, id int) (Product, error)
	FindAllCategories(ctx context.Context) ([]Category, error)
}

// CartRepository defines the contract for cart storage
type CartRepository interface {
	Save(ctx context.Context, cart Cart) error
	FindByID(ctx context.Context, id string) (Cart, error)
	// Update replaces the cart with fn's result atomically
	Update(ctx context.Context, id string, fn func(Cart) Cart) (Cart, error)
	Delete(ctx context.Context, id string) error
}
