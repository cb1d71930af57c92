package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CatalogRepository is an in-memory implementation of domain.CatalogRepository.
// Products keep the order of the source document.
type CatalogRepository struct {
	mu         sync.RWMutex
	products   []domain.Product
	byID       map[int]int
	categories []domain.Category
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewCatalogRepository creates an empty in-memory catalog
func NewCatalogRepository(tracer trace.Tracer, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		byID:   make(map[int]int),
		tracer: tracer,
		logger: logger,
	}
}

// Replace swaps the whole catalog
func (r *CatalogRepository) Replace(ctx context.Context, catalog domain.Catalog) error {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.Replace")
	defer span.End()

	products := slices.Clone(catalog.Products)
	categories := slices.Clone(catalog.Categories)

	byID := make(map[int]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ID]; dup {
			r.logger.WarnContext(ctx, "Duplicate product id in catalog, keeping first",
				slog.Int("product_id", p.ID),
			)
			continue
		}
		byID[p.ID] = i
	}

	r.mu.Lock()
	r.products = products
	r.byID = byID
	r.categories = categories
	r.mu.Unlock()

	span.SetAttributes(
		attribute.Int("catalog.products", len(products)),
		attribute.Int("catalog.categories", len(categories)),
	)

	r.logger.InfoContext(ctx, "Catalog stored in repository",
		slog.Int("products", len(products)),
		slog.Int("categories", len(categories)),
	)

	span.SetStatus(codes.Ok, "Catalog replaced")
	return nil
}

// FindAllProducts returns a snapshot of every product in source order
func (r *CatalogRepository) FindAllProducts(ctx context.Context) ([]domain.Product, error) {
	_, span := r.tracer.Start(ctx, "CatalogRepository.FindAllProducts")
	defer span.End()

	r.mu.RLock()
	products := slices.Clone(r.products)
	r.mu.RUnlock()

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved")
	return products, nil
}

// FindProductByID retrieves a product by ID
func (r *CatalogRepository) FindProductByID(ctx context.Context, id int) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.FindProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.byID[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found",
			slog.Int("product_id", id),
		)
		return domain.Product{}, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return r.products[i], nil
}

// FindAllCategories returns a snapshot of every category in source order
func (r *CatalogRepository) FindAllCategories(ctx context.Context) ([]domain.Category, error) {
	_, span := r.tracer.Start(ctx, "CatalogRepository.FindAllCategories")
	defer span.End()

	r.mu.RLock()
	categories := slices.Clone(r.categories)
	r.mu.RUnlock()

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	span.SetStatus(codes.Ok, "Categories retrieved")
	return categories, nil
}
