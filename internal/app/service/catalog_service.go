package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/catalog-browser-api/internal/app/dto"
	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// LoadStatusProvider reports the state of the catalog load
type LoadStatusProvider interface {
	Status() domain.LoadStatus
}

// CatalogService handles catalog browsing use cases
type CatalogService struct {
	repo     domain.CatalogRepository
	pipeline *domain.Pipeline
	status   LoadStatusProvider
	tracer   trace.Tracer
	logger   *slog.Logger
	queries  metric.Int64Counter
	results  metric.Int64Histogram
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo domain.CatalogRepository,
	pipeline *domain.Pipeline,
	status LoadStatusProvider,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	// Initialize metrics
	queries, _ := meter.Int64Counter(
		"catalog.queries",
		metric.WithDescription("Total number of catalog queries"),
	)

	results, _ := meter.Int64Histogram(
		"catalog.query.results",
		metric.WithDescription("Number of products returned by a filtered listing"),
		metric.WithUnit("{product}"),
	)

	return &CatalogService{
		repo:     repo,
		pipeline: pipeline,
		status:   status,
		tracer:   tracer,
		logger:   logger,
		queries:  queries,
		results:  results,
	}
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.queries.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// ListProducts returns the catalog filtered and ordered by filters
func (s *CatalogService) ListProducts(ctx context.Context, filters domain.FilterState) (*dto.ProductListResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	span.SetAttributes(
		attribute.String("filter.search", filters.SearchTerm),
		attribute.String("filter.category", filters.Category),
		attribute.Bool("filter.available", filters.ShowAvailable),
		attribute.Bool("filter.best_seller", filters.ShowBestSellers),
		attribute.String("filter.price", string(filters.PriceFilter)),
		attribute.String("filter.sort", string(filters.SortBy)),
	)

	products, err := s.repo.FindAllProducts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "list", "failure")
		return nil, err
	}

	visible := s.pipeline.Apply(products, filters)

	span.SetAttributes(
		attribute.Int("product.total", len(products)),
		attribute.Int("product.count", len(visible)),
	)
	s.results.Record(ctx, int64(len(visible)))
	s.record(ctx, "list", "success")

	s.logger.DebugContext(ctx, "Products filtered",
		slog.Int("total", len(products)),
		slog.Int("count", len(visible)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return &dto.ProductListResponse{
		Count:    len(visible),
		Products: dto.ToProductResponseList(visible),
	}, nil
}

// GetProductByID retrieves a product by ID
func (s *CatalogService) GetProductByID(ctx context.Context, id int) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.Int("product_id", id),
		)
		s.record(ctx, "read", "not_found")
		return nil, err
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListCategories retrieves all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.repo.FindAllCategories(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve categories")
		s.logger.ErrorContext(ctx, "Failed to list categories",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "categories", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	s.record(ctx, "categories", "success")

	span.SetStatus(codes.Ok, "Categories listed successfully")
	return dto.ToCategoryResponseList(categories), nil
}

// Status reports the catalog load status
func (s *CatalogService) Status(ctx context.Context) *dto.CatalogStatusResponse {
	_, span := s.tracer.Start(ctx, "CatalogService.Status")
	defer span.End()

	status := s.status.Status()
	span.SetAttributes(attribute.String("catalog.state", string(status.State)))
	return dto.ToCatalogStatusResponse(status)
}
