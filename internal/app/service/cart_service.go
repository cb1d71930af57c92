package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/catalog-browser-api/internal/app/dto"
	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CartService handles shopping cart use cases.
// Mutations derive the next cart value from the stored one inside the repository's Update.
type CartService struct {
	carts      domain.CartRepository
	catalog    domain.CatalogRepository
	policy     domain.RemovalPolicy
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewCartService creates a new cart service
func NewCartService(
	carts domain.CartRepository,
	catalog domain.CatalogRepository,
	policy domain.RemovalPolicy,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CartService {
	operations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	return &CartService{
		carts:      carts,
		catalog:    catalog,
		policy:     policy,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
}

func (s *CartService) fail(ctx context.Context, span trace.Span, operation string, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.WarnContext(ctx, msg,
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "failure"),
		),
	)
	return err
}

func (s *CartService) succeed(ctx context.Context, operation string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", "success"),
		),
	)
}

// CreateCart starts a new, empty cart
func (s *CartService) CreateCart(ctx context.Context) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.CreateCart")
	defer span.End()

	cart := domain.NewCart()
	span.SetAttributes(attribute.String("cart.id", cart.ID))

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, s.fail(ctx, span, "create", err, "Failed to store cart")
	}

	s.succeed(ctx, "create")
	s.logger.InfoContext(ctx, "Cart created",
		slog.String("cart_id", cart.ID),
	)

	span.SetStatus(codes.Ok, "Cart created successfully")
	return dto.ToCartResponse(cart), nil
}

// GetCart retrieves a cart by ID
func (s *CartService) GetCart(ctx context.Context, cartID string) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", cartID))

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err, "Cart not found")
	}

	s.succeed(ctx, "read")
	span.SetStatus(codes.Ok, "Cart retrieved successfully")
	return dto.ToCartResponse(cart), nil
}

// DeleteCart ends a cart session
func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	ctx, span := s.tracer.Start(ctx, "CartService.DeleteCart")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", cartID))

	if err := s.carts.Delete(ctx, cartID); err != nil {
		return s.fail(ctx, span, "delete", err, "Failed to delete cart")
	}

	s.succeed(ctx, "delete")
	span.SetStatus(codes.Ok, "Cart deleted successfully")
	return nil
}

// AddToCart appends the catalog product to the end of the cart
func (s *CartService) AddToCart(ctx context.Context, cartID string, productID int) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddToCart")
	defer span.End()

	span.SetAttributes(
		attribute.String("cart.id", cartID),
		attribute.Int("product.id", productID),
	)

	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, s.fail(ctx, span, "add", fmt.Errorf("product %d: %w", productID, err), "Product not found")
	}

	cart, err := s.carts.Update(ctx, cartID, func(c domain.Cart) domain.Cart {
		return c.Add(product)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "add", err, "Cart not found")
	}

	span.SetAttributes(attribute.Int("cart.items", len(cart.Items)))
	s.succeed(ctx, "add")
	s.logger.InfoContext(ctx, "Product added to cart",
		slog.String("cart_id", cartID),
		slog.Int("product_id", productID),
		slog.Int("items", len(cart.Items)),
	)

	span.SetStatus(codes.Ok, "Product added to cart")
	return dto.ToCartResponse(cart), nil
}

// RemoveFromCart drops the product entries selected by the configured removal policy.
// Removing a product that is not in the cart leaves the cart unchanged.
func (s *CartService) RemoveFromCart(ctx context.Context, cartID string, productID int) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveFromCart")
	defer span.End()

	span.SetAttributes(
		attribute.String("cart.id", cartID),
		attribute.Int("product.id", productID),
		attribute.String("cart.removal_policy", string(s.policy)),
	)

	var before int
	cart, err := s.carts.Update(ctx, cartID, func(c domain.Cart) domain.Cart {
		before = len(c.Items)
		return c.Remove(productID, s.policy)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "remove", err, "Cart not found")
	}

	span.SetAttributes(attribute.Int("cart.removed", before-len(cart.Items)))
	s.succeed(ctx, "remove")
	s.logger.InfoContext(ctx, "Product removed from cart",
		slog.String("cart_id", cartID),
		slog.Int("product_id", productID),
		slog.Int("removed", before-len(cart.Items)),
	)

	span.SetStatus(codes.Ok, "Product removed from cart")
	return dto.ToCartResponse(cart), nil
}
