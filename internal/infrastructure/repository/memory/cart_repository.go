package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartRepository keeps carts in memory for the lifetime of the process
type CartRepository struct {
	mu     sync.RWMutex
	carts  map[string]domain.Cart
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCartRepository creates a new in-memory cart repository
func NewCartRepository(tracer trace.Tracer, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		carts:  make(map[string]domain.Cart),
		tracer: tracer,
		logger: logger,
	}
}

// Save stores the cart, replacing any previous value with the same ID
func (r *CartRepository) Save(ctx context.Context, cart domain.Cart) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("cart.id", cart.ID),
		attribute.Int("cart.items", len(cart.Items)),
	)

	r.mu.Lock()
	r.carts[cart.ID] = cart
	r.mu.Unlock()

	r.logger.DebugContext(ctx, "Cart saved in repository",
		slog.String("cart_id", cart.ID),
		slog.Int("items", len(cart.Items)),
	)

	span.SetStatus(codes.Ok, "Cart saved")
	return nil
}

// FindByID retrieves a cart by ID
func (r *CartRepository) FindByID(ctx context.Context, id string) (domain.Cart, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", id))

	r.mu.RLock()
	cart, exists := r.carts[id]
	r.mu.RUnlock()

	if !exists {
		span.RecordError(domain.ErrCartNotFound)
		span.SetStatus(codes.Error, "Cart not found")
		r.logger.WarnContext(ctx, "Cart not found",
			slog.String("cart_id", id),
		)
		return domain.Cart{}, domain.ErrCartNotFound
	}

	span.SetStatus(codes.Ok, "Cart found")
	return cart, nil
}

// Update applies fn to the stored cart and stores the result under one lock
func (r *CartRepository) Update(ctx context.Context, id string, fn func(domain.Cart) domain.Cart) (domain.Cart, error) {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", id))

	r.mu.Lock()
	cart, exists := r.carts[id]
	if exists {
		cart = fn(cart)
		r.carts[id] = cart
	}
	r.mu.Unlock()

	if !exists {
		span.RecordError(domain.ErrCartNotFound)
		span.SetStatus(codes.Error, "Cart not found")
		r.logger.WarnContext(ctx, "Cart not found",
			slog.String("cart_id", id),
		)
		return domain.Cart{}, domain.ErrCartNotFound
	}

	span.SetAttributes(attribute.Int("cart.items", len(cart.Items)))
	span.SetStatus(codes.Ok, "Cart updated")
	return cart, nil
}

// Delete discards a cart
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "CartRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("cart.id", id))

	r.mu.Lock()
	_, exists := r.carts[id]
	delete(r.carts, id)
	r.mu.Unlock()

	if !exists {
		span.RecordError(domain.ErrCartNotFound)
		span.SetStatus(codes.Error, "Cart not found")
		return domain.ErrCartNotFound
	}

	r.logger.InfoContext(ctx, "Cart deleted from repository",
		slog.String("cart_id", id),
	)

	span.SetStatus(codes.Ok, "Cart deleted")
	return nil
}

// Len returns the number of live carts
func (r *CartRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
