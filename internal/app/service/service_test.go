package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/text/language"
)

type staticStatus domain.LoadStatus

func (s staticStatus) Status() domain.LoadStatus { return domain.LoadStatus(s) }

type fixture struct {
	catalogRepo *memory.CatalogRepository
	cartRepo    *memory.CartRepository
	catalog     *CatalogService
	carts       *CartService
}

func newFixture(t *testing.T, policy domain.RemovalPolicy) *fixture {
	t.Helper()
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalogRepo := memory.NewCatalogRepository(tracer, logger)
	require.NoError(t, catalogRepo.Replace(context.Background(), domain.Catalog{
		Products: []domain.Product{
			{ID: 1, Name: "Apple", Price: "9.500", Available: true, Categories: []int{1}},
			{ID: 2, Name: "Banana", Price: "35.000", BestSeller: true, Categories: []int{2}},
		},
		Categories: []domain.Category{{ID: 1, Name: "Fruit"}, {ID: 2, Name: "Tropical"}},
	}))
	cartRepo := memory.NewCartRepository(tracer, logger)

	status := staticStatus{State: domain.LoadLoaded, Source: "data.json", Products: 2, Categories: 2}

	return &fixture{
		catalogRepo: catalogRepo,
		cartRepo:    cartRepo,
		catalog:     NewCatalogService(catalogRepo, domain.NewPipeline(language.Und), status, tracer, meter, logger),
		carts:       NewCartService(cartRepo, catalogRepo, policy, tracer, meter, logger),
	}
}

func TestCatalogService_ListProducts(t *testing.T) {
	f := newFixture(t, domain.RemoveAll)
	ctx := context.Background()

	all, err := f.catalog.ListProducts(ctx, domain.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, "Apple", all.Products[0].Name)

	cheap, err := f.catalog.ListProducts(ctx, domain.FilterState{PriceFilter: domain.PriceBelow10000})
	require.NoError(t, err)
	require.Equal(t, 1, cheap.Count)
	assert.Equal(t, 1, cheap.Products[0].ID)

	sorted, err := f.catalog.ListProducts(ctx, domain.FilterState{SortBy: domain.SortHighPrice})
	require.NoError(t, err)
	assert.Equal(t, 2, sorted.Products[0].ID)

	none, err := f.catalog.ListProducts(ctx, domain.FilterState{SearchTerm: "kiwi"})
	require.NoError(t, err)
	assert.Zero(t, none.Count)
	assert.NotNil(t, none.Products)
}

func TestCatalogService_GetProductByID(t *testing.T) {
	f := newFixture(t, domain.RemoveAll)
	ctx := context.Background()

	p, err := f.catalog.GetProductByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Banana", p.Name)
	assert.True(t, p.BestSeller)

	_, err = f.catalog.GetProductByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_ListCategoriesAndStatus(t *testing.T) {
	f := newFixture(t, domain.RemoveAll)
	ctx := context.Background()

	categories, err := f.catalog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Tropical", categories[1].Name)

	status := f.catalog.Status(ctx)
	assert.Equal(t, "loaded", status.State)
	assert.Equal(t, 2, status.Products)
	assert.Empty(t, status.Error)
	assert.Nil(t, status.FinishedAt)
}

func TestCartService(t *testing.T) {
	ctx := context.Background()

	t.Run("add twice then remove all", func(t *testing.T) {
		f := newFixture(t, domain.RemoveAll)

		cart, err := f.carts.CreateCart(ctx)
		require.NoError(t, err)
		assert.Zero(t, cart.ItemCount)
		assert.NotNil(t, cart.Items)

		_, err = f.carts.AddToCart(ctx, cart.ID, 1)
		require.NoError(t, err)
		cart, err = f.carts.AddToCart(ctx, cart.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, cart.ItemCount)
		assert.Equal(t, 19000.0, cart.Total)

		cart, err = f.carts.RemoveFromCart(ctx, cart.ID, 1)
		require.NoError(t, err)
		assert.Zero(t, cart.ItemCount)
		assert.Zero(t, cart.Total)
	})

	t.Run("remove one policy", func(t *testing.T) {
		f := newFixture(t, domain.RemoveOne)

		cart, err := f.carts.CreateCart(ctx)
		require.NoError(t, err)
		for _, id := range []int{1, 2, 1} {
			_, err = f.carts.AddToCart(ctx, cart.ID, id)
			require.NoError(t, err)
		}

		cart, err = f.carts.RemoveFromCart(ctx, cart.ID, 1)
		require.NoError(t, err)
		require.Equal(t, 2, cart.ItemCount)
		assert.Equal(t, 2, cart.Items[0].ID)
		assert.Equal(t, 1, cart.Items[1].ID)

		got, err := f.carts.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Equal(t, cart, got)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t, domain.RemoveAll)
		cart, err := f.carts.CreateCart(ctx)
		require.NoError(t, err)

		_, err = f.carts.AddToCart(ctx, cart.ID, 42)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		got, err := f.carts.GetCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Zero(t, got.ItemCount)
	})

	t.Run("unknown cart", func(t *testing.T) {
		f := newFixture(t, domain.RemoveAll)

		_, err := f.carts.GetCart(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
		_, err = f.carts.AddToCart(ctx, "nope", 1)
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
		_, err = f.carts.RemoveFromCart(ctx, "nope", 1)
		assert.ErrorIs(t, err, domain.ErrCartNotFound)
		assert.ErrorIs(t, f.carts.DeleteCart(ctx, "nope"), domain.ErrCartNotFound)
	})

	t.Run("delete ends the session", func(t *testing.T) {
		f := newFixture(t, domain.RemoveAll)
		cart, err := f.carts.CreateCart(ctx)
		require.NoError(t, err)

		require.NoError(t, f.carts.DeleteCart(ctx, cart.ID))
		_, err = f.carts.GetCart(ctx, cart.ID)
		assert.True(t, errors.Is(err, domain.ErrCartNotFound))
		assert.Zero(t, f.cartRepo.Len())
	})
}
