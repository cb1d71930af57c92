package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const document = `{
  "products": [
    {"id": 1, "name": "Apple", "price": "9.500", "available": true, "best_seller": false, "categories": [1], "img": "apple.png", "description": "Red"},
    {"id": 2, "name": "Banana", "price": "35.000", "available": false, "best_seller": true, "categories": [2], "img": "banana.png", "description": "Yellow"}
  ],
  "categories": [
    {"categori_id": 1, "name": "Fruit"},
    {"categori_id": 2, "name": "Tropical"}
  ]
}`

func newTestLoader(t *testing.T, source string, timeout time.Duration) (*Loader, *memory.CatalogRepository) {
	t.Helper()
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewCatalogRepository(tracer, logger)
	meter := metricnoop.NewMeterProvider().Meter("test")
	return NewLoader(source, timeout, repo, tracer, meter, logger), repo
}

func waitDone(t *testing.T, l *Loader) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("catalog load did not finish")
	}
}

func TestLoaderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	loader, repo := newTestLoader(t, path, time.Second)
	assert.Equal(t, domain.LoadPending, loader.Status().State)

	loader.Start(context.Background())
	loader.Start(context.Background())
	waitDone(t, loader)

	status := loader.Status()
	assert.Equal(t, domain.LoadLoaded, status.State)
	assert.Equal(t, 2, status.Products)
	assert.Equal(t, 2, status.Categories)
	assert.NoError(t, status.Err)
	assert.False(t, status.FinishedAt.IsZero())

	products, err := repo.FindAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, domain.Product{
		ID: 1, Name: "Apple", Price: "9.500", Available: true,
		Categories: []int{1}, Img: "apple.png", Description: "Red",
	}, products[0])

	categories, err := repo.FindAllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Category{{ID: 1, Name: "Fruit"}, {ID: 2, Name: "Tropical"}}, categories)
}

func TestLoaderFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(document))
	}))
	defer srv.Close()

	loader, repo := newTestLoader(t, srv.URL+"/data.json", time.Second)
	loader.Start(context.Background())
	waitDone(t, loader)

	assert.Equal(t, domain.LoadLoaded, loader.Status().State)
	products, err := repo.FindAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestLoaderFailuresLeaveCatalogEmpty(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hung.Close()

	badFile := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badFile, []byte("{not json"), 0o600))

	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{name: "missing file", source: filepath.Join(t.TempDir(), "missing.json"), wantErr: "no such file"},
		{name: "malformed document", source: badFile, wantErr: "failed to decode catalog"},
		{name: "http error", source: notFound.URL, wantErr: "unexpected status"},
		{name: "hung request", source: hung.URL, wantErr: "failed to fetch catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, repo := newTestLoader(t, tt.source, 200*time.Millisecond)
			loader.Start(context.Background())
			waitDone(t, loader)

			status := loader.Status()
			assert.Equal(t, domain.LoadFailed, status.State)
			require.Error(t, status.Err)
			assert.Contains(t, status.Err.Error(), tt.wantErr)

			products, err := repo.FindAllProducts(context.Background())
			require.NoError(t, err)
			assert.Empty(t, products)
		})
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(document))
	require.NoError(t, err)
	assert.Len(t, doc.Products, 2)
	assert.Equal(t, []int{2}, doc.Products[1].Categories)
	assert.True(t, doc.Products[1].BestSeller)

	_, err = Decode(strings.NewReader(`{"items": []}`))
	assert.Error(t, err)
}
