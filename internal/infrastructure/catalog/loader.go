package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// maxDocumentSize bounds the catalog document read from any source
const maxDocumentSize = 32 << 20

// Loader fetches the catalog document once and stores it in the repository.
// A failed load is logged and leaves the repository empty; there is no retry.
type Loader struct {
	source  string
	timeout time.Duration
	repo    domain.CatalogRepository
	client  *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
	loads   metric.Int64Counter

	mu     sync.RWMutex
	status domain.LoadStatus
	once   sync.Once
	done   chan struct{}
}

// NewLoader creates a loader for source, which is either an http(s) URL or a file path
func NewLoader(
	source string,
	timeout time.Duration,
	repo domain.CatalogRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *Loader {
	loads, _ := meter.Int64Counter(
		"catalog.load",
		metric.WithDescription("Catalog load attempts by result"),
	)

	return &Loader{
		source:  source,
		timeout: timeout,
		repo:    repo,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: tracer,
		logger: logger,
		loads:  loads,
		status: domain.LoadStatus{State: domain.LoadPending, Source: source},
		done:   make(chan struct{}),
	}
}

// Start runs the load in the background. Only the first call has an effect.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go func() {
			defer close(l.done)
			l.load(ctx)
		}()
	})
}

// Done is closed when the load has finished, successfully or not
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Status returns the current load status
func (l *Loader) Status() domain.LoadStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

func (l *Loader) load(ctx context.Context) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	ctx, span := l.tracer.Start(ctx, "CatalogLoader.Load")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.source", l.source))
	l.logger.InfoContext(ctx, "Loading catalog", slog.String("source", l.source))

	doc, err := l.fetch(ctx)
	if err == nil {
		err = l.repo.Replace(ctx, doc)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog load failed")
		l.logger.ErrorContext(ctx, "Failed to load catalog",
			slog.String("source", l.source),
			slog.String("error", err.Error()),
		)
		l.loads.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "failure")))
		l.finish(domain.LoadStatus{State: domain.LoadFailed, Err: err})
		return
	}

	for _, p := range doc.Products {
		if math.IsNaN(p.NumericPrice()) {
			l.logger.WarnContext(ctx, "Product price is not a number; it will fail price filters",
				slog.Int("product_id", p.ID),
				slog.String("price", p.Price),
			)
		}
	}

	span.SetAttributes(
		attribute.Int("catalog.products", len(doc.Products)),
		attribute.Int("catalog.categories", len(doc.Categories)),
	)
	l.loads.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "success")))
	l.logger.InfoContext(ctx, "Catalog loaded successfully",
		slog.Int("products", len(doc.Products)),
		slog.Int("categories", len(doc.Categories)),
	)

	span.SetStatus(codes.Ok, "Catalog loaded")
	l.finish(domain.LoadStatus{
		State:      domain.LoadLoaded,
		Products:   len(doc.Products),
		Categories: len(doc.Categories),
	})
}

func (l *Loader) finish(status domain.LoadStatus) {
	status.Source = l.source
	status.FinishedAt = time.Now()

	l.mu.Lock()
	l.status = status
	l.mu.Unlock()
}

func (l *Loader) fetch(ctx context.Context) (domain.Catalog, error) {
	var (
		body io.ReadCloser
		err  error
	)
	if isURL(l.source) {
		body, err = l.openURL(ctx)
	} else {
		body, err = os.Open(l.source)
	}
	if err != nil {
		return domain.Catalog{}, err
	}
	defer body.Close()

	return Decode(io.LimitReader(body, maxDocumentSize))
}

func (l *Loader) openURL(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch catalog: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Decode parses a catalog document
func Decode(r io.Reader) (domain.Catalog, error) {
	var doc domain.Catalog
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc.Products == nil && doc.Categories == nil {
		return domain.Catalog{}, errors.New("failed to decode catalog: no products or categories")
	}
	return doc, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
