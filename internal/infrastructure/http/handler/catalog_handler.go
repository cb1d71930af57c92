package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-browser-api/internal/app/service"
	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/http/response"
)

var errInvalidID = errors.New("invalid id")

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ParseFilterState builds a FilterState from query parameters:
// search, category, available, best_seller, price and sort.
func ParseFilterState(q url.Values) (domain.FilterState, error) {
	f := domain.FilterState{
		SearchTerm: q.Get("search"),
		Category:   q.Get("category"),
	}

	var err error
	if f.ShowAvailable, err = parseToggle(q, "available"); err != nil {
		return domain.FilterState{}, err
	}
	if f.ShowBestSellers, err = parseToggle(q, "best_seller"); err != nil {
		return domain.FilterState{}, err
	}
	if f.PriceFilter, err = domain.ParsePriceFilter(q.Get("price")); err != nil {
		return domain.FilterState{}, err
	}
	if f.SortBy, err = domain.ParseSortBy(q.Get("sort")); err != nil {
		return domain.FilterState{}, err
	}
	return f, nil
}

func parseToggle(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s toggle %q", key, v)
	}
	return b, nil
}

func parseIntParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidID, raw)
	}
	return id, nil
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters, err := ParseFilterState(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid product filters",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	products, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.JSON(w, http.StatusOK, categories)
}

// Status handles GET /catalog/status
func (h *CatalogHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.Status(r.Context()))
}
