package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-browser-api/internal/app/dto"
	"github.com/mrops-br/catalog-browser-api/internal/app/service"
	"github.com/mrops-br/catalog-browser-api/internal/domain"
	"github.com/mrops-br/catalog-browser-api/internal/infrastructure/http/response"
)

var errMissingProductID = errors.New("product_id is required")

// CartHandler handles HTTP requests for shopping carts
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

func cartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound), errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, err)
	default:
		response.Error(w, http.StatusInternalServerError, err)
	}
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.CreateCart(r.Context())
	if err != nil {
		cartError(w, err)
		return
	}

	w.Header().Set("Location", "/carts/"+cart.ID)
	response.JSON(w, http.StatusCreated, cart)
}

// GetCart handles GET /carts/{id}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.GetCart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		cartError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cart)
}

// DeleteCart handles DELETE /carts/{id}
func (h *CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCart(r.Context(), chi.URLParam(r, "id")); err != nil {
		cartError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /carts/{id}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if req.ProductID == nil {
		response.Error(w, http.StatusBadRequest, errMissingProductID)
		return
	}

	cart, err := h.service.AddToCart(r.Context(), chi.URLParam(r, "id"), *req.ProductID)
	if err != nil {
		cartError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /carts/{id}/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIntParam(r, "productID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	cart, err := h.service.RemoveFromCart(r.Context(), chi.URLParam(r, "id"), productID)
	if err != nil {
		cartError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, cart)
}
