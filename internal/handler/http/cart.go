package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/service"
	"github.com/vendora/marketplace/pkg/httputil"
	"github.com/vendora/marketplace/pkg/middleware"
	"github.com/vendora/marketplace/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CartLineRequest is the JSON request body for one cart line. Only the
// identifiers and quantity are read; any prices the client sends are ignored.
type CartLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"required,uuid"`
	SizeID    string `json:"size_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// DestinationRequest identifies the shipping destination for fee resolution.
type DestinationRequest struct {
	CountryCode string `json:"country_code" validate:"omitempty,len=2"`
	CountryName string `json:"country_name"`
}

// SaveCartRequest is the JSON request body for saving a cart.
type SaveCartRequest struct {
	Lines       []CartLineRequest   `json:"lines" validate:"required,min=1,max=100,dive"`
	Destination *DestinationRequest `json:"destination"`
}

// --- Handlers ---

// SaveCart handles POST /api/v1/cart
func (h *CartHandler) SaveCart(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SaveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	lines := make([]domain.CartLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = domain.CartLine{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			SizeID:    line.SizeID,
			Quantity:  line.Quantity,
		}
	}

	var dest service.Destination
	if req.Destination != nil {
		dest = service.Destination{
			CountryName: req.Destination.CountryName,
			CountryCode: req.Destination.CountryCode,
		}
	}

	userID := middleware.UserIDFromContext(r.Context())

	cart, err := h.service.SaveCart(r.Context(), userID, lines, dest)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: cart})
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}
