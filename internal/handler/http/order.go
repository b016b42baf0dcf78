package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/service"
	"github.com/vendora/marketplace/pkg/httputil"
	"github.com/vendora/marketplace/pkg/middleware"
	"github.com/vendora/marketplace/pkg/validator"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddressRequest is the JSON request body for the shipping address.
type AddressRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code" validate:"required"`
	CountryCode string `json:"country_code" validate:"required,len=2"`
	CountryName string `json:"country_name" validate:"required"`
	Phone       string `json:"phone"`
}

// PlaceOrderRequest is the JSON request body for placing an order.
type PlaceOrderRequest struct {
	CartID          string         `json:"cart_id" validate:"required,uuid"`
	CouponCode      string         `json:"coupon_code"`
	ShippingAddress AddressRequest `json:"shipping_address" validate:"required"`
}

// --- Handlers ---

// PlaceOrder handles POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PlaceOrderRequest
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

	address := domain.Address{
		FullName:    req.ShippingAddress.FullName,
		AddressLine: req.ShippingAddress.AddressLine,
		City:        req.ShippingAddress.City,
		State:       req.ShippingAddress.State,
		PostalCode:  req.ShippingAddress.PostalCode,
		CountryCode: req.ShippingAddress.CountryCode,
		CountryName: req.ShippingAddress.CountryName,
		Phone:       req.ShippingAddress.Phone,
	}

	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.PlaceOrder(r.Context(), userID, req.CartID, address, req.CouponCode)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), id.String(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
