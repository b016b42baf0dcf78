package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/service"
	"github.com/vendora/marketplace/pkg/httputil"
)

// ShippingHandler handles HTTP requests for shipping quote endpoints.
type ShippingHandler struct {
	service *service.ShippingService
	logger  *slog.Logger
}

// NewShippingHandler creates a new shipping HTTP handler.
func NewShippingHandler(svc *service.ShippingService, logger *slog.Logger) *ShippingHandler {
	return &ShippingHandler{
		service: svc,
		logger:  logger,
	}
}

// QuoteResponse is the JSON response body for a shipping quote.
type QuoteResponse struct {
	Shipping *domain.ShippingDetail `json:"shipping"`
	Fee      int64                  `json:"fee"`
}

// Quote handles GET /api/v1/shipping/quote
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, r.URL.Query().Get("product_id"))
	if !ok {
		return
	}

	quantity := 1
	if v := r.URL.Query().Get("quantity"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "quantity must be a valid positive integer"},
			})
			return
		}
		quantity = q
	}

	var weightGrams int64
	if v := r.URL.Query().Get("weight_grams"); v != "" {
		wg, err := strconv.ParseInt(v, 10, 64)
		if err != nil || wg < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "weight_grams must be a valid non-negative integer"},
			})
			return
		}
		weightGrams = wg
	}

	dest := service.Destination{
		CountryName: r.URL.Query().Get("country_name"),
		CountryCode: r.URL.Query().Get("country_code"),
	}

	detail, fee, err := h.service.Quote(r.Context(), productID.String(), dest, quantity, weightGrams)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: QuoteResponse{Shipping: detail, Fee: fee}})
}
