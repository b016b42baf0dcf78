package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vendora/marketplace/internal/service"
	"github.com/vendora/marketplace/pkg/httputil"
)

// FacetHandler handles HTTP requests for catalog facet endpoints.
type FacetHandler struct {
	service *service.FacetService
	logger  *slog.Logger
}

// NewFacetHandler creates a new facet HTTP handler.
func NewFacetHandler(svc *service.FacetService, logger *slog.Logger) *FacetHandler {
	return &FacetHandler{
		service: svc,
		logger:  logger,
	}
}

// GetSizes handles GET /api/v1/sizes
func (h *FacetHandler) GetSizes(w http.ResponseWriter, r *http.Request) {
	query := service.FacetQuery{
		CategoryURL:    r.URL.Query().Get("category"),
		SubCategoryURL: r.URL.Query().Get("subCategory"),
		OfferURL:       r.URL.Query().Get("offer"),
		StoreURL:       r.URL.Query().Get("store"),
	}

	var take int
	if v := r.URL.Query().Get("take"); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil || t < 1 || t > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "take must be a valid integer between 1 and 100"},
			})
			return
		}
		take = t
	}

	facets, err := h.service.GetSizeFacets(r.Context(), query, take)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: facets})
}
