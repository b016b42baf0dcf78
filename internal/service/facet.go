package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

const defaultFacetTake = 50

// FacetQuery narrows the size facet aggregation. Empty fields apply no
// filtering.
type FacetQuery struct {
	CategoryURL    string
	SubCategoryURL string
	OfferURL       string
	StoreURL       string
}

// SizeFacets is the aggregation result: the ordered distinct labels plus the
// total match count, which is computed independently of the take cap.
type SizeFacets struct {
	Sizes      []string `json:"sizes"`
	TotalCount int      `json:"total_count"`
}

// FacetService aggregates size facets over the catalog.
type FacetService struct {
	facetRepo repository.FacetRepository
	logger    *slog.Logger
}

// NewFacetService creates a new facet service.
func NewFacetService(facetRepo repository.FacetRepository, logger *slog.Logger) *FacetService {
	return &FacetService{
		facetRepo: facetRepo,
		logger:    logger,
	}
}

// GetSizeFacets returns the deduplicated size labels present in inventory
// matching the query, in reference size order. An unresolvable store URL
// yields an empty facet set, distinct from "no store filter".
func (s *FacetService) GetSizeFacets(ctx context.Context, query FacetQuery, take int) (*SizeFacets, error) {
	if take <= 0 {
		take = defaultFacetTake
	}

	filter := repository.FacetFilter{
		CategoryURL:    query.CategoryURL,
		SubCategoryURL: query.SubCategoryURL,
		OfferURL:       query.OfferURL,
	}

	if query.StoreURL != "" {
		storeID, err := s.facetRepo.StoreIDByURL(ctx, query.StoreURL)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.logger.DebugContext(ctx, "store url did not resolve",
					slog.String("store_url", query.StoreURL),
				)
				return &SizeFacets{Sizes: []string{}}, nil
			}
			return nil, err
		}
		filter.StoreID = storeID
	}

	labels, total, err := s.facetRepo.SizeLabels(ctx, filter, take)
	if err != nil {
		return nil, err
	}

	return &SizeFacets{
		Sizes:      domain.SortSizeLabels(labels),
		TotalCount: total,
	}, nil
}
