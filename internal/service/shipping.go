package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// Destination identifies a shipping destination as submitted by the caller,
// before it is resolved against the countries the marketplace serves.
type Destination struct {
	CountryName string
	CountryCode string
}

// ShippingService resolves destinations and computes shipping quotes.
type ShippingService struct {
	catalogRepo  repository.CatalogRepository
	shippingRepo repository.ShippingRepository
	logger       *slog.Logger
}

// NewShippingService creates a new shipping service.
func NewShippingService(catalogRepo repository.CatalogRepository, shippingRepo repository.ShippingRepository, logger *slog.Logger) *ShippingService {
	return &ShippingService{
		catalogRepo:  catalogRepo,
		shippingRepo: shippingRepo,
		logger:       logger,
	}
}

// ResolveDestination maps a submitted destination to a served country.
// Returns (nil, nil) for destinations the marketplace does not ship to;
// callers treat that as "no shipping options", not a failure.
func (s *ShippingService) ResolveDestination(ctx context.Context, dest Destination) (*domain.Country, error) {
	if dest.CountryName == "" && dest.CountryCode == "" {
		return nil, nil
	}

	country, err := s.shippingRepo.ResolveCountry(ctx, dest.CountryName, dest.CountryCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "destination not served",
				slog.String("country_code", dest.CountryCode),
				slog.String("country_name", dest.CountryName),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	return country, nil
}

// QuoteForProduct computes the shipping detail for one product shipped to the
// given country. A nil country yields an unavailable detail. The quote is
// deterministic and has no side effects.
func (s *ShippingService) QuoteForProduct(ctx context.Context, product *domain.Product, country *domain.Country) (*domain.ShippingDetail, error) {
	if country == nil {
		return &domain.ShippingDetail{Available: false}, nil
	}

	store, err := s.shippingRepo.StoreByID(ctx, product.StoreID)
	if err != nil {
		return nil, fmt.Errorf("fetch store %s: %w", product.StoreID, err)
	}

	rate, err := s.shippingRepo.RateFor(ctx, store.ID, country.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch shipping rate: %w", err)
	}

	eff := domain.ResolveEffectiveRate(store, rate)

	base, extra, err := eff.Fees(product.FeeMethod)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", product.ID, err)
	}

	free := product.FreeShipping.EligibleFor(country.ID)
	if free {
		base, extra = 0, 0
	}

	return &domain.ShippingDetail{
		Available:       true,
		Method:          product.FeeMethod,
		ShippingService: eff.ShippingService,
		BaseFee:         base,
		ExtraFee:        extra,
		DeliveryMinDays: eff.DeliveryMinDays,
		DeliveryMaxDays: eff.DeliveryMaxDays,
		ReturnPolicy:    eff.ReturnPolicy,
		FreeShipping:    free,
		Country:         country,
	}, nil
}

// Quote is the standalone quote operation behind GET /shipping/quote. It
// resolves the product and destination, then prices the given quantity and
// per-unit weight.
func (s *ShippingService) Quote(ctx context.Context, productID string, dest Destination, quantity int, weightGrams int64) (*domain.ShippingDetail, int64, error) {
	if productID == "" {
		return nil, 0, apperrors.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return nil, 0, apperrors.InvalidInput("quantity must be positive")
	}

	product, err := s.catalogRepo.ProductByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	country, err := s.ResolveDestination(ctx, dest)
	if err != nil {
		return nil, 0, err
	}

	detail, err := s.QuoteForProduct(ctx, product, country)
	if err != nil {
		return nil, 0, err
	}

	fee, err := detail.LineFee(quantity, weightGrams)
	if err != nil {
		return nil, 0, err
	}

	return detail, fee, nil
}
