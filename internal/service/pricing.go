package service

import (
	"context"
	"fmt"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// Quoter computes a shipping detail for one product at one destination.
// Implemented by ShippingService.
type Quoter interface {
	QuoteForProduct(ctx context.Context, product *domain.Product, country *domain.Country) (*domain.ShippingDetail, error)
}

// LineValidator re-derives every priced field of a cart line from catalog
// truth. Both the cart-save path and the order-placement path go through it,
// so the two can never disagree on pricing.
type LineValidator struct {
	catalogRepo repository.CatalogRepository
	quoter      Quoter
}

// NewLineValidator creates a new line validator.
func NewLineValidator(catalogRepo repository.CatalogRepository, quoter Quoter) *LineValidator {
	return &LineValidator{
		catalogRepo: catalogRepo,
		quoter:      quoter,
	}
}

// ValidateLine resolves one submitted line against the catalog and prices it
// for the given destination. The requested quantity is clamped to available
// stock; client-submitted prices and fees are never read. A nil country
// prices the line with no shipping component.
func (v *LineValidator) ValidateLine(ctx context.Context, line domain.CartLine, country *domain.Country) (*domain.CartItem, error) {
	if line.ProductID == "" || line.VariantID == "" || line.SizeID == "" {
		return nil, apperrors.InvalidInput("product, variant, and size ids are required")
	}
	if line.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	resolved, err := v.catalogRepo.ResolveLine(ctx, line.ProductID, line.VariantID, line.SizeID)
	if err != nil {
		return nil, err
	}

	quantity := line.Quantity
	if quantity > resolved.Size.Quantity {
		quantity = resolved.Size.Quantity
	}

	unitPrice := resolved.Size.DiscountedPrice()

	detail, err := v.quoter.QuoteForProduct(ctx, &resolved.Product, country)
	if err != nil {
		return nil, err
	}

	shippingFee, err := detail.LineFee(quantity, resolved.Variant.WeightGrams)
	if err != nil {
		return nil, fmt.Errorf("price line %s: %w", line.SizeID, err)
	}

	return &domain.CartItem{
		ProductID:       resolved.Product.ID,
		VariantID:       resolved.Variant.ID,
		SizeID:          resolved.Size.ID,
		StoreID:         resolved.Product.StoreID,
		Name:            resolved.Product.Name,
		SKU:             resolved.Variant.SKU,
		SizeLabel:       resolved.Size.Label,
		ImageURL:        resolved.Variant.ImageURL,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		ShippingFee:     shippingFee,
		TotalPrice:      unitPrice*int64(quantity) + shippingFee,
		ShippingService: detail.ShippingService,
		DeliveryMinDays: detail.DeliveryMinDays,
		DeliveryMaxDays: detail.DeliveryMaxDays,
	}, nil
}
