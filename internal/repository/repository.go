package repository

import (
	"context"

	"github.com/vendora/marketplace/internal/domain"
)

// CatalogRepository provides read-only access to product truth data.
type CatalogRepository interface {
	// ResolveLine fetches the product, the requested variant, and the
	// requested size in one read. Returns apperrors.InvalidCombination when
	// the chain does not resolve (missing record or a variant/size that does
	// not belong to the product).
	ResolveLine(ctx context.Context, productID, variantID, sizeID string) (*domain.ResolvedLine, error)

	// ProductByID fetches a product with its free-shipping policy. Returns
	// apperrors.NotFound when absent.
	ProductByID(ctx context.Context, productID string) (*domain.Product, error)
}

// ShippingRepository resolves destination countries and per-country rate
// overrides.
type ShippingRepository interface {
	// ResolveCountry looks up a country by ISO code, falling back to a
	// case-insensitive name match. Returns apperrors.NotFound when the
	// destination is not served.
	ResolveCountry(ctx context.Context, name, code string) (*domain.Country, error)

	// StoreByID fetches a store with its default shipping fees.
	StoreByID(ctx context.Context, storeID string) (*domain.Store, error)

	// RateFor fetches the (store, country) shipping rate override. Returns
	// (nil, nil) when no override exists; callers fall back to store
	// defaults per field.
	RateFor(ctx context.Context, storeID, countryID string) (*domain.ShippingRate, error)
}

// CartRepository persists the single cart each user owns.
type CartRepository interface {
	// Replace atomically swaps the user's cart for the given one: the old
	// cart and its items are deleted and the new ones inserted in a single
	// transaction, so there is never a window with a partial cart.
	Replace(ctx context.Context, cart *domain.Cart) error

	// GetByUser fetches a user's cart with its items. Returns
	// apperrors.NotFound when the user has no cart.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)

	// GetByID fetches a cart by id, scoped to the owning user. Returns
	// apperrors.NotFound when absent or owned by someone else.
	GetByID(ctx context.Context, cartID, userID string) (*domain.Cart, error)
}

// StockDecrement is one conditional stock deduction applied at order
// placement.
type StockDecrement struct {
	SizeID   string
	Quantity int
}

// OrderRepository persists orders.
type OrderRepository interface {
	// Create persists the order with its groups and items, applies the
	// stock decrements, and deletes the source cart, all in one
	// transaction. Each decrement only succeeds if enough stock remains;
	// otherwise the transaction is rolled back and apperrors.OutOfStock is
	// returned.
	Create(ctx context.Context, order *domain.Order, cartID string, decrements []StockDecrement) error

	// GetByID fetches an order with its groups and items, scoped to the
	// owning user.
	GetByID(ctx context.Context, orderID, userID string) (*domain.Order, error)
}

// CouponRepository resolves coupon codes.
type CouponRepository interface {
	// ByCode fetches a coupon by its code. Returns apperrors.CouponInvalid
	// when no such coupon exists.
	ByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// FacetFilter narrows the size facet query. Empty fields are no-ops, not
// exclusions. StoreID is the already-resolved store; handlers resolve the
// store URL first via StoreIDByURL.
type FacetFilter struct {
	CategoryURL    string
	SubCategoryURL string
	OfferURL       string
	StoreID        string
}

// FacetRepository aggregates filterable attribute values over the catalog.
type FacetRepository interface {
	// StoreIDByURL resolves a store URL slug to its id. Returns
	// apperrors.NotFound when no store matches.
	StoreIDByURL(ctx context.Context, url string) (string, error)

	// SizeLabels returns up to take size labels present in inventory
	// matching the filter, plus the total match count independent of the
	// cap.
	SizeLabels(ctx context.Context, filter FacetFilter, take int) ([]string, int, error)
}
