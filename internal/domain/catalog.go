package domain

import "time"

// Country represents a shipping destination resolved from user input.
type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Store represents a seller storefront. The shipping fee fields are the
// store-wide defaults used when no per-country ShippingRate override exists.
type Store struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	ShippingService string    `json:"shipping_service"`
	FeePerItem      int64     `json:"fee_per_item"`
	FeeExtraItem    int64     `json:"fee_extra_item"`
	FeePerKg        int64     `json:"fee_per_kg"`
	FeeFixed        int64     `json:"fee_fixed"`
	DeliveryMinDays int       `json:"delivery_min_days"`
	DeliveryMaxDays int       `json:"delivery_max_days"`
	ReturnPolicy    string    `json:"return_policy"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShippingRate overrides store shipping defaults for one destination country.
// Every field is optional; a nil field falls back to the store default.
type ShippingRate struct {
	ID              string  `json:"id"`
	StoreID         string  `json:"store_id"`
	CountryID       string  `json:"country_id"`
	ShippingService *string `json:"shipping_service,omitempty"`
	FeePerItem      *int64  `json:"fee_per_item,omitempty"`
	FeeExtraItem    *int64  `json:"fee_extra_item,omitempty"`
	FeePerKg        *int64  `json:"fee_per_kg,omitempty"`
	FeeFixed        *int64  `json:"fee_fixed,omitempty"`
	DeliveryMinDays *int    `json:"delivery_min_days,omitempty"`
	DeliveryMaxDays *int    `json:"delivery_max_days,omitempty"`
	ReturnPolicy    *string `json:"return_policy,omitempty"`
}

// FreeShippingPolicy zeroes the shipping fee of a product's lines for the
// listed destination countries, or for every destination when AllCountries
// is set.
type FreeShippingPolicy struct {
	ID           string   `json:"id"`
	ProductID    string   `json:"product_id"`
	AllCountries bool     `json:"all_countries"`
	CountryIDs   []string `json:"country_ids,omitempty"`
}

// EligibleFor reports whether the given destination country qualifies for
// free shipping under this policy.
func (p *FreeShippingPolicy) EligibleFor(countryID string) bool {
	if p == nil {
		return false
	}
	if p.AllCountries {
		return true
	}
	for _, id := range p.CountryIDs {
		if id == countryID {
			return true
		}
	}
	return false
}

// Product represents a catalog product. FreeShipping is nil when the product
// has no free-shipping policy.
type Product struct {
	ID           string              `json:"id"`
	StoreID      string              `json:"store_id"`
	Name         string              `json:"name"`
	FeeMethod    FeeMethod           `json:"fee_method"`
	FreeShipping *FreeShippingPolicy `json:"free_shipping,omitempty"`
}

// Variant belongs to exactly one product and owns the sized stock records.
type Variant struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	WeightGrams int64  `json:"weight_grams"`
}

// Size is the authoritative stock and price record for one variant size.
// Discount is a whole percentage in [0,100].
type Size struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Price    int64  `json:"price"`
	Discount int    `json:"discount"`
	Quantity int    `json:"quantity"`
}

// DiscountedPrice returns the unit price after applying the percentage
// discount, rounded down to the cent.
func (s *Size) DiscountedPrice() int64 {
	if s.Discount <= 0 {
		return s.Price
	}
	return s.Price * int64(100-s.Discount) / 100
}

// ResolvedLine is a fully resolved product/variant/size chain for one cart
// line, fetched in a single catalog read.
type ResolvedLine struct {
	Product Product
	Variant Variant
	Size    Size
}
