package domain

import "time"

// CartLine is one client-submitted (product, variant, size, quantity) tuple.
// Any price or fee fields the client sends are discarded; only the identifiers
// and requested quantity are read.
type CartLine struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	SizeID    string `json:"size_id"`
	Quantity  int    `json:"quantity"`
}

// CartItem is the server-validated form of a cart line. Quantity is the
// requested quantity clamped to available stock; all monetary fields are
// recomputed from catalog data.
type CartItem struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id"`
	SizeID      string `json:"size_id"`
	StoreID     string `json:"store_id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	SizeLabel   string `json:"size_label"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	ShippingFee int64  `json:"shipping_fee"`
	TotalPrice  int64  `json:"total_price"`

	// Delivery metadata from the resolved shipping rate, carried so order
	// groups can surface it without a second resolution pass.
	ShippingService string `json:"shipping_service,omitempty"`
	DeliveryMinDays int    `json:"delivery_min_days,omitempty"`
	DeliveryMaxDays int    `json:"delivery_max_days,omitempty"`
}

// Cart holds the validated items for exactly one user. Saving a cart replaces
// the previous one wholesale; items are never updated in place.
type Cart struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Items        []CartItem `json:"items"`
	SubTotal     int64      `json:"sub_total"`
	ShippingFees int64      `json:"shipping_fees"`
	Total        int64      `json:"total"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Recalculate recomputes the cart aggregates from its items. SubTotal covers
// merchandise only; shipping is aggregated separately.
func (c *Cart) Recalculate() {
	var sub, shipping int64
	for _, item := range c.Items {
		sub += item.UnitPrice * int64(item.Quantity)
		shipping += item.ShippingFee
	}
	c.SubTotal = sub
	c.ShippingFees = shipping
	c.Total = sub + shipping
}

// ItemCount returns the total number of units across all items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
