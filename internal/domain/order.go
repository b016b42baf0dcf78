package domain

import "time"

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
)

// Order is the checkout result, partitioned into one group per store.
type Order struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Status          string       `json:"status"`
	Groups          []OrderGroup `json:"groups"`
	SubTotal        int64        `json:"sub_total"`
	ShippingFees    int64        `json:"shipping_fees"`
	Total           int64        `json:"total"`
	ShippingAddress Address      `json:"shipping_address"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// OrderGroup is the per-store partition of an order. A coupon, if any, is
// scoped to this group only.
type OrderGroup struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"order_id"`
	StoreID         string      `json:"store_id"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	CouponID        string      `json:"coupon_id,omitempty"`
	CouponDiscount  int64       `json:"coupon_discount"`
	SubTotal        int64       `json:"sub_total"`
	ShippingFees    int64       `json:"shipping_fees"`
	Total           int64       `json:"total"`
	ShippingService string      `json:"shipping_service,omitempty"`
	DeliveryMinDays int         `json:"delivery_min_days"`
	DeliveryMaxDays int         `json:"delivery_max_days"`
}

// OrderItem is one validated line inside an order group, frozen at placement
// time.
type OrderItem struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id"`
	SizeID      string `json:"size_id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	SizeLabel   string `json:"size_label"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	ShippingFee int64  `json:"shipping_fee"`
	TotalPrice  int64  `json:"total_price"`
}

// Address is the shipping destination chosen at placement time. CountryCode
// and CountryName identify the destination country for rate resolution.
type Address struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Phone       string `json:"phone,omitempty"`
}

// Recalculate recomputes the group aggregates from its items and coupon
// discount. The discount applies to subtotal plus shipping.
func (g *OrderGroup) Recalculate() {
	var sub, shipping int64
	for _, item := range g.Items {
		sub += item.UnitPrice * int64(item.Quantity)
		shipping += item.ShippingFee
	}
	g.SubTotal = sub
	g.ShippingFees = shipping
	g.Total = sub + shipping - g.CouponDiscount
}

// Recalculate recomputes the order aggregates as the sum over its groups.
func (o *Order) Recalculate() {
	var sub, shipping, total int64
	for i := range o.Groups {
		sub += o.Groups[i].SubTotal
		shipping += o.Groups[i].ShippingFees
		total += o.Groups[i].Total
	}
	o.SubTotal = sub
	o.ShippingFees = shipping
	o.Total = total
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}
