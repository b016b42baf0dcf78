package domain

import "time"

// Coupon is a store-scoped percentage discount. It never applies to items
// from any other store, even within the same order.
type Coupon struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	StoreID   string    `json:"store_id"`
	Discount  int       `json:"discount"`
	StartsAt  time.Time `json:"starts_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActiveAt reports whether the coupon can be redeemed at the given time.
func (c *Coupon) ActiveAt(now time.Time) bool {
	if now.Before(c.StartsAt) {
		return false
	}
	return now.Before(c.ExpiresAt)
}

// DiscountAmount returns the coupon discount in cents for the given group
// amount (subtotal plus shipping), rounded down.
func (c *Coupon) DiscountAmount(amount int64) int64 {
	if c.Discount <= 0 {
		return 0
	}
	return amount * int64(c.Discount) / 100
}
