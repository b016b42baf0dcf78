package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderGroupRecalculate(t *testing.T) {
	g := OrderGroup{
		Items: []OrderItem{
			{UnitPrice: 1000, Quantity: 2, ShippingFee: 500},
			{UnitPrice: 300, Quantity: 1, ShippingFee: 200},
		},
		CouponDiscount: 100,
	}

	g.Recalculate()

	assert.Equal(t, int64(2300), g.SubTotal)
	assert.Equal(t, int64(700), g.ShippingFees)
	assert.Equal(t, int64(2900), g.Total)
}

func TestOrderRecalculateSumsGroups(t *testing.T) {
	o := Order{
		Groups: []OrderGroup{
			{SubTotal: 2300, ShippingFees: 700, Total: 2900},
			{SubTotal: 1000, ShippingFees: 0, Total: 1000},
		},
	}

	o.Recalculate()

	assert.Equal(t, int64(3300), o.SubTotal)
	assert.Equal(t, int64(700), o.ShippingFees)
	assert.Equal(t, int64(3900), o.Total)
}

func TestCartRecalculate(t *testing.T) {
	c := Cart{
		Items: []CartItem{
			{UnitPrice: 500, Quantity: 3, ShippingFee: 900},
			{UnitPrice: 1200, Quantity: 1, ShippingFee: 0},
		},
	}

	c.Recalculate()

	assert.Equal(t, int64(2700), c.SubTotal)
	assert.Equal(t, int64(900), c.ShippingFees)
	assert.Equal(t, int64(3600), c.Total)
	assert.Equal(t, 4, c.ItemCount())
}

func TestCouponActiveAt(t *testing.T) {
	now := time.Now()
	c := &Coupon{
		StartsAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
	}

	assert.True(t, c.ActiveAt(now))
	assert.False(t, c.ActiveAt(now.Add(2*time.Hour)))
	assert.False(t, c.ActiveAt(now.Add(-2*time.Hour)))
}

func TestCouponDiscountAmount(t *testing.T) {
	c := &Coupon{Discount: 10}

	assert.Equal(t, int64(290), c.DiscountAmount(2900))
	assert.Equal(t, int64(0), (&Coupon{}).DiscountAmount(2900))
	// rounds down
	assert.Equal(t, int64(0), (&Coupon{Discount: 1}).DiscountAmount(99))
}

func TestIsValidStatus(t *testing.T) {
	for _, status := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled,
	} {
		assert.True(t, IsValidStatus(status), status)
	}

	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("Pending"))
	assert.False(t, IsValidStatus("returned"))
}
