package domain

import "fmt"

// FeeMethod is the closed set of shipping fee strategies a product may use.
type FeeMethod string

const (
	// FeeMethodItem charges a base fee for the first unit and an extra fee
	// for each additional unit.
	FeeMethodItem FeeMethod = "ITEM"
	// FeeMethodWeight charges per kilogram of variant weight, scaled by
	// quantity.
	FeeMethodWeight FeeMethod = "WEIGHT"
	// FeeMethodFixed charges a flat fee regardless of quantity.
	FeeMethodFixed FeeMethod = "FIXED"
)

// Valid reports whether the method is one of the known fee strategies.
func (m FeeMethod) Valid() bool {
	switch m {
	case FeeMethodItem, FeeMethodWeight, FeeMethodFixed:
		return true
	}
	return false
}

// ShippingDetail is the resolved shipping quote for one product line at one
// destination. Available is false when the destination country has no
// shipping data; callers treat that as "no shipping options", not an error.
type ShippingDetail struct {
	Available       bool      `json:"available"`
	Method          FeeMethod `json:"method,omitempty"`
	ShippingService string    `json:"shipping_service,omitempty"`
	BaseFee         int64     `json:"base_fee"`
	ExtraFee        int64     `json:"extra_fee"`
	DeliveryMinDays int       `json:"delivery_min_days"`
	DeliveryMaxDays int       `json:"delivery_max_days"`
	ReturnPolicy    string    `json:"return_policy,omitempty"`
	FreeShipping    bool      `json:"free_shipping"`
	Country         *Country  `json:"country,omitempty"`
}

// LineFee computes the shipping fee for a line of the given quantity. Weight
// is the per-unit variant weight in grams and only matters for the WEIGHT
// method, where BaseFee is the fee per kilogram.
func (d *ShippingDetail) LineFee(quantity int, weightGrams int64) (int64, error) {
	if !d.Available {
		return 0, nil
	}
	if quantity <= 0 {
		return 0, nil
	}

	switch d.Method {
	case FeeMethodItem:
		if quantity == 1 {
			return d.BaseFee, nil
		}
		return d.BaseFee + d.ExtraFee*int64(quantity-1), nil
	case FeeMethodWeight:
		return d.BaseFee * weightGrams * int64(quantity) / 1000, nil
	case FeeMethodFixed:
		return d.BaseFee, nil
	default:
		return 0, fmt.Errorf("unknown shipping fee method %q", d.Method)
	}
}

// ResolveEffectiveRate merges a per-country rate override into the store
// defaults. Each override field applies independently; a nil field keeps the
// store default. A nil rate returns the store defaults unchanged.
func ResolveEffectiveRate(store *Store, rate *ShippingRate) EffectiveRate {
	eff := EffectiveRate{
		ShippingService: store.ShippingService,
		FeePerItem:      store.FeePerItem,
		FeeExtraItem:    store.FeeExtraItem,
		FeePerKg:        store.FeePerKg,
		FeeFixed:        store.FeeFixed,
		DeliveryMinDays: store.DeliveryMinDays,
		DeliveryMaxDays: store.DeliveryMaxDays,
		ReturnPolicy:    store.ReturnPolicy,
	}
	if rate == nil {
		return eff
	}
	if rate.ShippingService != nil {
		eff.ShippingService = *rate.ShippingService
	}
	if rate.FeePerItem != nil {
		eff.FeePerItem = *rate.FeePerItem
	}
	if rate.FeeExtraItem != nil {
		eff.FeeExtraItem = *rate.FeeExtraItem
	}
	if rate.FeePerKg != nil {
		eff.FeePerKg = *rate.FeePerKg
	}
	if rate.FeeFixed != nil {
		eff.FeeFixed = *rate.FeeFixed
	}
	if rate.DeliveryMinDays != nil {
		eff.DeliveryMinDays = *rate.DeliveryMinDays
	}
	if rate.DeliveryMaxDays != nil {
		eff.DeliveryMaxDays = *rate.DeliveryMaxDays
	}
	if rate.ReturnPolicy != nil {
		eff.ReturnPolicy = *rate.ReturnPolicy
	}
	return eff
}

// EffectiveRate is the per-field merge of store defaults and a country
// override, before the fee method selects which fields apply.
type EffectiveRate struct {
	ShippingService string
	FeePerItem      int64
	FeeExtraItem    int64
	FeePerKg        int64
	FeeFixed        int64
	DeliveryMinDays int
	DeliveryMaxDays int
	ReturnPolicy    string
}

// Fees returns the (baseFee, extraFee) pair for the given method. ExtraFee is
// only meaningful for the ITEM method.
func (r EffectiveRate) Fees(method FeeMethod) (base, extra int64, err error) {
	switch method {
	case FeeMethodItem:
		return r.FeePerItem, r.FeeExtraItem, nil
	case FeeMethodWeight:
		return r.FeePerKg, 0, nil
	case FeeMethodFixed:
		return r.FeeFixed, 0, nil
	default:
		return 0, 0, fmt.Errorf("unknown shipping fee method %q", method)
	}
}
