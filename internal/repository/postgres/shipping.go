package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/pkg/database"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

// ShippingRepository implements repository.ShippingRepository using PostgreSQL.
type ShippingRepository struct {
	pool database.DBTX
}

// NewShippingRepository creates a new PostgreSQL-backed shipping repository.
func NewShippingRepository(pool database.DBTX) *ShippingRepository {
	return &ShippingRepository{pool: pool}
}

const resolveCountryQuery = `
	SELECT id, name, code
	FROM countries
	WHERE code = $2 OR LOWER(name) = LOWER($1)
	LIMIT 1`

// ResolveCountry looks up a destination country by code or name.
func (r *ShippingRepository) ResolveCountry(ctx context.Context, name, code string) (*domain.Country, error) {
	ctx, end := database.TraceQuery(ctx, "ResolveCountry", resolveCountryQuery)

	var c domain.Country
	err := r.pool.QueryRow(ctx, resolveCountryQuery, name, code).Scan(&c.ID, &c.Name, &c.Code)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("country", code)
		}
		return nil, fmt.Errorf("resolve country: %w", err)
	}

	end(nil)
	return &c, nil
}

const storeByIDQuery = `
	SELECT id, name, url, shipping_service, fee_per_item, fee_extra_item,
	       fee_per_kg, fee_fixed, delivery_min_days, delivery_max_days,
	       return_policy, created_at
	FROM stores
	WHERE id = $1`

// StoreByID fetches a store with its default shipping fees.
func (r *ShippingRepository) StoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	ctx, end := database.TraceQuery(ctx, "StoreByID", storeByIDQuery)

	var s domain.Store
	err := r.pool.QueryRow(ctx, storeByIDQuery, storeID).Scan(
		&s.ID,
		&s.Name,
		&s.URL,
		&s.ShippingService,
		&s.FeePerItem,
		&s.FeeExtraItem,
		&s.FeePerKg,
		&s.FeeFixed,
		&s.DeliveryMinDays,
		&s.DeliveryMaxDays,
		&s.ReturnPolicy,
		&s.CreatedAt,
	)
	if err != nil {
		end(err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("store", storeID)
		}
		return nil, fmt.Errorf("get store: %w", err)
	}

	end(nil)
	return &s, nil
}

const rateForQuery = `
	SELECT id, store_id, country_id, shipping_service, fee_per_item,
	       fee_extra_item, fee_per_kg, fee_fixed, delivery_min_days,
	       delivery_max_days, return_policy
	FROM shipping_rates
	WHERE store_id = $1 AND country_id = $2`

// RateFor fetches the per-country override for a store. Absence of an
// override is not an error; the caller falls back to store defaults.
func (r *ShippingRepository) RateFor(ctx context.Context, storeID, countryID string) (*domain.ShippingRate, error) {
	ctx, end := database.TraceQuery(ctx, "RateFor", rateForQuery)

	var rate domain.ShippingRate
	err := r.pool.QueryRow(ctx, rateForQuery, storeID, countryID).Scan(
		&rate.ID,
		&rate.StoreID,
		&rate.CountryID,
		&rate.ShippingService,
		&rate.FeePerItem,
		&rate.FeeExtraItem,
		&rate.FeePerKg,
		&rate.FeeFixed,
		&rate.DeliveryMinDays,
		&rate.DeliveryMaxDays,
		&rate.ReturnPolicy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			end(nil)
			return nil, nil
		}
		end(err)
		return nil, fmt.Errorf("get shipping rate: %w", err)
	}

	end(nil)
	return &rate, nil
}
