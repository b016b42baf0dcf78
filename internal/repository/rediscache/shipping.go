package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
)

const (
	countryKeyPrefix = "shipping:country:"
	storeKeyPrefix   = "shipping:store:"
	rateKeyPrefix    = "shipping:rate:"
)

// ShippingRepository caches country, store, and rate lookups in front of
// another shipping repository. Shipping data changes rarely but is read on
// every cart line validation, so a short TTL takes most of the read load off
// Postgres. Cache failures degrade to the inner repository, never to an
// error.
type ShippingRepository struct {
	inner  repository.ShippingRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewShippingRepository wraps inner with a Redis read-through cache.
func NewShippingRepository(inner repository.ShippingRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ShippingRepository {
	return &ShippingRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ResolveCountry looks up a country, consulting the cache first.
func (r *ShippingRepository) ResolveCountry(ctx context.Context, name, code string) (*domain.Country, error) {
	key := countryKeyPrefix + code + ":" + name

	var cached domain.Country
	if r.get(ctx, key, &cached) {
		return &cached, nil
	}

	country, err := r.inner.ResolveCountry(ctx, name, code)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, country)
	return country, nil
}

// StoreByID fetches a store, consulting the cache first.
func (r *ShippingRepository) StoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	key := storeKeyPrefix + storeID

	var cached domain.Store
	if r.get(ctx, key, &cached) {
		return &cached, nil
	}

	store, err := r.inner.StoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, store)
	return store, nil
}

// RateFor fetches a rate override, consulting the cache first. A missing
// override is cached too, as an explicit null, since "no override" is the
// common case and just as expensive to recompute.
func (r *ShippingRepository) RateFor(ctx context.Context, storeID, countryID string) (*domain.ShippingRate, error) {
	key := rateKeyPrefix + storeID + ":" + countryID

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var rate *domain.ShippingRate
		if err := json.Unmarshal(data, &rate); err == nil {
			return rate, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.WarnContext(ctx, "shipping cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	rate, err := r.inner.RateFor(ctx, storeID, countryID)
	if err != nil {
		return nil, err
	}

	r.set(ctx, key, rate)
	return rate, nil
}

func (r *ShippingRepository) get(ctx context.Context, key string, dest any) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "shipping cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		r.logger.WarnContext(ctx, "shipping cache entry corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}

func (r *ShippingRepository) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.WarnContext(ctx, "shipping cache marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "shipping cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
