package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vendora/marketplace/pkg/errors"
)

var storeColumns = []string{
	"id", "name", "url", "shipping_service", "fee_per_item", "fee_extra_item",
	"fee_per_kg", "fee_fixed", "delivery_min_days", "delivery_max_days",
	"return_policy", "created_at",
}

var rateColumns = []string{
	"id", "store_id", "country_id", "shipping_service", "fee_per_item",
	"fee_extra_item", "fee_per_kg", "fee_fixed", "delivery_min_days",
	"delivery_max_days", "return_policy",
}

func TestShippingRepository_ResolveCountry_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShippingRepository(mock)

	mock.ExpectQuery("FROM countries").
		WithArgs("Germany", "DE").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "code"}).
			AddRow("country-1", "Germany", "DE"))

	country, err := repo.ResolveCountry(context.Background(), "Germany", "DE")
	require.NoError(t, err)

	assert.Equal(t, "country-1", country.ID)
	assert.Equal(t, "DE", country.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingRepository_ResolveCountry_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShippingRepository(mock)

	mock.ExpectQuery("FROM countries").
		WithArgs("Atlantis", "XX").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.ResolveCountry(context.Background(), "Atlantis", "XX")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingRepository_StoreByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShippingRepository(mock)

	mock.ExpectQuery("FROM stores").
		WithArgs("store-1").
		WillReturnRows(pgxmock.NewRows(storeColumns).AddRow(
			"store-1", "Acme Outfitters", "acme", "Standard Post",
			int64(500), int64(200), int64(150), int64(700), 5, 14, "30 days", now,
		))

	store, err := repo.StoreByID(context.Background(), "store-1")
	require.NoError(t, err)

	assert.Equal(t, int64(500), store.FeePerItem)
	assert.Equal(t, int64(150), store.FeePerKg)
	assert.Equal(t, 14, store.DeliveryMaxDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingRepository_RateFor_NoOverride(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShippingRepository(mock)

	mock.ExpectQuery("FROM shipping_rates").
		WithArgs("store-1", "country-1").
		WillReturnError(pgx.ErrNoRows)

	rate, err := repo.RateFor(context.Background(), "store-1", "country-1")

	require.NoError(t, err)
	assert.Nil(t, rate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShippingRepository_RateFor_PartialOverride(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewShippingRepository(mock)

	mock.ExpectQuery("FROM shipping_rates").
		WithArgs("store-1", "country-1").
		WillReturnRows(pgxmock.NewRows(rateColumns).AddRow(
			"rate-1", "store-1", "country-1",
			nil, int64Ptr(800), nil, nil, nil, intPtr(2), nil, nil,
		))

	rate, err := repo.RateFor(context.Background(), "store-1", "country-1")
	require.NoError(t, err)

	require.NotNil(t, rate)
	require.NotNil(t, rate.FeePerItem)
	assert.Equal(t, int64(800), *rate.FeePerItem)
	assert.Nil(t, rate.FeeExtraItem)
	require.NotNil(t, rate.DeliveryMinDays)
	assert.Equal(t, 2, *rate.DeliveryMinDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}
