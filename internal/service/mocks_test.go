package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- Repository mocks ---

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) ResolveLine(ctx context.Context, productID, variantID, sizeID string) (*domain.ResolvedLine, error) {
	args := m.Called(ctx, productID, variantID, sizeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedLine), args.Error(1)
}

func (m *mockCatalogRepository) ProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type mockShippingRepository struct {
	mock.Mock
}

func (m *mockShippingRepository) ResolveCountry(ctx context.Context, name, code string) (*domain.Country, error) {
	args := m.Called(ctx, name, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

func (m *mockShippingRepository) StoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *mockShippingRepository) RateFor(ctx context.Context, storeID, countryID string) (*domain.ShippingRate, error) {
	args := m.Called(ctx, storeID, countryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShippingRate), args.Error(1)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Replace(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) GetByID(ctx context.Context, cartID, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order, cartID string, decrements []repository.StockDecrement) error {
	args := m.Called(ctx, order, cartID, decrements)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

type mockCouponRepository struct {
	mock.Mock
}

func (m *mockCouponRepository) ByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

type mockFacetRepository struct {
	mock.Mock
}

func (m *mockFacetRepository) StoreIDByURL(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

func (m *mockFacetRepository) SizeLabels(ctx context.Context, filter repository.FacetFilter, take int) ([]string, int, error) {
	args := m.Called(ctx, filter, take)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Int(1), args.Error(2)
}

// --- Collaborator mocks ---

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateLine(ctx context.Context, line domain.CartLine, country *domain.Country) (*domain.CartItem, error) {
	args := m.Called(ctx, line, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveDestination(ctx context.Context, dest Destination) (*domain.Country, error) {
	args := m.Called(ctx, dest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Country), args.Error(1)
}

type mockQuoter struct {
	mock.Mock
}

func (m *mockQuoter) QuoteForProduct(ctx context.Context, product *domain.Product, country *domain.Country) (*domain.ShippingDetail, error) {
	args := m.Called(ctx, product, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShippingDetail), args.Error(1)
}

type mockCartProducer struct {
	mock.Mock
}

func (m *mockCartProducer) PublishCartSaved(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

type mockOrderProducer struct {
	mock.Mock
}

func (m *mockOrderProducer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
