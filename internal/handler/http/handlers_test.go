package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vendora/marketplace/internal/domain"
	"github.com/vendora/marketplace/internal/repository"
	"github.com/vendora/marketplace/internal/service"
	"github.com/vendora/marketplace/pkg/health"
	"github.com/vendora/marketplace/pkg/httputil"
)

// Fixture IDs. Request DTOs validate these as UUIDs.
const (
	testProductID = "550e8400-e29b-41d4-a716-446655440020"
	testVariantID = "550e8400-e29b-41d4-a716-446655440021"
	testSizeID    = "550e8400-e29b-41d4-a716-446655440022"
	testCartID    = "550e8400-e29b-41d4-a716-446655440030"
	testOrderID   = "550e8400-e29b-41d4-a716-446655440040"
	testStoreID   = "550e8400-e29b-41d4-a716-446655440050"
	testCountryID = "550e8400-e29b-41d4-a716-446655440060"
	testUserID    = "user-456"
)

// --- Mock repositories ---

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

// --- Stub event producers ---

type stubCartProducer struct{}

func (stubCartProducer) PublishCartSaved(context.Context, *domain.Cart) error { return nil }

type stubOrderProducer struct{}

func (stubOrderProducer) PublishOrderPlaced(context.Context, *domain.Order) error { return nil }

// --- Test helpers ---

type handlerMocks struct {
	catalogRepo  *mockCatalogRepository
	shippingRepo *mockShippingRepository
	cartRepo     *mockCartRepository
	orderRepo    *mockOrderRepository
	couponRepo   *mockCouponRepository
	facetRepo    *mockFacetRepository
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupRouter builds the production router over real services backed by mock
// repositories.
func setupRouter() (http.Handler, *handlerMocks) {
	m := &handlerMocks{
		catalogRepo:  new(mockCatalogRepository),
		shippingRepo: new(mockShippingRepository),
		cartRepo:     new(mockCartRepository),
		orderRepo:    new(mockOrderRepository),
		couponRepo:   new(mockCouponRepository),
		facetRepo:    new(mockFacetRepository),
	}

	logger := testLogger()
	shippingSvc := service.NewShippingService(m.catalogRepo, m.shippingRepo, logger)
	lineValidator := service.NewLineValidator(m.catalogRepo, shippingSvc)
	cartSvc := service.NewCartService(m.cartRepo, lineValidator, shippingSvc, stubCartProducer{}, logger)
	orderSvc := service.NewOrderService(m.orderRepo, m.cartRepo, m.couponRepo, lineValidator, shippingSvc, stubOrderProducer{}, logger)
	facetSvc := service.NewFacetService(m.facetRepo, logger)

	router := NewRouter(cartSvc, orderSvc, shippingSvc, facetSvc, health.NewHandler(), logger, nil)
	return router, m
}

// decodeResponse reads the response body into the httputil.Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// --- Catalog fixtures ---

func testCountry() *domain.Country {
	return &domain.Country{ID: testCountryID, Name: "Germany", Code: "DE"}
}

func testStore() *domain.Store {
	return &domain.Store{
		ID:              testStoreID,
		ShippingService: "Standard Post",
		FeePerItem:      500,
		FeeExtraItem:    200,
		FeePerKg:        150,
		FeeFixed:        700,
		DeliveryMinDays: 5,
		DeliveryMaxDays: 14,
		ReturnPolicy:    "30 days",
	}
}

func testResolvedLine() *domain.ResolvedLine {
	return &domain.ResolvedLine{
		Product: domain.Product{
			ID:        testProductID,
			StoreID:   testStoreID,
			Name:      "Jacket",
			FeeMethod: domain.FeeMethodItem,
		},
		Variant: domain.Variant{
			ID:          testVariantID,
			ProductID:   testProductID,
			SKU:         "JKT-001",
			WeightGrams: 1200,
		},
		Size: domain.Size{
			ID:       testSizeID,
			Label:    "M",
			Price:    5000,
			Discount: 10,
			Quantity: 7,
		},
	}
}

// stubQuotePath wires the shipping repo mocks for a successful store-default
// quote against the test country.
func stubQuotePath(m *handlerMocks) {
	m.shippingRepo.On("ResolveCountry", mock.Anything, "Germany", "DE").Return(testCountry(), nil)
	m.shippingRepo.On("StoreByID", mock.Anything, testStoreID).Return(testStore(), nil)
	m.shippingRepo.On("RateFor", mock.Anything, testStoreID, testCountryID).Return(nil, nil)
}
