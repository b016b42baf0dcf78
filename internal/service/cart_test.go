package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vendora/marketplace/internal/domain"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

func newCartService(cartRepo *mockCartRepository, validator *mockValidator, resolver *mockResolver, producer *mockCartProducer) *CartService {
	return NewCartService(cartRepo, validator, resolver, producer, newTestLogger())
}

func TestCartService_SaveCart_Success(t *testing.T) {
	cartRepo := new(mockCartRepository)
	validator := new(mockValidator)
	resolver := new(mockResolver)
	producer := new(mockCartProducer)
	svc := newCartService(cartRepo, validator, resolver, producer)

	country := &domain.Country{ID: "country-1", Code: "DE"}
	dest := Destination{CountryCode: "DE"}
	lines := []domain.CartLine{
		{ProductID: "prod-1", VariantID: "var-1", SizeID: "size-1", Quantity: 2},
		{ProductID: "prod-2", VariantID: "var-2", SizeID: "size-2", Quantity: 1},
	}

	resolver.On("ResolveDestination", mock.Anything, dest).Return(country, nil)
	validator.On("ValidateLine", mock.Anything, lines[0], country).
		Return(&domain.CartItem{StoreID: "store-1", Quantity: 2, UnitPrice: 4500, ShippingFee: 900}, nil)
	validator.On("ValidateLine", mock.Anything, lines[1], country).
		Return(&domain.CartItem{StoreID: "store-2", Quantity: 1, UnitPrice: 1200, ShippingFee: 0}, nil)
	cartRepo.On("Replace", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)
	producer.On("PublishCartSaved", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	cart, err := svc.SaveCart(context.Background(), "user-1", lines, dest)
	require.NoError(t, err)

	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, "user-1", cart.UserID)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(4500*2+1200), cart.SubTotal)
	assert.Equal(t, int64(900), cart.ShippingFees)
	assert.Equal(t, cart.SubTotal+cart.ShippingFees, cart.Total)
	cartRepo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestCartService_SaveCart_LineOrderPreserved(t *testing.T) {
	cartRepo := new(mockCartRepository)
	validator := new(mockValidator)
	resolver := new(mockResolver)
	producer := new(mockCartProducer)
	svc := newCartService(cartRepo, validator, resolver, producer)

	lines := []domain.CartLine{
		{ProductID: "prod-1", VariantID: "var-1", SizeID: "size-1", Quantity: 1},
		{ProductID: "prod-2", VariantID: "var-2", SizeID: "size-2", Quantity: 1},
	}

	resolver.On("ResolveDestination", mock.Anything, mock.Anything).Return(nil, nil)
	validator.On("ValidateLine", mock.Anything, lines[0], (*domain.Country)(nil)).
		Return(&domain.CartItem{SizeID: "size-1", Quantity: 1}, nil)
	validator.On("ValidateLine", mock.Anything, lines[1], (*domain.Country)(nil)).
		Return(&domain.CartItem{SizeID: "size-2", Quantity: 1}, nil)
	cartRepo.On("Replace", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishCartSaved", mock.Anything, mock.Anything).Return(nil)

	cart, err := svc.SaveCart(context.Background(), "user-1", lines, Destination{})
	require.NoError(t, err)

	// results land in submission order regardless of completion order
	assert.Equal(t, "size-1", cart.Items[0].SizeID)
	assert.Equal(t, "size-2", cart.Items[1].SizeID)
}

func TestCartService_SaveCart_AnyLineFailureAbortsSave(t *testing.T) {
	cartRepo := new(mockCartRepository)
	validator := new(mockValidator)
	resolver := new(mockResolver)
	producer := new(mockCartProducer)
	svc := newCartService(cartRepo, validator, resolver, producer)

	country := &domain.Country{ID: "country-1"}
	lines := []domain.CartLine{
		{ProductID: "prod-1", VariantID: "var-1", SizeID: "size-1", Quantity: 1},
		{ProductID: "prod-2", VariantID: "var-gone", SizeID: "size-2", Quantity: 1},
	}

	resolver.On("ResolveDestination", mock.Anything, mock.Anything).Return(country, nil)
	validator.On("ValidateLine", mock.Anything, lines[0], country).
		Return(&domain.CartItem{Quantity: 1}, nil).Maybe()
	validator.On("ValidateLine", mock.Anything, lines[1], country).
		Return(nil, apperrors.InvalidCombination("prod-2", "var-gone", "size-2"))

	_, err := svc.SaveCart(context.Background(), "user-1", lines, Destination{})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCombination)
	cartRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "PublishCartSaved", mock.Anything, mock.Anything)
}

func TestCartService_SaveCart_PublishFailureDoesNotFailSave(t *testing.T) {
	cartRepo := new(mockCartRepository)
	validator := new(mockValidator)
	resolver := new(mockResolver)
	producer := new(mockCartProducer)
	svc := newCartService(cartRepo, validator, resolver, producer)

	lines := []domain.CartLine{{ProductID: "prod-1", VariantID: "var-1", SizeID: "size-1", Quantity: 1}}

	resolver.On("ResolveDestination", mock.Anything, mock.Anything).Return(nil, nil)
	validator.On("ValidateLine", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.CartItem{Quantity: 1}, nil)
	cartRepo.On("Replace", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishCartSaved", mock.Anything, mock.Anything).Return(assert.AnError)

	cart, err := svc.SaveCart(context.Background(), "user-1", lines, Destination{})

	require.NoError(t, err)
	assert.NotNil(t, cart)
}

func TestCartService_SaveCart_Unauthenticated(t *testing.T) {
	svc := newCartService(new(mockCartRepository), new(mockValidator), new(mockResolver), new(mockCartProducer))

	_, err := svc.SaveCart(context.Background(), "", []domain.CartLine{{}}, Destination{})

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestCartService_SaveCart_EmptyLines(t *testing.T) {
	svc := newCartService(new(mockCartRepository), new(mockValidator), new(mockResolver), new(mockCartProducer))

	_, err := svc.SaveCart(context.Background(), "user-1", nil, Destination{})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCartService_GetCart(t *testing.T) {
	cartRepo := new(mockCartRepository)
	svc := newCartService(cartRepo, new(mockValidator), new(mockResolver), new(mockCartProducer))

	cartRepo.On("GetByUser", mock.Anything, "user-1").
		Return(&domain.Cart{ID: "cart-1", UserID: "user-1"}, nil)

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)

	_, err = svc.GetCart(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}
