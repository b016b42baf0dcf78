package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vendora/marketplace/internal/domain"
	apperrors "github.com/vendora/marketplace/pkg/errors"
)

func validSaveCartJSON() []byte {
	body := SaveCartRequest{
		Lines: []CartLineRequest{
			{ProductID: testProductID, VariantID: testVariantID, SizeID: testSizeID, Quantity: 2},
		},
		Destination: &DestinationRequest{CountryCode: "DE", CountryName: "Germany"},
	}
	b, _ := json.Marshal(body)
	return b
}

func TestSaveCart_Success(t *testing.T) {
	router, m := setupRouter()

	stubQuotePath(m)
	m.catalogRepo.On("ResolveLine", mock.Anything, testProductID, testVariantID, testSizeID).
		Return(testResolvedLine(), nil)
	m.cartRepo.On("Replace", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(validSaveCartJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, testUserID, data["user_id"])
	// 2 units of 5000 with 10% off; ITEM fee 500 + 200
	assert.Equal(t, float64(9000), data["sub_total"])
	assert.Equal(t, float64(700), data["shipping_fees"])
	assert.Equal(t, float64(9700), data["total"])

	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)

	m.cartRepo.AssertExpectations(t)
}

func TestSaveCart_UnsupportedDestinationSavesWithoutShipping(t *testing.T) {
	router, m := setupRouter()

	m.shippingRepo.On("ResolveCountry", mock.Anything, "Atlantis", "XX").
		Return(nil, apperrors.NotFound("country", "XX"))
	m.catalogRepo.On("ResolveLine", mock.Anything, testProductID, testVariantID, testSizeID).
		Return(testResolvedLine(), nil)
	m.cartRepo.On("Replace", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	body, _ := json.Marshal(SaveCartRequest{
		Lines: []CartLineRequest{
			{ProductID: testProductID, VariantID: testVariantID, SizeID: testSizeID, Quantity: 2},
		},
		Destination: &DestinationRequest{CountryCode: "XX", CountryName: "Atlantis"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(9000), data["sub_total"])
	assert.Equal(t, float64(0), data["shipping_fees"])

	// no store lookup happens without a served destination
	m.shippingRepo.AssertNotCalled(t, "StoreByID", mock.Anything, mock.Anything)
}

func TestSaveCart_MissingIdentity(t *testing.T) {
	router, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(validSaveCartJSON()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveCart_InvalidJSON(t *testing.T) {
	router, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader([]byte(`{invalid json`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "invalid request body")
}

func TestSaveCart_ValidationError_NoLines(t *testing.T) {
	router, _ := setupRouter()

	body, _ := json.Marshal(SaveCartRequest{Lines: []CartLineRequest{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotNil(t, resp.Error.Fields)
}

func TestSaveCart_ValidationError_BadProductID(t *testing.T) {
	router, _ := setupRouter()

	body, _ := json.Marshal(SaveCartRequest{
		Lines: []CartLineRequest{
			{ProductID: "not-a-uuid", VariantID: testVariantID, SizeID: testSizeID, Quantity: 1},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestSaveCart_UnsupportedMediaType(t *testing.T) {
	router, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(validSaveCartJSON()))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSaveCart_InvalidCombination(t *testing.T) {
	router, m := setupRouter()

	stubQuotePath(m)
	m.catalogRepo.On("ResolveLine", mock.Anything, testProductID, testVariantID, testSizeID).
		Return(nil, apperrors.InvalidCombination(testProductID, testVariantID, testSizeID))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart", bytes.NewReader(validSaveCartJSON()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_COMBINATION", resp.Error.Code)
	m.cartRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestGetCart_Success(t *testing.T) {
	router, m := setupRouter()

	m.cartRepo.On("GetByUser", mock.Anything, testUserID).
		Return(&domain.Cart{ID: testCartID, UserID: testUserID}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, testCartID, data["id"])
}

func TestGetCart_NotFound(t *testing.T) {
	router, m := setupRouter()

	m.cartRepo.On("GetByUser", mock.Anything, testUserID).
		Return(nil, apperrors.NotFound("cart", testUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", testUserID)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
