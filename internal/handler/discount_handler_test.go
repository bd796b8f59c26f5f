package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loocal/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDiscountValidator is a mock implementation of discount.Validator.
type MockDiscountValidator struct {
	mock.Mock
}

func (m *MockDiscountValidator) Validate(ctx context.Context, code, email string, now time.Time) (*model.Discount, error) {
	args := m.Called(ctx, code, email, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockDiscountValidator) Quote(ctx context.Context, req *model.QuoteRequest, now time.Time) (*model.QuoteResult, error) {
	args := m.Called(ctx, req, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuoteResult), args.Error(1)
}

func (m *MockDiscountValidator) Redeem(ctx context.Context, tx pgx.Tx, discountID uuid.UUID, email string) error {
	args := m.Called(ctx, tx, discountID, email)
	return args.Error(0)
}

func TestDiscountHandler_Quote(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Valid code", func(t *testing.T) {
		mockValidator := new(MockDiscountValidator)
		handler := NewDiscountHandler(mockValidator, logger)

		mockValidator.On("Quote", mock.Anything, mock.AnythingOfType("*model.QuoteRequest"), mock.AnythingOfType("time.Time")).
			Return(&model.QuoteResult{
				Valid:         true,
				DiscountValue: decimal.NewFromInt(10000),
			}, nil)

		body := []byte(`{"code":"SAVE10","subtotal":"100000","transportCost":"8000"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/discounts/quote", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result model.QuoteResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.True(t, result.Valid)
		assert.True(t, result.DiscountValue.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("Rejected code still returns 200", func(t *testing.T) {
		mockValidator := new(MockDiscountValidator)
		handler := NewDiscountHandler(mockValidator, logger)

		mockValidator.On("Quote", mock.Anything, mock.Anything, mock.Anything).
			Return(&model.QuoteResult{Valid: false}, nil)

		body := []byte(`{"code":"NOPE","subtotal":"100000"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/discounts/quote", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result model.QuoteResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.False(t, result.Valid)
	})

	t.Run("Missing code", func(t *testing.T) {
		mockValidator := new(MockDiscountValidator)
		handler := NewDiscountHandler(mockValidator, logger)

		body := []byte(`{"subtotal":"100000"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/discounts/quote", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockValidator.AssertNotCalled(t, "Quote")
	})

	t.Run("Method not allowed", func(t *testing.T) {
		mockValidator := new(MockDiscountValidator)
		handler := NewDiscountHandler(mockValidator, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/discounts/quote", nil)
		w := httptest.NewRecorder()

		handler.Quote(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
