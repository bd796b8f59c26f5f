package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"loocal/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentHandler_Notification(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Paid notification", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "secret", logger)

		resp := testOrderResponse("ORD-1")
		resp.Order.PaymentStatus = model.PaymentPaid
		mockService.On("UpdatePaymentStatus", mock.Anything, "ORD-1", model.PaymentPaid).Return(resp, nil)

		body := []byte(`{"orderId":"ORD-1","status":"paid"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/notifications", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Notification(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Unknown order", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "secret", logger)

		mockService.On("UpdatePaymentStatus", mock.Anything, "ORD-MISSING", model.PaymentFailed).
			Return(nil, model.ErrOrderNotFound)

		body := []byte(`{"orderId":"ORD-MISSING","status":"failed"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/notifications", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Notification(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unknown status value", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "secret", logger)

		mockService.On("UpdatePaymentStatus", mock.Anything, "ORD-1", model.PaymentStatus("settled")).
			Return(nil, model.NewValidationError("unknown payment status %q", "settled"))

		body := []byte(`{"orderId":"ORD-1","status":"settled"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/notifications", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Notification(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing order id", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "secret", logger)

		body := []byte(`{"status":"paid"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/notifications", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Notification(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "UpdatePaymentStatus")
	})

	t.Run("Method not allowed", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "secret", logger)

		req := httptest.NewRequest(http.MethodGet, "/api/payments/notifications", nil)
		w := httptest.NewRecorder()

		handler.Notification(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestPaymentHandler_Integrity(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Hash over fields and secret", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "test-secret", logger)

		body := []byte(`{"orderId":"ORD-1","amount":"5800000","currency":"COP"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/integrity", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Integrity(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		sum := sha256.Sum256([]byte("ORD-1" + "5800000" + "COP" + "test-secret"))
		assert.Equal(t, hex.EncodeToString(sum[:]), resp["hash"])
	})

	t.Run("Missing fields", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewPaymentHandler(mockService, "test-secret", logger)

		body := []byte(`{"orderId":"ORD-1","amount":"5800000"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/payments/integrity", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Integrity(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
