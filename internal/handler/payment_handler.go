package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"loocal/internal/model"
	"loocal/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles payment-gateway facing HTTP requests: the
// asynchronous status notification intake and the integrity hash the
// gateway requires before tokenizing a transaction.
type PaymentHandler struct {
	service         service.OrderService
	integritySecret string
	logger          zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.OrderService, integritySecret string, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:         service,
		integritySecret: integritySecret,
		logger:          logger.With().Str("handler", "payment").Logger(),
	}
}

// paymentNotification is the gateway's status callback payload.
type paymentNotification struct {
	OrderID string              `json:"orderId"`
	Status  model.PaymentStatus `json:"status"`
}

// Notification handles POST /api/payments/notifications requests, the
// sole asynchronous input that mutates payment status after creation.
func (h *PaymentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	var req paymentNotification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.OrderID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "orderId is required", h.logger)
		return
	}

	order, err := h.service.UpdatePaymentStatus(r.Context(), req.OrderID, req.Status)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	h.logger.Info().
		Str("custom_order_id", req.OrderID).
		Str("payment_status", string(req.Status)).
		Msg("payment notification processed")

	writeJSON(w, http.StatusOK, order)
}

// integrityRequest is the payload for the gateway integrity hash.
type integrityRequest struct {
	OrderID  string `json:"orderId"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Integrity handles POST /api/payments/integrity requests: the
// gateway's checkout widget requires a sha256 over the transaction
// fields and a shared secret.
func (h *PaymentHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	var req integrityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.OrderID == "" || req.Amount == "" || req.Currency == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "orderId, amount and currency are required", h.logger)
		return
	}

	sum := sha256.Sum256([]byte(req.OrderID + req.Amount + req.Currency + h.integritySecret))

	writeJSON(w, http.StatusOK, map[string]string{
		"hash": hex.EncodeToString(sum[:]),
	})
}
