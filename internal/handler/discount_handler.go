package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"loocal/internal/discount"
	"loocal/internal/model"

	"github.com/rs/zerolog"
)

// DiscountHandler handles discount-related HTTP requests.
type DiscountHandler struct {
	validator discount.Validator
	logger    zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(validator discount.Validator, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		validator: validator,
		logger:    logger.With().Str("handler", "discount").Logger(),
	}
}

// Quote handles POST /api/discounts/quote requests. It reports the
// discount a code would grant without consuming any usage.
func (h *DiscountHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Code == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "discount code is required", h.logger)
		return
	}

	result, err := h.validator.Quote(r.Context(), &req, time.Now())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
