package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"loocal/internal/model"
	"loocal/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByCustomOrderID handles GET /api/orders/{customOrderID} requests.
func (h *OrderHandler) GetByCustomOrderID(w http.ResponseWriter, r *http.Request) {
	customOrderID, rest := splitOrderPath(r.URL.Path)
	if customOrderID == "" || rest != "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	order, err := h.service.GetByCustomOrderID(r.Context(), customOrderID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Patch handles PATCH /api/orders/{customOrderID} requests. Only
// delivery metadata and payment status may change after creation.
func (h *OrderHandler) Patch(w http.ResponseWriter, r *http.Request) {
	customOrderID, rest := splitOrderPath(r.URL.Path)
	if customOrderID == "" || rest != "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	var patch model.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.PartialUpdate(r.Context(), customOrderID, &patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateShipping handles PUT /api/orders/{customOrderID}/shipping
// requests, the fulfilment surface for advancing shipping status.
func (h *OrderHandler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	customOrderID, rest := splitOrderPath(r.URL.Path)
	if customOrderID == "" || rest != "shipping" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	var req struct {
		ShippingStatus model.ShippingStatus `json:"shippingStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.UpdateShippingStatus(r.Context(), customOrderID, req.ShippingStatus)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// History handles GET /api/orders/{customOrderID}/history requests.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	customOrderID, rest := splitOrderPath(r.URL.Path)
	if customOrderID == "" || rest != "history" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "order ID is required", h.logger)
		return
	}

	changes, err := h.service.StatusHistory(r.Context(), customOrderID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if changes == nil {
		changes = []model.OrderStatusChange{}
	}
	writeJSON(w, http.StatusOK, changes)
}

// Feed handles GET /api/status-changes requests, the change-log feed
// consumed by reporting collaborators.
func (h *OrderHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid since parameter, expected RFC3339", h.logger)
			return
		}
		since = parsed
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "invalid limit parameter", h.logger)
			return
		}
		limit = parsed
	}

	changes, err := h.service.StatusChangeFeed(r.Context(), since, limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if changes == nil {
		changes = []model.OrderStatusChange{}
	}
	writeJSON(w, http.StatusOK, changes)
}

// splitOrderPath extracts the order id and trailing sub-resource from
// an /api/orders/... path.
func splitOrderPath(path string) (id, rest string) {
	trimmed := strings.TrimPrefix(path, "/api/orders/")
	if trimmed == path {
		return "", ""
	}
	trimmed = strings.Trim(trimmed, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i], trimmed[i+1:]
	}
	return trimmed, ""
}
