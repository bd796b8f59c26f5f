package router

import (
	"net/http"
	"strings"

	"loocal/internal/handler"
	"loocal/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	discountHandler *handler.DiscountHandler,
	paymentHandler *handler.PaymentHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.GetAll(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && (r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/") {
			orderHandler.Create(w, r)
			return
		}

		// Requests for a specific order: GET/PATCH on the order itself
		// or GET on its status history.
		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			switch {
			case strings.HasSuffix(r.URL.Path, "/history") && r.Method == http.MethodGet:
				orderHandler.History(w, r)
			case strings.HasSuffix(r.URL.Path, "/shipping") && r.Method == http.MethodPut:
				orderHandler.UpdateShipping(w, r)
			case r.Method == http.MethodGet:
				orderHandler.GetByCustomOrderID(w, r)
			case r.Method == http.MethodPatch:
				orderHandler.Patch(w, r)
			default:
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Change-log feed for reporting collaborators
	mux.HandleFunc("/api/status-changes", orderHandler.Feed)

	// Discount quote (read-only, never consumes usage)
	mux.HandleFunc("/api/discounts/quote", discountHandler.Quote)

	// Payment gateway surface
	mux.HandleFunc("/api/payments/notifications", paymentHandler.Notification)
	mux.HandleFunc("/api/payments/integrity", paymentHandler.Integrity)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
