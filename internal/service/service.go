package service

import (
	"context"
	"time"

	"loocal/internal/model"
)

// ProductService defines operations for catalogue reads.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product with its variations.
	GetByID(ctx context.Context, id string) (*model.ProductResponse, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout assembles and persists a priced order from a validated
	// cart, as a single atomic transaction.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetByCustomOrderID retrieves an order by its public identifier.
	GetByCustomOrderID(ctx context.Context, customOrderID string) (*model.OrderResponse, error)

	// PartialUpdate mutates the delivery metadata of an existing
	// order: contact fields, address, delivery date/time and payment
	// status. Everything else is immutable after creation.
	PartialUpdate(ctx context.Context, customOrderID string, patch *model.OrderPatch) (*model.OrderResponse, error)

	// UpdatePaymentStatus moves the order's payment status through the
	// lifecycle state machine. This is the intake for asynchronous
	// payment-gateway notifications.
	UpdatePaymentStatus(ctx context.Context, customOrderID string, status model.PaymentStatus) (*model.OrderResponse, error)

	// UpdateShippingStatus moves the order's shipping status through
	// the lifecycle state machine.
	UpdateShippingStatus(ctx context.Context, customOrderID string, status model.ShippingStatus) (*model.OrderResponse, error)

	// StatusHistory retrieves one order's change log, oldest first.
	StatusHistory(ctx context.Context, customOrderID string) ([]model.OrderStatusChange, error)

	// StatusChangeFeed retrieves change-log entries across all orders
	// for reporting collaborators.
	StatusChangeFeed(ctx context.Context, since time.Time, limit int) ([]model.OrderStatusChange, error)
}
