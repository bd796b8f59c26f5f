package repository

import (
	"context"
	"time"

	"loocal/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when
	// the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetVariation retrieves a product variation by its ID. Returns
	// nil when the variation does not exist.
	GetVariation(ctx context.Context, id string) (*model.ProductVariation, error)

	// GetVariationsByProduct retrieves all variations of a product.
	GetVariationsByProduct(ctx context.Context, productID string) ([]model.ProductVariation, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByCustomOrderID retrieves an order by its public identifier
	// along with its items. Returns a nil order when not found.
	GetByCustomOrderID(ctx context.Context, customOrderID string) (*model.Order, []model.OrderItem, error)

	// GetForUpdate retrieves an order by its public identifier inside
	// the transaction, locking the row against concurrent status
	// writers. Returns nil when not found.
	GetForUpdate(ctx context.Context, tx pgx.Tx, customOrderID string) (*model.Order, error)

	// UpdateOrder persists the mutable order columns within the
	// provided transaction.
	UpdateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// AppendStatusChanges inserts change-log rows within the provided
	// transaction. The log write and the status write commit or roll
	// back as one unit.
	AppendStatusChanges(ctx context.Context, tx pgx.Tx, changes []model.OrderStatusChange) error

	// ListStatusChanges retrieves the change log of one order, oldest
	// first.
	ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusChange, error)

	// StatusChangeFeed retrieves change-log rows across all orders
	// written at or after since, oldest first, capped at limit.
	StatusChangeFeed(ctx context.Context, since time.Time, limit int) ([]model.OrderStatusChange, error)
}

// DiscountRepository defines the interface for discount data access operations.
type DiscountRepository interface {
	// GetByCode retrieves a discount by its code. Returns nil when the
	// code does not exist.
	GetByCode(ctx context.Context, code string) (*model.Discount, error)

	// GetUserUsage returns how many times the customer identified by
	// email has redeemed the discount. Missing counter rows count as
	// zero.
	GetUserUsage(ctx context.Context, discountID uuid.UUID, email string) (int, error)

	// LockForRedeem re-reads the discount inside the transaction with
	// a row lock, so concurrent redemptions serialise on the counter.
	LockForRedeem(ctx context.Context, tx pgx.Tx, discountID uuid.UUID) (*model.Discount, error)

	// IncrementUsage increments the discount's global counter and
	// upserts the per-customer counter, within the provided
	// transaction. It returns the customer's counter after the
	// increment so the caller can enforce the per-customer cap under
	// the same row lock.
	IncrementUsage(ctx context.Context, tx pgx.Tx, discountID uuid.UUID, email string) (int, error)
}

// AddressRepository defines the interface for address data access operations.
type AddressRepository interface {
	// FindOrCreate resolves an address by exact match on all fields,
	// inserting a new row only on a miss, within the provided
	// transaction.
	FindOrCreate(ctx context.Context, tx pgx.Tx, addr *model.Address) (*model.Address, error)

	// GetByID retrieves an address by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)
}

// CompanyRepository defines the interface for company data access operations.
type CompanyRepository interface {
	// GetByID retrieves a company by its ID. Returns nil when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
}
