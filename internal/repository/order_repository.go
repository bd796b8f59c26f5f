package repository

import (
	"context"
	"fmt"
	"time"

	"loocal/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `
	id, custom_order_id,
	firstname, lastname, email, phone, document_number, company_id, company_name,
	address_id, delivery_date, delivery_time,
	subtotal, transport_cost, discount_id, discount_code, discount_value, discount_on_transport, total,
	payment_status, shipping_status, order_status, is_temporary, payment_method,
	created_at, updated_at
`

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.CustomOrderID,
		order.FirstName, order.LastName, order.Email, order.Phone,
		order.DocumentNumber, order.CompanyID, order.CompanyName,
		order.AddressID, order.DeliveryDate, order.DeliveryTime,
		order.Subtotal, order.TransportCost, order.DiscountID, order.DiscountCode,
		order.DiscountValue, order.DiscountOnTransport, order.Total,
		order.PaymentStatus, order.ShippingStatus, order.OrderStatus,
		order.IsTemporary, order.PaymentMethod,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("custom_order_id", order.CustomOrderID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("custom_order_id", order.CustomOrderID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, variation_id, quantity, unit_price, subtotal, tax)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.VariationID,
			item.Quantity, item.UnitPrice, item.Subtotal, item.Tax)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// scanOrder scans one order row from the shared column list.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var order model.Order
	err := row.Scan(
		&order.ID, &order.CustomOrderID,
		&order.FirstName, &order.LastName, &order.Email, &order.Phone,
		&order.DocumentNumber, &order.CompanyID, &order.CompanyName,
		&order.AddressID, &order.DeliveryDate, &order.DeliveryTime,
		&order.Subtotal, &order.TransportCost, &order.DiscountID, &order.DiscountCode,
		&order.DiscountValue, &order.DiscountOnTransport, &order.Total,
		&order.PaymentStatus, &order.ShippingStatus, &order.OrderStatus,
		&order.IsTemporary, &order.PaymentMethod,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByCustomOrderID retrieves an order by its public identifier along
// with its items.
func (r *orderRepository) GetByCustomOrderID(ctx context.Context, customOrderID string) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE custom_order_id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, customOrderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("custom_order_id", customOrderID).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("custom_order_id", customOrderID).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, variation_id, quantity, unit_price, subtotal, tax
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("custom_order_id", customOrderID).
			Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariationID,
			&item.Quantity, &item.UnitPrice, &item.Subtotal, &item.Tax)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, items, nil
}

// GetForUpdate retrieves an order by its public identifier inside the
// transaction, locking the row. The lock makes the change log reflect
// the actually persisted prior value when status updates race.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, customOrderID string) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE custom_order_id = $1
		FOR UPDATE
	`

	order, err := scanOrder(tx.QueryRow(ctx, query, customOrderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("custom_order_id", customOrderID).Msg("order not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("custom_order_id", customOrderID).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return order, nil
}

// UpdateOrder persists the mutable order columns within the provided
// transaction.
func (r *orderRepository) UpdateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		UPDATE orders SET
			firstname = $2, lastname = $3, email = $4, phone = $5,
			address_id = $6, delivery_date = $7, delivery_time = $8,
			payment_status = $9, shipping_status = $10, order_status = $11,
			is_temporary = $12, updated_at = $13
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		order.ID,
		order.FirstName, order.LastName, order.Email, order.Phone,
		order.AddressID, order.DeliveryDate, order.DeliveryTime,
		order.PaymentStatus, order.ShippingStatus, order.OrderStatus,
		order.IsTemporary, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("custom_order_id", order.CustomOrderID).
			Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found for update", order.CustomOrderID)
	}

	return nil
}

// AppendStatusChanges inserts change-log rows within the provided
// transaction.
func (r *orderRepository) AppendStatusChanges(ctx context.Context, tx pgx.Tx, changes []model.OrderStatusChange) error {
	if len(changes) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_status_changes (id, order_id, field, previous_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, c := range changes {
		batch.Queue(query, c.ID, c.OrderID, c.Field, c.PreviousValue, c.NewValue, c.ChangedAt)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(changes); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", changes[i].OrderID.String()).
				Str("field", changes[i].Field).
				Msg("failed to append status change")
			return fmt.Errorf("failed to append status change: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(changes)).
		Msg("status changes appended")

	return nil
}

// ListStatusChanges retrieves the change log of one order, oldest first.
func (r *orderRepository) ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusChange, error) {
	query := `
		SELECT id, order_id, field, previous_value, new_value, changed_at
		FROM order_status_changes
		WHERE order_id = $1
		ORDER BY changed_at, id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query status changes")
		return nil, fmt.Errorf("failed to query status changes: %w", err)
	}
	defer rows.Close()

	return scanStatusChanges(rows)
}

// StatusChangeFeed retrieves change-log rows across all orders written
// at or after since, oldest first.
func (r *orderRepository) StatusChangeFeed(ctx context.Context, since time.Time, limit int) ([]model.OrderStatusChange, error) {
	query := `
		SELECT c.id, c.order_id, c.field, c.previous_value, c.new_value, c.changed_at, o.custom_order_id
		FROM order_status_changes c
		JOIN orders o ON o.id = c.order_id
		WHERE c.changed_at >= $1
		ORDER BY c.changed_at, c.id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		r.logger.Error().Err(err).Time("since", since).Msg("failed to query status change feed")
		return nil, fmt.Errorf("failed to query status change feed: %w", err)
	}
	defer rows.Close()

	var changes []model.OrderStatusChange
	for rows.Next() {
		var c model.OrderStatusChange
		err := rows.Scan(&c.ID, &c.OrderID, &c.Field, &c.PreviousValue, &c.NewValue, &c.ChangedAt, &c.CustomOrderID)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan status change row")
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		changes = append(changes, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating status change rows")
		return nil, fmt.Errorf("error iterating status changes: %w", err)
	}

	return changes, nil
}

// scanStatusChanges collects change-log rows without the joined order id.
func scanStatusChanges(rows pgx.Rows) ([]model.OrderStatusChange, error) {
	var changes []model.OrderStatusChange
	for rows.Next() {
		var c model.OrderStatusChange
		err := rows.Scan(&c.ID, &c.OrderID, &c.Field, &c.PreviousValue, &c.NewValue, &c.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		changes = append(changes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status changes: %w", err)
	}

	return changes, nil
}
