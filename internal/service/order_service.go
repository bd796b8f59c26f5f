package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loocal/internal/discount"
	"loocal/internal/lifecycle"
	"loocal/internal/model"
	"loocal/internal/pricing"
	"loocal/internal/repository"
	"loocal/internal/transport"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	deliveryDateLayout = "2006-01-02"
	deliveryTimeLayout = "15:04"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	companyRepo repository.CompanyRepository
	validator   discount.Validator
	transport   *transport.Resolver
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	companyRepo repository.CompanyRepository,
	validator discount.Validator,
	resolver *transport.Resolver,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		companyRepo: companyRepo,
		validator:   validator,
		transport:   resolver,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout assembles and persists a priced order. Any failure rolls
// the whole transaction back: no partial order, no consumed discount
// use, no orphan address.
func (s *orderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	now := time.Now()

	order := &model.Order{ID: uuid.New()}

	if err := s.resolveIdentity(ctx, req, order); err != nil {
		return nil, err
	}

	if err := validateCart(req.Items); err != nil {
		return nil, err
	}

	// Serviceability is a hard gate, distinct from the fee lookup
	// which never fails.
	if !s.transport.IsServiceable(req.Address.City) {
		s.logger.Warn().Str("city", req.Address.City).Msg("checkout rejected: city not serviceable")
		return nil, model.ErrUnserviceableCity
	}

	if err := validateDeliverySlot(req.DeliveryDate, req.DeliveryTime); err != nil {
		return nil, err
	}
	order.DeliveryDate = req.DeliveryDate
	order.DeliveryTime = req.DeliveryTime

	// Read-only discount validation happens before the transaction;
	// the committing increment runs inside it.
	var disc *model.Discount
	if req.DiscountCode != "" {
		var err error
		disc, err = s.validator.Validate(ctx, req.DiscountCode, order.Email, now)
		if err != nil {
			s.logger.Warn().Str("code", req.DiscountCode).Err(err).Msg("discount rejected")
			return nil, err
		}
		order.DiscountID = &disc.ID
		order.DiscountCode = disc.Code
	}

	items, subtotal, err := s.buildLineItems(ctx, order.ID, req.Items)
	if err != nil {
		return nil, err
	}

	transportCost := s.transport.Resolve(req.Address.City)
	totals := pricing.ComputeTotals(subtotal, transportCost, disc)

	order.Subtotal = subtotal
	order.TransportCost = transportCost
	order.DiscountValue = totals.DiscountValue
	order.DiscountOnTransport = totals.DiscountOnTransport
	order.Total = totals.Total
	order.PaymentMethod = req.PaymentMethod

	order.CustomOrderID = req.CustomOrderID
	if order.CustomOrderID == "" {
		order.CustomOrderID = newCustomOrderID(now)
	}

	lifecycle.Initialize(order, now)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	address := &model.Address{
		Email:      order.Email,
		Street:     req.Address.Street,
		City:       req.Address.City,
		State:      req.Address.State,
		PostalCode: req.Address.PostalCode,
		Country:    req.Address.Country,
	}
	address, err = s.addressRepo.FindOrCreate(ctx, tx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}
	order.AddressID = address.ID

	if disc != nil {
		if err = s.validator.Redeem(ctx, tx, disc.ID, order.Email); err != nil {
			s.logger.Warn().Str("code", disc.Code).Err(err).Msg("discount redemption failed")
			return nil, err
		}
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("custom_order_id", order.CustomOrderID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("custom_order_id", order.CustomOrderID).
		Int("item_count", len(items)).
		Str("total", order.Total.String()).
		Msg("order created successfully")

	return &model.OrderResponse{Order: order, Items: items, Address: address}, nil
}

// resolveIdentity fills the orderer fields from either the company
// reference or the person fields. Exactly one must be supplied.
func (s *orderService) resolveIdentity(ctx context.Context, req *model.CheckoutRequest, order *model.Order) error {
	hasPerson := req.FirstName != "" || req.LastName != "" || req.DocumentNumber != ""

	if req.CompanyID != nil {
		if hasPerson {
			return model.NewValidationError("supply either a company reference or person fields, not both")
		}

		companyID, err := uuid.Parse(*req.CompanyID)
		if err != nil {
			return model.NewValidationError("invalid company id %q", *req.CompanyID)
		}

		company, err := s.companyRepo.GetByID(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to resolve company: %w", err)
		}
		if company == nil {
			return model.ErrCompanyNotFound
		}

		order.CompanyID = &company.ID
		order.CompanyName = company.Name
		order.Email = company.Email
		order.Phone = company.Phone
		return nil
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" || req.DocumentNumber == "" {
		return model.NewValidationError("firstname, lastname, email, phone and documentNumber are required for person orders")
	}

	order.FirstName = req.FirstName
	order.LastName = req.LastName
	order.Email = req.Email
	order.Phone = req.Phone
	order.DocumentNumber = req.DocumentNumber
	return nil
}

// buildLineItems snapshots unit prices into order items and
// accumulates the order subtotal.
func (s *orderService) buildLineItems(ctx context.Context, orderID uuid.UUID, lines []model.CheckoutItem) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to resolve product: %w", err)
		}
		if product == nil {
			s.logger.Warn().Str("product_id", line.ProductID).Msg("product not found")
			return nil, decimal.Zero, model.ErrProductNotFound
		}

		unitPrice := product.Price

		if line.VariationID != nil {
			variation, err := s.productRepo.GetVariation(ctx, *line.VariationID)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("failed to resolve variation: %w", err)
			}
			if variation == nil || variation.ProductID != product.ID {
				s.logger.Warn().
					Str("product_id", line.ProductID).
					Str("variation_id", *line.VariationID).
					Msg("variation not found")
				return nil, decimal.Zero, model.ErrVariationNotFound
			}
			unitPrice = variation.Price
		} else if product.IsVariable {
			return nil, decimal.Zero, model.NewValidationError("product %s requires a variation", product.ID)
		}

		lineSubtotal := pricing.LineSubtotal(unitPrice, line.Quantity)
		items = append(items, model.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   line.ProductID,
			VariationID: line.VariationID,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    lineSubtotal,
			Tax:         decimal.Zero,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	return items, subtotal, nil
}

// GetByCustomOrderID retrieves an order by its public identifier.
func (s *orderService) GetByCustomOrderID(ctx context.Context, customOrderID string) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByCustomOrderID(ctx, customOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	address, err := s.addressRepo.GetByID(ctx, order.AddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return &model.OrderResponse{Order: order, Items: items, Address: address}, nil
}

// PartialUpdate mutates the delivery metadata of an existing order.
func (s *orderService) PartialUpdate(ctx context.Context, customOrderID string, patch *model.OrderPatch) (*model.OrderResponse, error) {
	if patch == nil {
		return nil, model.NewValidationError("empty patch")
	}

	if patch.DeliveryDate != nil {
		if _, err := time.Parse(deliveryDateLayout, *patch.DeliveryDate); err != nil {
			return nil, model.NewValidationError("invalid delivery date %q, expected YYYY-MM-DD", *patch.DeliveryDate)
		}
	}
	if patch.DeliveryTime != nil {
		if _, err := time.Parse(deliveryTimeLayout, *patch.DeliveryTime); err != nil {
			return nil, model.NewValidationError("invalid delivery time %q, expected HH:MM", *patch.DeliveryTime)
		}
	}
	if patch.PaymentStatus != nil && !model.ValidPaymentStatus(*patch.PaymentStatus) {
		return nil, model.NewValidationError("unknown payment status %q", *patch.PaymentStatus)
	}
	if patch.Address != nil && !s.transport.IsServiceable(patch.Address.City) {
		return nil, model.ErrUnserviceableCity
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, customOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	now := time.Now()

	if patch.FirstName != nil {
		order.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		order.LastName = *patch.LastName
	}
	if patch.Email != nil {
		order.Email = *patch.Email
	}
	if patch.Phone != nil {
		order.Phone = *patch.Phone
	}
	if patch.DeliveryDate != nil {
		order.DeliveryDate = *patch.DeliveryDate
	}
	if patch.DeliveryTime != nil {
		order.DeliveryTime = *patch.DeliveryTime
	}

	if patch.Address != nil {
		address := &model.Address{
			Email:      order.Email,
			Street:     patch.Address.Street,
			City:       patch.Address.City,
			State:      patch.Address.State,
			PostalCode: patch.Address.PostalCode,
			Country:    patch.Address.Country,
		}
		address, err = s.addressRepo.FindOrCreate(ctx, tx, address)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve address: %w", err)
		}
		order.AddressID = address.ID
	}

	order.UpdatedAt = now

	// Payment status routes through the state machine, never a direct
	// column write.
	var changes []model.OrderStatusChange
	if patch.PaymentStatus != nil {
		if change := lifecycle.ApplyPaymentStatus(order, *patch.PaymentStatus, now); change != nil {
			changes = append(changes, statusChangeRow(order.ID, change))
		}
	}

	if err = s.orderRepo.AppendStatusChanges(ctx, tx, changes); err != nil {
		return nil, err
	}
	if err = s.orderRepo.UpdateOrder(ctx, tx, order); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("custom_order_id", customOrderID).Msg("failed to commit partial update")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info().
		Str("custom_order_id", customOrderID).
		Int("status_changes", len(changes)).
		Msg("order updated")

	return s.GetByCustomOrderID(ctx, customOrderID)
}

// UpdatePaymentStatus moves the payment status through the state machine.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, customOrderID string, status model.PaymentStatus) (*model.OrderResponse, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, model.NewValidationError("unknown payment status %q", status)
	}

	return s.transition(ctx, customOrderID, func(order *model.Order, now time.Time) *lifecycle.Change {
		return lifecycle.ApplyPaymentStatus(order, status, now)
	})
}

// UpdateShippingStatus moves the shipping status through the state machine.
func (s *orderService) UpdateShippingStatus(ctx context.Context, customOrderID string, status model.ShippingStatus) (*model.OrderResponse, error) {
	if !model.ValidShippingStatus(status) {
		return nil, model.NewValidationError("unknown shipping status %q", status)
	}

	return s.transition(ctx, customOrderID, func(order *model.Order, now time.Time) *lifecycle.Change {
		return lifecycle.ApplyShippingStatus(order, status, now)
	})
}

// transition runs one state-machine step: lock the order, apply the
// change, append the log row and persist the new state as one unit.
func (s *orderService) transition(ctx context.Context, customOrderID string, apply func(*model.Order, time.Time) *lifecycle.Change) (*model.OrderResponse, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, customOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	change := apply(order, time.Now())
	if change == nil {
		// No-op transition: nothing to log, nothing to write.
		if err = tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			return nil, fmt.Errorf("failed to release order lock: %w", err)
		}
		err = nil
		return s.GetByCustomOrderID(ctx, customOrderID)
	}

	if err = s.orderRepo.AppendStatusChanges(ctx, tx, []model.OrderStatusChange{statusChangeRow(order.ID, change)}); err != nil {
		return nil, err
	}
	if err = s.orderRepo.UpdateOrder(ctx, tx, order); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("custom_order_id", customOrderID).Msg("failed to commit status update")
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.logger.Info().
		Str("custom_order_id", customOrderID).
		Str("field", change.Field).
		Str("previous", change.Previous).
		Str("new", change.New).
		Str("order_status", string(order.OrderStatus)).
		Msg("order status transitioned")

	return s.GetByCustomOrderID(ctx, customOrderID)
}

// StatusHistory retrieves one order's change log, oldest first.
func (s *orderService) StatusHistory(ctx context.Context, customOrderID string) ([]model.OrderStatusChange, error) {
	order, _, err := s.orderRepo.GetByCustomOrderID(ctx, customOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return s.orderRepo.ListStatusChanges(ctx, order.ID)
}

// StatusChangeFeed retrieves change-log entries across all orders.
func (s *orderService) StatusChangeFeed(ctx context.Context, since time.Time, limit int) ([]model.OrderStatusChange, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	return s.orderRepo.StatusChangeFeed(ctx, since, limit)
}

// validateCart validates the cart lines of a checkout request.
func validateCart(items []model.CheckoutItem) error {
	if len(items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}

	for i, item := range items {
		if item.ProductID == "" {
			return model.NewValidationError("item %d: product ID is required", i)
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// validateDeliverySlot parses the delivery date and time formats.
func validateDeliverySlot(date, timeOfDay string) error {
	if _, err := time.Parse(deliveryDateLayout, date); err != nil {
		return model.NewValidationError("invalid delivery date %q, expected YYYY-MM-DD", date)
	}
	if _, err := time.Parse(deliveryTimeLayout, timeOfDay); err != nil {
		return model.NewValidationError("invalid delivery time %q, expected HH:MM", timeOfDay)
	}
	return nil
}

// statusChangeRow converts a lifecycle change into its audit row.
func statusChangeRow(orderID uuid.UUID, c *lifecycle.Change) model.OrderStatusChange {
	return model.OrderStatusChange{
		ID:            uuid.New(),
		OrderID:       orderID,
		Field:         c.Field,
		PreviousValue: c.Previous,
		NewValue:      c.New,
		ChangedAt:     c.At,
	}
}

// newCustomOrderID generates a public order identifier.
func newCustomOrderID(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
