package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a checkout. Monetary fields are
// two-decimal currency units; Total is always derived from the other
// monetary fields by the pricing engine.
type Order struct {
	ID            uuid.UUID `json:"-" db:"id"`
	CustomOrderID string    `json:"customOrderId" db:"custom_order_id"`

	// Orderer identity: either the person fields or the company
	// reference is set, never both.
	FirstName      string     `json:"firstname,omitempty" db:"firstname"`
	LastName       string     `json:"lastname,omitempty" db:"lastname"`
	Email          string     `json:"email" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	DocumentNumber string     `json:"documentNumber,omitempty" db:"document_number"`
	CompanyID      *uuid.UUID `json:"companyId,omitempty" db:"company_id"`
	CompanyName    string     `json:"companyName,omitempty" db:"company_name"`

	AddressID    uuid.UUID `json:"addressId" db:"address_id"`
	DeliveryDate string    `json:"deliveryDate" db:"delivery_date"`
	DeliveryTime string    `json:"deliveryTime" db:"delivery_time"`

	Subtotal            decimal.Decimal `json:"subtotal" db:"subtotal"`
	TransportCost       decimal.Decimal `json:"transportCost" db:"transport_cost"`
	DiscountID          *uuid.UUID      `json:"-" db:"discount_id"`
	DiscountCode        string          `json:"discountCode,omitempty" db:"discount_code"`
	DiscountValue       decimal.Decimal `json:"discountValue" db:"discount_value"`
	DiscountOnTransport decimal.Decimal `json:"discountOnTransport" db:"discount_on_transport"`
	Total               decimal.Decimal `json:"total" db:"total"`

	PaymentStatus  PaymentStatus  `json:"paymentStatus" db:"payment_status"`
	ShippingStatus ShippingStatus `json:"shippingStatus" db:"shipping_status"`
	OrderStatus    OrderStatus    `json:"orderStatus" db:"order_status"`
	IsTemporary    bool           `json:"isTemporary" db:"is_temporary"`
	PaymentMethod  string         `json:"paymentMethod,omitempty" db:"payment_method"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line of an order. UnitPrice is a snapshot taken at
// checkout time, not a live reference to the product price.
type OrderItem struct {
	ID          uuid.UUID       `json:"-" db:"id"`
	OrderID     uuid.UUID       `json:"-" db:"order_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	VariationID *string         `json:"variationId,omitempty" db:"variation_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax         decimal.Decimal `json:"tax" db:"tax"`
}

// OrderStatusChange is an append-only audit record of one status
// transition on one order.
type OrderStatusChange struct {
	ID            uuid.UUID `json:"-" db:"id"`
	OrderID       uuid.UUID `json:"-" db:"order_id"`
	CustomOrderID string    `json:"customOrderId,omitempty" db:"-"`
	Field         string    `json:"field" db:"field"`
	PreviousValue string    `json:"previousValue" db:"previous_value"`
	NewValue      string    `json:"newValue" db:"new_value"`
	ChangedAt     time.Time `json:"changedAt" db:"changed_at"`
}

// Status-change log field names.
const (
	FieldPaymentStatus  = "payment_status"
	FieldShippingStatus = "shipping_status"
)

// CheckoutRequest is the request payload for creating an order.
type CheckoutRequest struct {
	CustomOrderID string `json:"customOrderId,omitempty"`

	FirstName      string  `json:"firstname,omitempty"`
	LastName       string  `json:"lastname,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	DocumentNumber string  `json:"documentNumber,omitempty"`
	CompanyID      *string `json:"companyId,omitempty"`

	Address      AddressRequest `json:"address"`
	DeliveryDate string         `json:"deliveryDate"`
	DeliveryTime string         `json:"deliveryTime"`

	DiscountCode  string `json:"discountCode,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`

	Items []CheckoutItem `json:"items"`
}

// CheckoutItem is a single cart line in a checkout request.
type CheckoutItem struct {
	ProductID   string  `json:"productId"`
	VariationID *string `json:"variationId,omitempty"`
	Quantity    int     `json:"quantity"`
}

// AddressRequest carries the delivery address fields of a checkout.
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderPatch carries the fields a partial update may change. Nil
// pointers leave the corresponding field untouched; every other order
// field is immutable after creation.
type OrderPatch struct {
	FirstName     *string         `json:"firstname,omitempty"`
	LastName      *string         `json:"lastname,omitempty"`
	Email         *string         `json:"email,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Address       *AddressRequest `json:"address,omitempty"`
	DeliveryDate  *string         `json:"deliveryDate,omitempty"`
	DeliveryTime  *string         `json:"deliveryTime,omitempty"`
	PaymentStatus *PaymentStatus  `json:"paymentStatus,omitempty"`
}

// OrderResponse is the order representation returned to API callers.
type OrderResponse struct {
	Order   *Order      `json:"order"`
	Items   []OrderItem `json:"items"`
	Address *Address    `json:"address,omitempty"`
}
