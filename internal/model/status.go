package model

// PaymentStatus tracks how far payment for an order has progressed.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentInProgress PaymentStatus = "in_progress"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// ShippingStatus tracks physical fulfilment, independently of payment.
type ShippingStatus string

const (
	ShippingPendingPreparation ShippingStatus = "pending_preparation"
	ShippingPreparing          ShippingStatus = "preparing"
	ShippingReadyToShip        ShippingStatus = "ready_to_ship"
	ShippingInTransit          ShippingStatus = "in_transit"
	ShippingDelivered          ShippingStatus = "delivered"
	ShippingReturned           ShippingStatus = "returned"
)

// OrderStatus is the customer-facing projection of the two status axes.
// It is always derived, never written directly.
type OrderStatus string

const (
	OrderPending                OrderStatus = "pending"
	OrderInPreparation          OrderStatus = "in_preparation"
	OrderInTransit              OrderStatus = "in_transit"
	OrderDeliveredPaid          OrderStatus = "delivered_paid"
	OrderDeliveredPendingPayment OrderStatus = "delivered_pending_payment"
	OrderCanceled               OrderStatus = "canceled"
	OrderReturned               OrderStatus = "returned"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentInProgress, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// ValidShippingStatus reports whether s is a known shipping status.
func ValidShippingStatus(s ShippingStatus) bool {
	switch s {
	case ShippingPendingPreparation, ShippingPreparing, ShippingReadyToShip,
		ShippingInTransit, ShippingDelivered, ShippingReturned:
		return true
	}
	return false
}
