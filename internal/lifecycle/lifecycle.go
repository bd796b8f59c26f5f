// Package lifecycle owns order status transitions. The derived order
// status is a pure function of the two status axes, evaluated once per
// transition; nothing in here triggers itself.
package lifecycle

import (
	"time"

	"loocal/internal/model"
)

// Change records one observed status transition, ready to be appended
// to the order's change log.
type Change struct {
	Field    string
	Previous string
	New      string
	At       time.Time
}

// DeriveOrderStatus projects the two status axes onto the
// customer-facing order status. Rules are evaluated in precedence
// order; the first match wins, and every combination matches one.
func DeriveOrderStatus(payment model.PaymentStatus, shipping model.ShippingStatus) model.OrderStatus {
	switch {
	case payment == model.PaymentFailed || payment == model.PaymentRefunded:
		return model.OrderCanceled
	case (payment == model.PaymentInProgress || payment == model.PaymentPaid) &&
		shipping == model.ShippingPendingPreparation:
		return model.OrderInPreparation
	case payment == model.PaymentPaid && shipping == model.ShippingDelivered:
		return model.OrderDeliveredPaid
	case payment == model.PaymentPending && shipping == model.ShippingDelivered:
		return model.OrderDeliveredPendingPayment
	case payment == model.PaymentPaid && shipping == model.ShippingInTransit:
		return model.OrderInTransit
	case shipping == model.ShippingReturned:
		return model.OrderReturned
	default:
		return model.OrderPending
	}
}

// ApplyPaymentStatus moves an order to a new payment status. When the
// value actually changes it returns the change to log, recomputes the
// derived order status and clears the temporary flag the first time
// payment leaves pending. A no-op transition returns nil.
func ApplyPaymentStatus(o *model.Order, next model.PaymentStatus, now time.Time) *Change {
	if o.PaymentStatus == next {
		return nil
	}

	change := &Change{
		Field:    model.FieldPaymentStatus,
		Previous: string(o.PaymentStatus),
		New:      string(next),
		At:       now,
	}

	o.PaymentStatus = next
	o.OrderStatus = DeriveOrderStatus(o.PaymentStatus, o.ShippingStatus)

	// An order becomes real once payment begins.
	if next != model.PaymentPending {
		o.IsTemporary = false
	}

	o.UpdatedAt = now

	return change
}

// ApplyShippingStatus moves an order to a new shipping status,
// mirroring ApplyPaymentStatus.
func ApplyShippingStatus(o *model.Order, next model.ShippingStatus, now time.Time) *Change {
	if o.ShippingStatus == next {
		return nil
	}

	change := &Change{
		Field:    model.FieldShippingStatus,
		Previous: string(o.ShippingStatus),
		New:      string(next),
		At:       now,
	}

	o.ShippingStatus = next
	o.OrderStatus = DeriveOrderStatus(o.PaymentStatus, o.ShippingStatus)
	o.UpdatedAt = now

	return change
}

// Initialize puts a freshly assembled order into its starting state:
// payment pending, preparation pending, temporary until payment moves.
func Initialize(o *model.Order, now time.Time) {
	o.PaymentStatus = model.PaymentPending
	o.ShippingStatus = model.ShippingPendingPreparation
	o.OrderStatus = DeriveOrderStatus(o.PaymentStatus, o.ShippingStatus)
	o.IsTemporary = true
	o.CreatedAt = now
	o.UpdatedAt = now
}
