package lifecycle

import (
	"testing"
	"time"

	"loocal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allPaymentStatuses = []model.PaymentStatus{
	model.PaymentPending,
	model.PaymentInProgress,
	model.PaymentPaid,
	model.PaymentFailed,
	model.PaymentRefunded,
}

var allShippingStatuses = []model.ShippingStatus{
	model.ShippingPendingPreparation,
	model.ShippingPreparing,
	model.ShippingReadyToShip,
	model.ShippingInTransit,
	model.ShippingDelivered,
	model.ShippingReturned,
}

func TestDeriveOrderStatus(t *testing.T) {
	cases := []struct {
		payment  model.PaymentStatus
		shipping model.ShippingStatus
		want     model.OrderStatus
	}{
		{model.PaymentPending, model.ShippingPendingPreparation, model.OrderPending},
		{model.PaymentInProgress, model.ShippingPendingPreparation, model.OrderInPreparation},
		{model.PaymentPaid, model.ShippingPendingPreparation, model.OrderInPreparation},
		{model.PaymentPaid, model.ShippingInTransit, model.OrderInTransit},
		{model.PaymentPaid, model.ShippingDelivered, model.OrderDeliveredPaid},
		{model.PaymentPending, model.ShippingDelivered, model.OrderDeliveredPendingPayment},
		{model.PaymentFailed, model.ShippingPendingPreparation, model.OrderCanceled},
		{model.PaymentRefunded, model.ShippingDelivered, model.OrderCanceled},
		{model.PaymentPaid, model.ShippingReturned, model.OrderReturned},
		{model.PaymentPending, model.ShippingReturned, model.OrderReturned},
		// intermediate shipping states with no dedicated rule
		{model.PaymentPending, model.ShippingInTransit, model.OrderPending},
		{model.PaymentPending, model.ShippingPreparing, model.OrderPending},
		{model.PaymentPaid, model.ShippingPreparing, model.OrderPending},
		{model.PaymentPaid, model.ShippingReadyToShip, model.OrderPending},
		{model.PaymentInProgress, model.ShippingDelivered, model.OrderPending},
	}

	for _, tc := range cases {
		got := DeriveOrderStatus(tc.payment, tc.shipping)
		assert.Equal(t, tc.want, got, "payment=%s shipping=%s", tc.payment, tc.shipping)
	}
}

func TestDeriveOrderStatus_Total(t *testing.T) {
	// Every combination of the two axes must map to a known status.
	known := map[model.OrderStatus]bool{
		model.OrderPending:                 true,
		model.OrderInPreparation:           true,
		model.OrderInTransit:               true,
		model.OrderDeliveredPaid:           true,
		model.OrderDeliveredPendingPayment: true,
		model.OrderCanceled:                true,
		model.OrderReturned:                true,
	}

	for _, p := range allPaymentStatuses {
		for _, s := range allShippingStatuses {
			got := DeriveOrderStatus(p, s)
			assert.True(t, known[got], "payment=%s shipping=%s derived %q", p, s, got)
		}
	}
}

func TestDeriveOrderStatus_FailureWinsOverShipping(t *testing.T) {
	// A failed or refunded payment cancels the order regardless of the
	// shipping axis, including returned.
	for _, p := range []model.PaymentStatus{model.PaymentFailed, model.PaymentRefunded} {
		for _, s := range allShippingStatuses {
			assert.Equal(t, model.OrderCanceled, DeriveOrderStatus(p, s),
				"payment=%s shipping=%s", p, s)
		}
	}
}

func newPendingOrder(now time.Time) *model.Order {
	o := &model.Order{CustomOrderID: "ORD-20260901-ABCD1234"}
	Initialize(o, now)
	return o
}

func TestInitialize(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	o := newPendingOrder(now)

	assert.Equal(t, model.PaymentPending, o.PaymentStatus)
	assert.Equal(t, model.ShippingPendingPreparation, o.ShippingStatus)
	assert.Equal(t, model.OrderPending, o.OrderStatus)
	assert.True(t, o.IsTemporary)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, now, o.UpdatedAt)
}

func TestApplyPaymentStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(5 * time.Minute)
	o := newPendingOrder(now)

	change := ApplyPaymentStatus(o, model.PaymentPaid, later)
	require.NotNil(t, change)

	assert.Equal(t, model.FieldPaymentStatus, change.Field)
	assert.Equal(t, string(model.PaymentPending), change.Previous)
	assert.Equal(t, string(model.PaymentPaid), change.New)
	assert.Equal(t, later, change.At)

	assert.Equal(t, model.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, model.OrderInPreparation, o.OrderStatus)
	assert.False(t, o.IsTemporary, "first departure from pending clears the temporary flag")
	assert.Equal(t, later, o.UpdatedAt)
}

func TestApplyPaymentStatus_NoOp(t *testing.T) {
	now := time.Now()
	o := newPendingOrder(now)

	change := ApplyPaymentStatus(o, model.PaymentPending, now.Add(time.Hour))
	assert.Nil(t, change)
	assert.True(t, o.IsTemporary)
	assert.Equal(t, now, o.UpdatedAt, "no-op must not touch the order")
}

func TestApplyPaymentStatus_TemporaryStaysClearedOnReturnToPending(t *testing.T) {
	now := time.Now()
	o := newPendingOrder(now)

	require.NotNil(t, ApplyPaymentStatus(o, model.PaymentInProgress, now))
	assert.False(t, o.IsTemporary)

	// Corrective move back to pending does not re-mark the order.
	require.NotNil(t, ApplyPaymentStatus(o, model.PaymentPending, now))
	assert.False(t, o.IsTemporary)
}

func TestApplyShippingStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	o := newPendingOrder(now)
	require.NotNil(t, ApplyPaymentStatus(o, model.PaymentPaid, now))

	change := ApplyShippingStatus(o, model.ShippingInTransit, now)
	require.NotNil(t, change)

	assert.Equal(t, model.FieldShippingStatus, change.Field)
	assert.Equal(t, string(model.ShippingPendingPreparation), change.Previous)
	assert.Equal(t, string(model.ShippingInTransit), change.New)
	assert.Equal(t, model.OrderInTransit, o.OrderStatus)
}

func TestApplyShippingStatus_NoOp(t *testing.T) {
	now := time.Now()
	o := newPendingOrder(now)

	assert.Nil(t, ApplyShippingStatus(o, model.ShippingPendingPreparation, now))
}

func TestApplyShippingStatus_DoesNotTouchTemporary(t *testing.T) {
	now := time.Now()
	o := newPendingOrder(now)

	require.NotNil(t, ApplyShippingStatus(o, model.ShippingPreparing, now))
	assert.True(t, o.IsTemporary, "only payment movement clears the temporary flag")
}

func TestTypicalLifecycle(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	o := newPendingOrder(now)

	steps := []struct {
		apply func() *Change
		want  model.OrderStatus
	}{
		{func() *Change { return ApplyPaymentStatus(o, model.PaymentInProgress, now) }, model.OrderInPreparation},
		{func() *Change { return ApplyPaymentStatus(o, model.PaymentPaid, now) }, model.OrderInPreparation},
		{func() *Change { return ApplyShippingStatus(o, model.ShippingPreparing, now) }, model.OrderPending},
		{func() *Change { return ApplyShippingStatus(o, model.ShippingReadyToShip, now) }, model.OrderPending},
		{func() *Change { return ApplyShippingStatus(o, model.ShippingInTransit, now) }, model.OrderInTransit},
		{func() *Change { return ApplyShippingStatus(o, model.ShippingDelivered, now) }, model.OrderDeliveredPaid},
	}

	for i, step := range steps {
		change := step.apply()
		require.NotNil(t, change, "step %d", i)
		assert.Equal(t, step.want, o.OrderStatus, "step %d", i)
	}
	assert.False(t, o.IsTemporary)
}
