// Package pricing computes order totals. It is pure computation with
// no I/O so totals can be checked without a persisted order.
package pricing

import (
	"loocal/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the result of a pricing computation.
type Totals struct {
	DiscountValue       decimal.Decimal
	DiscountOnTransport decimal.Decimal
	Total               decimal.Decimal
}

// ComputeTotals derives the discount amounts and the final total from
// a subtotal, a transport cost and an optional discount.
//
// A percentage discount takes subtotal*value/100, an absolute discount
// takes its value directly; either way the result is clamped to the
// subtotal. When the discount applies to transport the same rule runs
// against the transport cost, clamped to it. The total is
// max(0, subtotal + transport - discountValue - discountOnTransport),
// rounded half-up to two decimals.
func ComputeTotals(subtotal, transportCost decimal.Decimal, d *model.Discount) Totals {
	// Absent monetary inputs default to zero.
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	if transportCost.IsNegative() {
		transportCost = decimal.Zero
	}

	t := Totals{
		DiscountValue:       decimal.Zero,
		DiscountOnTransport: decimal.Zero,
	}

	if d != nil {
		t.DiscountValue = discountAgainst(subtotal, d)
		if d.ApplicableToTransport {
			t.DiscountOnTransport = discountAgainst(transportCost, d)
		}
	}

	// Round the discount amounts before deriving the total, so the
	// persisted fields always satisfy
	// total = max(0, subtotal + transport - discountValue - discountOnTransport)
	// exactly, never off by a minor unit from a half-cent fraction.
	t.DiscountValue = t.DiscountValue.Round(2)
	t.DiscountOnTransport = t.DiscountOnTransport.Round(2)

	total := subtotal.Add(transportCost).Sub(t.DiscountValue).Sub(t.DiscountOnTransport)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.Total = total.Round(2)

	return t
}

// discountAgainst computes the discount amount against a base amount,
// clamped so the discount never exceeds the base.
func discountAgainst(base decimal.Decimal, d *model.Discount) decimal.Decimal {
	var amount decimal.Decimal

	switch d.DiscountType {
	case model.DiscountPercentage:
		amount = base.Mul(d.DiscountValue).Div(hundred)
	case model.DiscountAbsolute:
		amount = d.DiscountValue
	default:
		return decimal.Zero
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(base) {
		return base
	}
	return amount
}

// LineSubtotal returns unitPrice*quantity rounded to two decimals.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
