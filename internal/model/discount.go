package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes fixed-amount codes from percentage codes.
type DiscountType string

const (
	DiscountAbsolute   DiscountType = "absolute"
	DiscountPercentage DiscountType = "percentage"
)

// DiscountStatus is the administrative lifecycle of a code.
type DiscountStatus string

const (
	DiscountActive    DiscountStatus = "active"
	DiscountExpired   DiscountStatus = "expired"
	DiscountRedeemed  DiscountStatus = "redeemed"
	DiscountSuspended DiscountStatus = "suspended"
)

// Discount is a redeemable code. MaxUsesTotal and MaxUsesPerUser of
// zero mean uncapped. TimesUsed is only ever incremented by successful
// redemption, under a row lock.
type Discount struct {
	ID                    uuid.UUID       `json:"-" db:"id"`
	Code                  string          `json:"code" db:"code"`
	DiscountType          DiscountType    `json:"discountType" db:"discount_type"`
	DiscountValue         decimal.Decimal `json:"discountValue" db:"discount_value"`
	StartDate             time.Time       `json:"startDate" db:"start_date"`
	EndDate               time.Time       `json:"endDate" db:"end_date"`
	MaxUsesTotal          int             `json:"maxUsesTotal" db:"max_uses_total"`
	MaxUsesPerUser        int             `json:"maxUsesPerUser" db:"max_uses_per_user"`
	TimesUsed             int             `json:"timesUsed" db:"times_used"`
	ApplicableToTransport bool            `json:"applicableToTransport" db:"applicable_to_transport"`
	Status                DiscountStatus  `json:"status" db:"status"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
}

// UserDiscount is the per-(email, discount) usage counter, created
// lazily on first redemption attempt.
type UserDiscount struct {
	ID         uuid.UUID `json:"-" db:"id"`
	Email      string    `json:"email" db:"email"`
	DiscountID uuid.UUID `json:"-" db:"discount_id"`
	TimesUsed  int       `json:"timesUsed" db:"times_used"`
}

// QuoteRequest is the payload for the read-only discount quote.
type QuoteRequest struct {
	Code          string          `json:"code"`
	Email         string          `json:"email,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TransportCost decimal.Decimal `json:"transportCost"`
}

// QuoteResult reports the discount that would apply, without having
// consumed any usage.
type QuoteResult struct {
	Valid              bool            `json:"valid"`
	DiscountValue      decimal.Decimal `json:"discountValue"`
	AppliesToTransport bool            `json:"appliesToTransport"`
	TransportDiscount  decimal.Decimal `json:"transportDiscount"`
}
