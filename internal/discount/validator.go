// Package discount validates and redeems discount codes. Validation is
// read-only; redemption consumes usage and must run inside the same
// transaction as the checkout it belongs to.
package discount

import (
	"context"
	"time"

	"loocal/internal/model"
	"loocal/internal/pricing"
	"loocal/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Validator defines the discount code operations.
type Validator interface {
	// Validate checks a code against its status, validity window and
	// usage caps. First failure wins: not found / inactive, window,
	// global cap, per-customer cap. It never mutates counters.
	Validate(ctx context.Context, code, email string, now time.Time) (*model.Discount, error)

	// Quote reports the discount a code would grant against the given
	// amounts without consuming any usage. Business rejections come
	// back as Valid=false, not as errors.
	Quote(ctx context.Context, req *model.QuoteRequest, now time.Time) (*model.QuoteResult, error)

	// Redeem consumes one use of the discount inside the caller's
	// transaction. It locks the discount row, re-checks both caps
	// under the lock and increments the counters. Rolling the
	// transaction back reverts the redemption.
	Redeem(ctx context.Context, tx pgx.Tx, discountID uuid.UUID, email string) error
}

// validator implements Validator against the discount store.
type validator struct {
	repo   repository.DiscountRepository
	logger zerolog.Logger
}

// NewValidator creates a new discount validator.
func NewValidator(repo repository.DiscountRepository, logger zerolog.Logger) Validator {
	return &validator{
		repo:   repo,
		logger: logger.With().Str("component", "discount-validator").Logger(),
	}
}

// Validate checks a code without consuming usage.
func (v *validator) Validate(ctx context.Context, code, email string, now time.Time) (*model.Discount, error) {
	d, err := v.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		v.logger.Debug().Str("code", code).Msg("discount code not found")
		return nil, model.ErrDiscountNotFound
	}

	switch d.Status {
	case model.DiscountActive:
	case model.DiscountExpired:
		v.logger.Debug().Str("code", code).Msg("discount marked expired")
		return nil, model.ErrDiscountExpired
	default:
		// Suspended and redeemed codes behave like missing ones.
		v.logger.Debug().Str("code", code).Str("status", string(d.Status)).Msg("discount not active")
		return nil, model.ErrDiscountNotFound
	}

	nowDate := dateOf(now)
	if nowDate.Before(dateOf(d.StartDate)) || nowDate.After(dateOf(d.EndDate)) {
		v.logger.Debug().
			Str("code", code).
			Time("start_date", d.StartDate).
			Time("end_date", d.EndDate).
			Msg("discount outside validity window")
		return nil, model.ErrDiscountExpired
	}

	if d.MaxUsesTotal > 0 && d.TimesUsed >= d.MaxUsesTotal {
		v.logger.Debug().Str("code", code).Int("times_used", d.TimesUsed).Msg("discount global limit reached")
		return nil, model.ErrDiscountGlobalLimit
	}

	if d.MaxUsesPerUser > 0 && email != "" {
		used, err := v.repo.GetUserUsage(ctx, d.ID, email)
		if err != nil {
			return nil, err
		}
		if used >= d.MaxUsesPerUser {
			v.logger.Debug().Str("code", code).Int("user_times_used", used).Msg("discount per-customer limit reached")
			return nil, model.ErrDiscountPerUserLimit
		}
	}

	return d, nil
}

// Quote is the read-only preview variant. It shares Validate but is a
// separate entry point from the checkout-committing path, so a preview
// can never double count.
func (v *validator) Quote(ctx context.Context, req *model.QuoteRequest, now time.Time) (*model.QuoteResult, error) {
	d, err := v.Validate(ctx, req.Code, req.Email, now)
	if err != nil {
		if _, ok := err.(*model.DomainError); ok {
			v.logger.Debug().Str("code", req.Code).Err(err).Msg("quote rejected")
			return &model.QuoteResult{
				Valid:             false,
				DiscountValue:     decimal.Zero,
				TransportDiscount: decimal.Zero,
			}, nil
		}
		return nil, err
	}

	totals := pricing.ComputeTotals(req.Subtotal, req.TransportCost, d)

	return &model.QuoteResult{
		Valid:              true,
		DiscountValue:      totals.DiscountValue,
		AppliesToTransport: d.ApplicableToTransport,
		TransportDiscount:  totals.DiscountOnTransport,
	}, nil
}

// Redeem consumes one use inside the caller's transaction.
func (v *validator) Redeem(ctx context.Context, tx pgx.Tx, discountID uuid.UUID, email string) error {
	d, err := v.repo.LockForRedeem(ctx, tx, discountID)
	if err != nil {
		return err
	}
	if d == nil {
		return model.ErrDiscountNotFound
	}

	// Re-check the global cap under the lock: a concurrent checkout
	// may have consumed the last use after our read-only validation.
	if d.MaxUsesTotal > 0 && d.TimesUsed >= d.MaxUsesTotal {
		v.logger.Info().
			Str("code", d.Code).
			Int("times_used", d.TimesUsed).
			Msg("discount exhausted by concurrent redemption")
		return model.ErrDiscountGlobalLimit
	}

	userTimesUsed, err := v.repo.IncrementUsage(ctx, tx, discountID, email)
	if err != nil {
		return err
	}

	if d.MaxUsesPerUser > 0 && userTimesUsed > d.MaxUsesPerUser {
		v.logger.Info().
			Str("code", d.Code).
			Int("user_times_used", userTimesUsed).
			Msg("per-customer limit exceeded under lock")
		return model.ErrDiscountPerUserLimit
	}

	v.logger.Debug().
		Str("code", d.Code).
		Msg("discount redeemed")

	return nil
}

// dateOf truncates a timestamp to its calendar date, since discount
// windows are whole days.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
