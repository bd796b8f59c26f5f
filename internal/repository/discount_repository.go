package repository

import (
	"context"
	"fmt"

	"loocal/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

const discountColumns = `
	id, code, discount_type, discount_value, start_date, end_date,
	max_uses_total, max_uses_per_user, times_used, applicable_to_transport, status, created_at
`

// scanDiscount scans one discount row from the shared column list.
func scanDiscount(row pgx.Row) (*model.Discount, error) {
	var d model.Discount
	err := row.Scan(
		&d.ID, &d.Code, &d.DiscountType, &d.DiscountValue, &d.StartDate, &d.EndDate,
		&d.MaxUsesTotal, &d.MaxUsesPerUser, &d.TimesUsed, &d.ApplicableToTransport,
		&d.Status, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByCode retrieves a discount by its code.
func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE code = $1
	`

	d, err := scanDiscount(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("discount not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount")
		return nil, fmt.Errorf("failed to query discount: %w", err)
	}

	return d, nil
}

// GetUserUsage returns the per-customer redemption count for a discount.
func (r *discountRepository) GetUserUsage(ctx context.Context, discountID uuid.UUID, email string) (int, error) {
	query := `
		SELECT times_used
		FROM user_discounts
		WHERE discount_id = $1 AND email = $2
	`

	var timesUsed int
	err := r.pool.QueryRow(ctx, query, discountID, email).Scan(&timesUsed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		r.logger.Error().
			Err(err).
			Str("discount_id", discountID.String()).
			Msg("failed to query user discount usage")
		return 0, fmt.Errorf("failed to query user discount usage: %w", err)
	}

	return timesUsed, nil
}

// LockForRedeem re-reads the discount inside the transaction with a
// row lock. Two checkouts racing for the last use of a capped code
// serialise here; the loser sees the incremented counter.
func (r *discountRepository) LockForRedeem(ctx context.Context, tx pgx.Tx, discountID uuid.UUID) (*model.Discount, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE id = $1
		FOR UPDATE
	`

	d, err := scanDiscount(tx.QueryRow(ctx, query, discountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("discount_id", discountID.String()).Msg("discount disappeared before lock")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("discount_id", discountID.String()).Msg("failed to lock discount")
		return nil, fmt.Errorf("failed to lock discount: %w", err)
	}

	return d, nil
}

// IncrementUsage increments the global counter and upserts the
// per-customer counter, within the provided transaction. Callers must
// hold the row lock from LockForRedeem; rolling the transaction back
// reverts both counters.
func (r *discountRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, discountID uuid.UUID, email string) (int, error) {
	_, err := tx.Exec(ctx, `
		UPDATE discounts
		SET times_used = times_used + 1
		WHERE id = $1
	`, discountID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("discount_id", discountID.String()).
			Msg("failed to increment discount usage")
		return 0, fmt.Errorf("failed to increment discount usage: %w", err)
	}

	var userTimesUsed int
	err = tx.QueryRow(ctx, `
		INSERT INTO user_discounts (id, email, discount_id, times_used)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (email, discount_id)
		DO UPDATE SET times_used = user_discounts.times_used + 1
		RETURNING times_used
	`, uuid.New(), email, discountID).Scan(&userTimesUsed)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("discount_id", discountID.String()).
			Msg("failed to increment user discount usage")
		return 0, fmt.Errorf("failed to increment user discount usage: %w", err)
	}

	r.logger.Debug().
		Str("discount_id", discountID.String()).
		Int("user_times_used", userTimesUsed).
		Msg("discount usage incremented")

	return userTimesUsed, nil
}
