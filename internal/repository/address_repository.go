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

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// FindOrCreate resolves an address by exact match on owner email and
// all location fields, inserting only on a miss.
func (r *addressRepository) FindOrCreate(ctx context.Context, tx pgx.Tx, addr *model.Address) (*model.Address, error) {
	findQuery := `
		SELECT id, email, street, city, state, postal_code, country, created_at
		FROM addresses
		WHERE email = $1 AND street = $2 AND city = $3 AND state = $4
			AND postal_code = $5 AND country = $6
	`

	var found model.Address
	err := tx.QueryRow(ctx, findQuery,
		addr.Email, addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country,
	).Scan(&found.ID, &found.Email, &found.Street, &found.City, &found.State,
		&found.PostalCode, &found.Country, &found.CreatedAt)
	if err == nil {
		r.logger.Debug().Str("address_id", found.ID.String()).Msg("address matched existing row")
		return &found, nil
	}
	if err != pgx.ErrNoRows {
		r.logger.Error().Err(err).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	created := *addr
	created.ID = uuid.New()
	created.CreatedAt = time.Now()

	insertQuery := `
		INSERT INTO addresses (id, email, street, city, state, postal_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(ctx, insertQuery,
		created.ID, created.Email, created.Street, created.City, created.State,
		created.PostalCode, created.Country, created.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create address")
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	r.logger.Debug().Str("address_id", created.ID.String()).Msg("address created")

	return &created, nil
}

// GetByID retrieves an address by its ID.
func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, email, street, city, state, postal_code, country, created_at
		FROM addresses
		WHERE id = $1
	`

	var a model.Address
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.Street, &a.City, &a.State, &a.PostalCode, &a.Country, &a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("address_id", id.String()).Msg("address not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &a, nil
}
