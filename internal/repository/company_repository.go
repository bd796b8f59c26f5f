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

// companyRepository implements the CompanyRepository interface using PostgreSQL.
type companyRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCompanyRepository creates a new PostgreSQL-backed company repository.
func NewCompanyRepository(pool *pgxpool.Pool, logger zerolog.Logger) CompanyRepository {
	return &companyRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "company").Logger(),
	}
}

// GetByID retrieves a company by its ID.
func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	query := `
		SELECT id, name, nit, email, phone
		FROM companies
		WHERE id = $1
	`

	var c model.Company
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.NIT, &c.Email, &c.Phone)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("company_id", id.String()).Msg("company not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("company_id", id.String()).Msg("failed to query company")
		return nil, fmt.Errorf("failed to query company: %w", err)
	}

	return &c, nil
}
