package repository

import (
	"context"
	"fmt"

	"loocal/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, description, unit, price, is_variable, created_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Unit, &p.Price, &p.IsVariable, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, description, unit, price, is_variable, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Unit, &p.Price, &p.IsVariable, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetVariation retrieves a product variation by its ID.
func (r *productRepository) GetVariation(ctx context.Context, id string) (*model.ProductVariation, error) {
	query := `
		SELECT id, product_id, sku, price
		FROM product_variations
		WHERE id = $1
	`

	var v model.ProductVariation
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("variation_id", id).Msg("variation not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("variation_id", id).Msg("failed to query variation")
		return nil, fmt.Errorf("failed to query variation: %w", err)
	}

	return &v, nil
}

// GetVariationsByProduct retrieves all variations of a product.
func (r *productRepository) GetVariationsByProduct(ctx context.Context, productID string) ([]model.ProductVariation, error) {
	query := `
		SELECT id, product_id, sku, price
		FROM product_variations
		WHERE product_id = $1
		ORDER BY sku
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query variations")
		return nil, fmt.Errorf("failed to query variations: %w", err)
	}
	defer rows.Close()

	var variations []model.ProductVariation
	for rows.Next() {
		var v model.ProductVariation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variation row")
			return nil, fmt.Errorf("failed to scan variation: %w", err)
		}
		variations = append(variations, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variation rows")
		return nil, fmt.Errorf("error iterating variations: %w", err)
	}

	return variations, nil
}
