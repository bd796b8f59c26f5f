package service

import (
	"context"
	"fmt"

	"loocal/internal/model"
	"loocal/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product with its variations.
func (s *productService) GetByID(ctx context.Context, id string) (*model.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	var variations []model.ProductVariation
	if product.IsVariable {
		variations, err = s.repo.GetVariationsByProduct(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get variations")
			return nil, fmt.Errorf("failed to get variations: %w", err)
		}
	}

	return &model.ProductResponse{Product: product, Variations: variations}, nil
}
