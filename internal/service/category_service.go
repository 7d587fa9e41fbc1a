package service

import (
	"context"
	"fmt"

	"autoparts-store/internal/domain"
	"autoparts-store/internal/repository"

	"go.uber.org/zap"
)

// CategoryService lists categories for the storefront
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, logger: logger}
}

// List returns all categories. Counter drift is logged but left as stored.
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	for _, c := range categories {
		if c.Drift() != 0 {
			s.logger.Debug("Category counter differs from product count",
				zap.String("slug", c.Slug),
				zap.Int("product_count", c.ProductCount),
				zap.Int("actual_count", c.ActualCount),
			)
		}
	}

	return categories, nil
}
