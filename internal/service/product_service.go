package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autoparts-store/internal/domain"
	"autoparts-store/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProduct  = errors.New("name, article and valid price required")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrProductIDNeeded = errors.New("product ID required")
)

var maxDiscount = decimal.NewFromInt(100)

// ProductService defines catalog operations behind the products endpoint
type ProductService interface {
	List(ctx context.Context, categoryID *int64) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id int64, patch domain.ProductPatch) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) List(ctx context.Context, categoryID *int64) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create validates and stores a new product
func (s *productService) Create(ctx context.Context, product *domain.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Article = strings.TrimSpace(product.Article)

	if product.Name == "" || product.Article == "" || !product.Price.IsPositive() {
		return ErrInvalidProduct
	}
	if err := checkDiscount(product.Discount); err != nil {
		return err
	}

	return s.productRepo.Create(ctx, product)
}

// Update applies a partial update
func (s *productService) Update(ctx context.Context, id int64, patch domain.ProductPatch) error {
	if id <= 0 {
		return ErrProductIDNeeded
	}
	if patch.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	if patch.Price != nil && !patch.Price.IsPositive() {
		return ErrInvalidProduct
	}
	if patch.Discount != nil {
		if err := checkDiscount(*patch.Discount); err != nil {
			return err
		}
	}

	return s.productRepo.Update(ctx, id, patch)
}

func checkDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(maxDiscount) {
		return ErrInvalidDiscount
	}
	return nil
}
