package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"autoparts-store/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductInput is the body of a create call
type ProductInput struct {
	Name        string          `json:"name"`
	Article     string          `json:"article"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	ImageURL    string          `json:"image_url"`
	CategoryID  *int64          `json:"category_id"`
	Stock       int             `json:"stock"`
}

// UpdateResult acknowledges an update
type UpdateResult struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type updateRequest struct {
	ID int64 `json:"id"`
	domain.ProductPatch
}

type ProductsAPI struct {
	c *Client
}

// GetAll lists products, filtered by category when categoryID is set
func (p *ProductsAPI) GetAll(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	target := p.c.endpoints.Products
	if categoryID != nil {
		target = withQuery(target, "category_id", strconv.FormatInt(*categoryID, 10))
	}

	var products []domain.Product
	if err := p.c.do(ctx, http.MethodGet, target, nil, false, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *ProductsAPI) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	target := withQuery(p.c.endpoints.Products, "id", strconv.FormatInt(id, 10))
	if err := p.c.do(ctx, http.MethodGet, target, nil, false, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *ProductsAPI) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := p.c.do(ctx, http.MethodPost, p.c.endpoints.Products, input, true, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update sends only the fields set in patch
func (p *ProductsAPI) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*UpdateResult, error) {
	var result UpdateResult
	body := updateRequest{ID: id, ProductPatch: patch}
	if err := p.c.do(ctx, http.MethodPut, p.c.endpoints.Products, body, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type CategoriesAPI struct {
	c *Client
}

func (a *CategoriesAPI) GetAll(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := a.c.do(ctx, http.MethodGet, a.c.endpoints.Categories, nil, false, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func withQuery(base, key, value string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + key + "=" + url.QueryEscape(value)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
