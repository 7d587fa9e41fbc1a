package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"autoparts-store/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNothingToUpdate = errors.New("no fields to update")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id int64, patch domain.ProductPatch) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, categoryID *int64) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `
	p.id, p.name, p.article, p.description, p.price, p.discount,
	p.image_url, p.category_id, p.stock, c.name, p.created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product      domain.Product
		categoryID   sql.NullInt64
		categoryName sql.NullString
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Article,
		&product.Description,
		&product.Price,
		&product.Discount,
		&product.ImageURL,
		&categoryID,
		&product.Stock,
		&categoryName,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.Int64
		product.CategoryID = &id
	}
	product.CategoryName = categoryName.String

	return &product, nil
}

// Create inserts a new product and fills in the generated id and timestamp
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, article, description, price, discount, image_url, category_id, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Article,
		product.Description,
		product.Price,
		product.Discount,
		product.ImageURL,
		product.CategoryID,
		product.Stock,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update writes only the fields set in the patch
func (r *productRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) error {
	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Article != nil {
		add("article", *patch.Article)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Discount != nil {
		add("discount", *patch.Discount)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.CategoryID.Set {
		var categoryID sql.NullInt64
		if patch.CategoryID.Value != nil {
			categoryID = sql.NullInt64{Int64: *patch.CategoryID.Value, Valid: true}
		}
		add("category_id", categoryID)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}

	if len(sets) == 0 {
		return ErrNothingToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product with its category name
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products newest first, optionally limited to one category
func (r *productRepository) List(ctx context.Context, categoryID *int64) ([]*domain.Product, error) {
	whereClause := ""
	args := []any{}

	if categoryID != nil {
		whereClause = "WHERE p.category_id = $1"
		args = append(args, *categoryID)
	}

	query := fmt.Sprintf(`SELECT %s
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		%s
		ORDER BY p.created_at DESC, p.id DESC
	`, productColumns, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
