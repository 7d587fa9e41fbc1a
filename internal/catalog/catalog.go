// Package catalog is the view model behind the product listing.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"autoparts-store/internal/cart"
	"autoparts-store/internal/domain"
)

var ErrProductNotFound = errors.New("product is not in the displayed catalog")

// Notifier surfaces user-facing messages
type Notifier interface {
	Success(msg string)
	Error(msg string, err error)
}

type ProductLister interface {
	GetAll(ctx context.Context, categoryID *int64) ([]domain.Product, error)
}

type CategoryLister interface {
	GetAll(ctx context.Context) ([]domain.Category, error)
}

// View holds the categories, the selected filter and the products shown
// for it. Concurrent loads overwrite each other; the last to finish wins.
type View struct {
	products   ProductLister
	categories CategoryLister
	cart       *cart.Store
	notifier   Notifier

	mu           sync.RWMutex
	categoryList []domain.Category
	productList  []domain.Product
	selected     *int64
}

func New(products ProductLister, categories CategoryLister, store *cart.Store, notifier Notifier) *View {
	return &View{
		products:   products,
		categories: categories,
		cart:       store,
		notifier:   notifier,
	}
}

// Load refreshes categories and the products for the current filter.
// A failed fetch keeps what was shown before.
func (v *View) Load(ctx context.Context) error {
	var errs []error

	categories, err := v.categories.GetAll(ctx)
	if err != nil {
		v.notifier.Error("Failed to load categories", err)
		errs = append(errs, fmt.Errorf("failed to load categories: %w", err))
	} else {
		v.mu.Lock()
		v.categoryList = categories
		v.mu.Unlock()
	}

	if err := v.loadProducts(ctx, v.Selected()); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (v *View) loadProducts(ctx context.Context, categoryID *int64) error {
	products, err := v.products.GetAll(ctx, categoryID)
	if err != nil {
		v.notifier.Error("Failed to load products", err)
		return fmt.Errorf("failed to load products: %w", err)
	}

	v.mu.Lock()
	v.productList = products
	v.mu.Unlock()
	return nil
}

// SelectCategory sets the filter (nil shows everything) and reloads products
func (v *View) SelectCategory(ctx context.Context, id *int64) error {
	v.mu.Lock()
	if id != nil {
		selected := *id
		v.selected = &selected
	} else {
		v.selected = nil
	}
	v.mu.Unlock()

	return v.loadProducts(ctx, id)
}

func (v *View) Selected() *int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.selected == nil {
		return nil
	}
	selected := *v.selected
	return &selected
}

func (v *View) Categories() []domain.Category {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Category(nil), v.categoryList...)
}

func (v *View) Products() []domain.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Product(nil), v.productList...)
}

// AddToCart puts a displayed product into the cart
func (v *View) AddToCart(id int64, quantity int) error {
	v.mu.RLock()
	var (
		product domain.Product
		found   bool
	)
	for _, p := range v.productList {
		if p.ID == id {
			product, found = p, true
			break
		}
	}
	v.mu.RUnlock()

	if !found {
		return fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}

	v.cart.Add(product, quantity)
	v.notifier.Success(fmt.Sprintf("%s added to cart", product.Name))
	return nil
}
