// Package admin is the view model behind the product management panel.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"autoparts-store/internal/catalog"
	"autoparts-store/internal/client"
	"autoparts-store/internal/domain"
)

var ErrForbidden = errors.New("admin access required")

type ProductStore interface {
	GetAll(ctx context.Context, categoryID *int64) ([]domain.Product, error)
	Create(ctx context.Context, input client.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (*client.UpdateResult, error)
}

// Authorizer reports whether the current user may manage products
type Authorizer interface {
	IsAdmin() bool
}

type View struct {
	products   ProductStore
	categories catalog.CategoryLister
	auth       Authorizer
	notifier   catalog.Notifier
	storefront *catalog.View

	mu           sync.RWMutex
	productList  []domain.Product
	categoryList []domain.Category
}

type Option func(*View)

// WithCatalog reloads the storefront listing after every successful save
func WithCatalog(storefront *catalog.View) Option {
	return func(v *View) { v.storefront = storefront }
}

func New(products ProductStore, categories catalog.CategoryLister, auth Authorizer, notifier catalog.Notifier, opts ...Option) *View {
	v := &View{
		products:   products,
		categories: categories,
		auth:       auth,
		notifier:   notifier,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) authorize() error {
	if !v.auth.IsAdmin() {
		v.notifier.Error("Access denied", ErrForbidden)
		return ErrForbidden
	}
	return nil
}

// Load fetches every product plus the categories for the form
func (v *View) Load(ctx context.Context) error {
	if err := v.authorize(); err != nil {
		return err
	}

	products, err := v.products.GetAll(ctx, nil)
	if err != nil {
		v.notifier.Error("Failed to load data", err)
		return fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := v.categories.GetAll(ctx)
	if err != nil {
		v.notifier.Error("Failed to load data", err)
		return fmt.Errorf("failed to load categories: %w", err)
	}

	v.mu.Lock()
	v.productList = products
	v.categoryList = categories
	v.mu.Unlock()
	return nil
}

func (v *View) Products() []domain.Product {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Product(nil), v.productList...)
}

func (v *View) Categories() []domain.Category {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.Category(nil), v.categoryList...)
}

// Edit returns a form prefilled from the listed product
func (v *View) Edit(id int64) (Form, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.productList {
		if p.ID == id {
			return FormFrom(p), nil
		}
	}
	return Form{}, fmt.Errorf("%w: %d", catalog.ErrProductNotFound, id)
}

// Submit creates a product, or updates editingID when it is set. The
// local list is updated right away and then reloaded from the server.
// A failed save leaves the list as it was.
func (v *View) Submit(ctx context.Context, form Form, editingID *int64) error {
	if err := v.authorize(); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		v.notifier.Error("Fill in all required fields", err)
		return err
	}

	if editingID == nil {
		created, err := v.products.Create(ctx, form.input())
		if err != nil {
			v.notifier.Error("Failed to save product", err)
			return fmt.Errorf("failed to create product: %w", err)
		}

		v.mu.Lock()
		v.productList = append([]domain.Product{*created}, v.productList...)
		v.mu.Unlock()
		v.notifier.Success("Product added")
	} else {
		patch := form.patch()
		if _, err := v.products.Update(ctx, *editingID, patch); err != nil {
			v.notifier.Error("Failed to save product", err)
			return fmt.Errorf("failed to update product %d: %w", *editingID, err)
		}

		v.mu.Lock()
		for i := range v.productList {
			if v.productList[i].ID == *editingID {
				patch.Apply(&v.productList[i])
				break
			}
		}
		v.mu.Unlock()
		v.notifier.Success("Product updated")
	}

	// Reload failures are already reported through the notifier.
	_ = v.Load(ctx)
	if v.storefront != nil {
		_ = v.storefront.Load(ctx)
	}
	return nil
}
