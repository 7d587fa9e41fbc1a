package admin

import (
	"context"
	"errors"
	"testing"

	"autoparts-store/internal/cart"
	"autoparts-store/internal/catalog"
	"autoparts-store/internal/client"
	"autoparts-store/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFlag bool

func (a adminFlag) IsAdmin() bool { return bool(a) }

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string)          { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string, err error) { n.errors = append(n.errors, msg) }

type fakeStore struct {
	server    []domain.Product
	listErr   error
	writeErr  error
	nextID    int64
	lists     int
	lastPatch domain.ProductPatch
}

func (f *fakeStore) GetAll(ctx context.Context, categoryID *int64) ([]domain.Product, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Product(nil), f.server...), nil
}

func (f *fakeStore) Create(ctx context.Context, input client.ProductInput) (*domain.Product, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.nextID++
	p := domain.Product{ID: f.nextID, Name: input.Name, Article: input.Article, Price: input.Price, Discount: input.Discount, Stock: input.Stock}
	f.server = append([]domain.Product{p}, f.server...)
	return &p, nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*client.UpdateResult, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.lastPatch = patch
	for i := range f.server {
		if f.server[i].ID == id {
			patch.Apply(&f.server[i])
		}
	}
	return &client.UpdateResult{Success: true, ID: id}, nil
}

type fakeCategories struct{}

func (fakeCategories) GetAll(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Brakes"}}, nil
}

func validForm() Form {
	return Form{Name: "Brake disc", Article: "BRK-2024-F", Price: decimal.NewFromInt(8500), Stock: 3}
}

func newView(store *fakeStore, admin bool) (*View, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return New(store, fakeCategories{}, adminFlag(admin), notifier), notifier
}

func TestNonAdminIsForbidden(t *testing.T) {
	store := &fakeStore{}
	view, notifier := newView(store, false)

	assert.ErrorIs(t, view.Load(context.Background()), ErrForbidden)
	assert.ErrorIs(t, view.Submit(context.Background(), validForm(), nil), ErrForbidden)
	assert.Zero(t, store.lists)
	assert.Empty(t, store.server)
	assert.Len(t, notifier.errors, 2)
}

func TestLoad(t *testing.T) {
	store := &fakeStore{server: []domain.Product{{ID: 1, Name: "Brake disc"}}}
	view, _ := newView(store, true)

	require.NoError(t, view.Load(context.Background()))
	assert.Len(t, view.Products(), 1)
	assert.Len(t, view.Categories(), 1)
}

func TestSubmitCreate(t *testing.T) {
	store := &fakeStore{server: []domain.Product{{ID: 100, Name: "Old"}}, nextID: 100}
	view, notifier := newView(store, true)
	require.NoError(t, view.Load(context.Background()))

	require.NoError(t, view.Submit(context.Background(), validForm(), nil))

	products := view.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Brake disc", products[0].Name)
	assert.Equal(t, []string{"Product added"}, notifier.successes)
}

func TestSubmitCreateIsOptimistic(t *testing.T) {
	store := &fakeStore{}
	view, notifier := newView(store, true)
	require.NoError(t, view.Load(context.Background()))

	store.listErr = errors.New("reload failed")
	require.NoError(t, view.Submit(context.Background(), validForm(), nil))

	products := view.Products()
	require.Len(t, products, 1, "created product stays in the list when the reload fails")
	assert.Equal(t, "BRK-2024-F", products[0].Article)
	assert.Equal(t, []string{"Failed to load data"}, notifier.errors)
}

func TestSubmitUpdateMergesFields(t *testing.T) {
	store := &fakeStore{server: []domain.Product{{ID: 5, Name: "Brake disc", Article: "BRK", Price: decimal.NewFromInt(8500), CategoryName: "Brakes"}}}
	view, _ := newView(store, true)
	require.NoError(t, view.Load(context.Background()))

	form, err := view.Edit(5)
	require.NoError(t, err)
	form.Discount = decimal.NewFromInt(20)

	store.listErr = errors.New("reload failed")
	id := int64(5)
	require.NoError(t, view.Submit(context.Background(), form, &id))

	require.NotNil(t, store.lastPatch.Discount)
	assert.True(t, store.lastPatch.Discount.Equal(decimal.NewFromInt(20)))

	updated := view.Products()[0]
	assert.True(t, updated.Discount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "Brakes", updated.CategoryName)
	assert.True(t, updated.EffectivePrice().Equal(decimal.NewFromInt(6800)))
}

func TestSubmitFailureKeepsLocalState(t *testing.T) {
	store := &fakeStore{server: []domain.Product{{ID: 1, Name: "Brake disc"}}}
	view, notifier := newView(store, true)
	require.NoError(t, view.Load(context.Background()))

	store.writeErr = &client.APIError{StatusCode: 500, Message: "boom"}
	err := view.Submit(context.Background(), validForm(), nil)

	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Len(t, view.Products(), 1)
	assert.Equal(t, []string{"Failed to save product"}, notifier.errors)
}

func TestInvalidFormIsNotSent(t *testing.T) {
	store := &fakeStore{}
	view, _ := newView(store, true)

	form := validForm()
	form.Price = decimal.Zero

	err := view.Submit(context.Background(), form, nil)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Empty(t, store.server)
}

func TestEditUnknownProduct(t *testing.T) {
	view, _ := newView(&fakeStore{}, true)
	_, err := view.Edit(3)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestSubmitReloadsStorefront(t *testing.T) {
	store := &fakeStore{}
	storefront := catalog.New(store, fakeCategories{}, cart.New(), &recordingNotifier{})
	view := New(store, fakeCategories{}, adminFlag(true), &recordingNotifier{}, WithCatalog(storefront))

	require.NoError(t, view.Submit(context.Background(), validForm(), nil))

	require.Len(t, storefront.Products(), 1)
	assert.Equal(t, "Brake disc", storefront.Products()[0].Name)
}
