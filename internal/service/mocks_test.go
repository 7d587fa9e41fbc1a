package service

import (
	"context"
	"sort"
	"sync"

	"autoparts-store/internal/domain"
	"autoparts-store/internal/repository"
)

type mockUserRepository struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Username]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.nextID++
	product.ID = m.nextID
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) error {
	if patch.IsEmpty() {
		return repository.ErrNothingToUpdate
	}
	product, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	patch.Apply(product)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, categoryID *int64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.products {
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
