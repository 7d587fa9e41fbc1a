package transport

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"autoparts-store/internal/domain"
	"autoparts-store/internal/middleware"
	"autoparts-store/internal/repository"
	"autoparts-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

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

func (m *mockUserRepository) addAdmin(username, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_ = m.Create(context.Background(), &domain.User{Username: username, PasswordHash: string(hash), IsAdmin: true})
}

type mockProductRepository struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	product.ID = m.nextID
	product.CreatedAt = time.Now()
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockProductRepository) List(ctx context.Context, categoryID *int64) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Product{}
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

type mockCategoryRepository struct {
	categories []*domain.Category
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return m.categories, nil
}

type testAPI struct {
	router   *chi.Mux
	users    *mockUserRepository
	products *mockProductRepository
	auth     service.AuthService
}

func newTestAPI() *testAPI {
	logger := zap.NewNop()
	users := newMockUserRepository()
	products := newMockProductRepository()
	categories := &mockCategoryRepository{categories: []*domain.Category{
		{ID: 1, Name: "Brakes", Slug: "brakes", IconName: "Disc", ProductCount: 3, ActualCount: 2},
		{ID: 2, Name: "Filters", Slug: "filters", IconName: "Filter", ProductCount: 0, ActualCount: 0},
	}}

	authService := service.NewAuthService(users, testSecret, time.Hour)

	router := chi.NewRouter()
	NewAuthHandler(authService, logger).RegisterRoutes(router, nil)
	NewProductHandler(service.NewProductService(products), logger).RegisterRoutes(
		router,
		middleware.AuthMiddleware(authService, logger),
		middleware.RequireAdmin(logger),
	)
	NewCategoryHandler(service.NewCategoryService(categories, logger), logger).RegisterRoutes(router)

	return &testAPI{router: router, users: users, products: products, auth: authService}
}

func (a *testAPI) adminToken() string {
	a.users.addAdmin("boss", "garage")
	_, token, _ := a.auth.Login(context.Background(), "boss", "garage")
	return token
}

func (a *testAPI) serve(req *http.Request) *responseRecorder {
	rec := newRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}
