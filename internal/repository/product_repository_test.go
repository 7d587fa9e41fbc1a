package repository

import (
	"context"
	"testing"

	"autoparts-store/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func createTestCategory(t *testing.T, slug string) int64 {
	t.Helper()

	var id int64
	err := testDB.QueryRow(
		`INSERT INTO categories (name, slug, icon_name, product_count)
		 VALUES ($1, $2, 'Wrench', 7)
		 ON CONFLICT (slug) DO UPDATE SET product_count = 7
		 RETURNING id`,
		"Test "+slug, slug,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return id
}

func cleanProducts(t *testing.T) {
	t.Helper()
	if _, err := testDB.Exec("DELETE FROM products"); err != nil {
		t.Fatalf("Failed to clean products: %v", err)
	}
}

// Property: creating and retrieving a product preserves its attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	cleanProducts(t)
	productRepo := NewProductRepository(testDB)
	categoryID := createTestCategory(t, "property-brakes")

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, article string, cents int64, discount int64, stock int) bool {
			ctx := context.Background()

			product := &domain.Product{
				Name:        name,
				Article:     article,
				Description: "generated part",
				Price:       decimal.New(cents, -2),
				Discount:    decimal.NewFromInt(discount),
				ImageURL:    "https://cdn.parts.example/" + article + ".jpg",
				CategoryID:  &categoryID,
				Stock:       stock,
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != product.Name || retrieved.Article != product.Article {
				t.Logf("FAIL: identity mismatch %+v", retrieved)
				return false
			}
			if !retrieved.Price.Equal(product.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, retrieved.Price)
				return false
			}
			if !retrieved.Discount.Equal(product.Discount) {
				t.Logf("FAIL: Discount mismatch. Expected %s, got %s", product.Discount, retrieved.Discount)
				return false
			}
			if retrieved.CategoryID == nil || *retrieved.CategoryID != categoryID {
				t.Logf("FAIL: CategoryID mismatch")
				return false
			}
			if retrieved.CategoryName != "Test property-brakes" {
				t.Logf("FAIL: CategoryName not joined, got %q", retrieved.CategoryName)
				return false
			}
			if retrieved.Stock != product.Stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", product.Stock, retrieved.Stock)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Z]{3}-[0-9]{4}-[A-Z]`),
		gen.Int64Range(1, 99999999),
		gen.Int64Range(0, 100),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_ListFiltersByCategory(t *testing.T) {
	cleanProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	brakes := createTestCategory(t, "list-brakes")
	filters := createTestCategory(t, "list-filters")

	for i, cat := range []int64{brakes, filters, brakes} {
		id := cat
		err := repo.Create(ctx, &domain.Product{
			Name:       "Part",
			Article:    "ART-" + string(rune('A'+i)),
			Price:      decimal.NewFromInt(1000),
			CategoryID: &id,
		})
		if err != nil {
			t.Fatalf("Failed to create product: %v", err)
		}
	}

	all, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 products, got %d", len(all))
	}
	if len(all) == 3 && all[0].Article != "ART-C" {
		t.Errorf("expected newest product first, got %s", all[0].Article)
	}

	onlyBrakes, err := repo.List(ctx, &brakes)
	if err != nil {
		t.Fatalf("List by category failed: %v", err)
	}
	if len(onlyBrakes) != 2 {
		t.Errorf("expected 2 brake products, got %d", len(onlyBrakes))
	}
	for _, p := range onlyBrakes {
		if p.CategoryID == nil || *p.CategoryID != brakes {
			t.Errorf("product %d leaked into brakes filter", p.ID)
		}
	}
}

func TestProductRepository_PartialUpdate(t *testing.T) {
	cleanProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := &domain.Product{
		Name:        "Oil filter",
		Article:     "OIL-2024-P",
		Description: "premium",
		Price:       decimal.NewFromInt(1200),
		Stock:       5,
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	discount := decimal.NewFromInt(50)
	stock := 9
	if err := repo.Update(ctx, product.ID, domain.ProductPatch{Discount: &discount, Stock: &stock}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !updated.Discount.Equal(discount) || updated.Stock != 9 {
		t.Errorf("patched fields not written: %+v", updated)
	}
	if updated.Name != "Oil filter" || updated.Description != "premium" || !updated.Price.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("unpatched fields changed: %+v", updated)
	}

	if err := repo.Update(ctx, product.ID, domain.ProductPatch{}); err != ErrNothingToUpdate {
		t.Errorf("expected ErrNothingToUpdate, got %v", err)
	}
	if err := repo.Update(ctx, product.ID+1000, domain.ProductPatch{Stock: &stock}); err != ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_UpdateClearsCategory(t *testing.T) {
	cleanProducts(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()
	brakes := createTestCategory(t, "brakes-clear")

	product := &domain.Product{
		Name:       "Brake pads",
		Article:    "BRK-PAD-1",
		Price:      decimal.NewFromInt(4500),
		CategoryID: &brakes,
	}
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	if err := repo.Update(ctx, product.ID, domain.ProductPatch{CategoryID: domain.SetID(nil)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if updated.CategoryID != nil || updated.CategoryName != "" {
		t.Errorf("category should be cleared, got id=%v name=%q", updated.CategoryID, updated.CategoryName)
	}
	if updated.Name != "Brake pads" {
		t.Errorf("unpatched fields changed: %+v", updated)
	}

	if err := repo.Update(ctx, product.ID, domain.ProductPatch{CategoryID: domain.SetID(&brakes)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	updated, _ = repo.FindByID(ctx, product.ID)
	if updated.CategoryID == nil || *updated.CategoryID != brakes {
		t.Errorf("category should be restored, got %v", updated.CategoryID)
	}
}

func TestCategoryRepository_ReportsActualCount(t *testing.T) {
	cleanProducts(t)
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	categoryID := createTestCategory(t, "count-engine")
	if err := productRepo.Create(ctx, &domain.Product{
		Name:       "Timing belt",
		Article:    "ENG-0001-T",
		Price:      decimal.NewFromInt(3100),
		CategoryID: &categoryID,
	}); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	categories, err := categoryRepo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var found *domain.Category
	for _, c := range categories {
		if c.ID == categoryID {
			found = c
		}
	}
	if found == nil {
		t.Fatal("category missing from list")
	}
	if found.ProductCount != 7 || found.ActualCount != 1 {
		t.Errorf("expected stored 7 / actual 1, got %d / %d", found.ProductCount, found.ActualCount)
	}
	if found.Drift() != 6 {
		t.Errorf("expected drift 6, got %d", found.Drift())
	}
}
