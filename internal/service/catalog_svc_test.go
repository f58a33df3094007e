package service

import (
	"context"
	"errors"
	"testing"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

func newCatalogFixture(t *testing.T) (*gorm.DB, *CatalogService) {
	t.Helper()
	db := setupTestDB(t)
	return db, NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
	)
}

func TestCategorySlugDerivation(t *testing.T) {
	_, svc := newCatalogFixture(t)
	ctx := context.Background()

	vo, err := svc.CreateCategory(ctx, &dto.CategoryRequest{Name: "Home & Kitchen"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vo.Slug != "home-kitchen" {
		t.Errorf("slug = %q, want home-kitchen", vo.Slug)
	}

	if _, err := svc.CreateCategory(ctx, &dto.CategoryRequest{Name: "Home & Kitchen"}); !errors.Is(err, ErrCategoryConflict) {
		t.Errorf("duplicate category = %v, want ErrCategoryConflict", err)
	}
}

func TestProductCreateAndPricing(t *testing.T) {
	_, svc := newCatalogFixture(t)
	ctx := context.Background()

	detail, err := svc.CreateProduct(ctx, &dto.ProductRequest{
		Name:          "Ceramic Mug",
		Price:         25.50,
		StockQuantity: 10,
		Tags:          []string{"ceramic", "kitchen"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.Slug != "ceramic-mug" {
		t.Errorf("slug = %q", detail.Slug)
	}
	if detail.Price != "25.50" {
		t.Errorf("price = %q, want \"25.50\"", detail.Price)
	}
	if detail.Currency != "SAR" {
		t.Errorf("currency = %q, want SAR", detail.Currency)
	}
	if !detail.InStock {
		t.Error("in_stock should be true")
	}

	if _, err := svc.CreateProduct(ctx, &dto.ProductRequest{Name: "Ceramic Mug"}); !errors.Is(err, ErrProductSlugConflict) {
		t.Errorf("duplicate slug = %v, want ErrProductSlugConflict", err)
	}
}

func TestVariantConflicts(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "shirt", 4000, 10)

	if _, err := svc.CreateVariant(ctx, product.ID, &dto.VariantRequest{SKU: "SHIRT-M", Title: "Medium", Price: 40}); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	// duplicate SKU anywhere in the catalog
	if _, err := svc.CreateVariant(ctx, product.ID, &dto.VariantRequest{SKU: "SHIRT-M", Title: "Other", Price: 40}); !errors.Is(err, ErrVariantConflict) {
		t.Errorf("duplicate SKU = %v, want ErrVariantConflict", err)
	}
	// duplicate title under the same product
	if _, err := svc.CreateVariant(ctx, product.ID, &dto.VariantRequest{SKU: "SHIRT-M2", Title: "Medium", Price: 40}); !errors.Is(err, ErrVariantConflict) {
		t.Errorf("duplicate title = %v, want ErrVariantConflict", err)
	}
}

func TestVariantRejectsNegativePrice(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "jacket", 20000, 10)

	if _, err := svc.CreateVariant(ctx, product.ID, &dto.VariantRequest{SKU: "JKT-S", Title: "Small", Price: -1}); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("negative create = %v, want ErrNegativePrice", err)
	}

	vo, err := svc.CreateVariant(ctx, product.ID, &dto.VariantRequest{SKU: "JKT-M", Title: "Medium", Price: 200})
	if err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if _, err := svc.UpdateVariant(ctx, vo.ID, &dto.VariantRequest{SKU: "JKT-M", Title: "Medium", Price: -5}); !errors.Is(err, ErrNegativePrice) {
		t.Errorf("negative update = %v, want ErrNegativePrice", err)
	}
}

func TestPrimaryImageUniqueness(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "lamp", 10000, 5)

	first, err := svc.AttachImage(ctx, product.ID, &dto.ImageRequest{URL: "https://cdn.example/1.jpg", IsPrimary: true})
	if err != nil {
		t.Fatalf("attach first: %v", err)
	}
	second, err := svc.AttachImage(ctx, product.ID, &dto.ImageRequest{URL: "https://cdn.example/2.jpg", IsPrimary: true})
	if err != nil {
		t.Fatalf("attach second: %v", err)
	}

	var primaries int64
	db.Model(&model.ProductImage{}).
		Where("product_id = ? AND is_primary = ?", product.ID, true).
		Count(&primaries)
	if primaries != 1 {
		t.Fatalf("primary count = %d, want exactly 1", primaries)
	}

	var got model.ProductImage
	if err := db.First(&got, first.ID).Error; err != nil {
		t.Fatalf("reload first image: %v", err)
	}
	if got.IsPrimary {
		t.Error("first image still primary after second was promoted")
	}

	// promote back through SetPrimaryImage
	if _, err := svc.SetPrimaryImage(ctx, product.ID, first.ID); err != nil {
		t.Fatalf("set primary: %v", err)
	}
	var reloaded model.ProductImage
	if err := db.First(&reloaded, second.ID).Error; err != nil {
		t.Fatalf("reload second image: %v", err)
	}
	if reloaded.IsPrimary {
		t.Error("second image still primary after first was re-promoted")
	}

	// ownership guard
	other := seedProduct(t, db, "vase", 2000, 5)
	if _, err := svc.SetPrimaryImage(ctx, other.ID, first.ID); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("cross-product promote = %v, want ErrImageNotFound", err)
	}
}

func TestPrimaryImageFallback(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "rug", 15000, 3)
	svc.AttachImage(ctx, product.ID, &dto.ImageRequest{URL: "https://cdn.example/a.jpg", SortOrder: 2})
	svc.AttachImage(ctx, product.ID, &dto.ImageRequest{URL: "https://cdn.example/b.jpg", SortOrder: 1})

	detail, err := svc.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// no flagged primary: the first by sort order stands in
	if detail.ImageURL != "https://cdn.example/b.jpg" {
		t.Errorf("image_url = %q, want the lowest sort_order image", detail.ImageURL)
	}
}

func TestStorefrontHidesInactiveProducts(t *testing.T) {
	db, svc := newCatalogFixture(t)
	ctx := context.Background()

	visible := seedProduct(t, db, "visible", 1000, 5)
	hidden := seedProduct(t, db, "hidden", 1000, 5)
	db.Model(&model.Product{}).Where("id = ?", hidden.ID).Update("is_active", false)

	cards, total, err := svc.ListProducts(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(cards) != 1 || cards[0].ID != visible.ID {
		t.Errorf("storefront list = %d cards total %d", len(cards), total)
	}

	if _, err := svc.GetProductBySlug(ctx, "hidden-slug"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("inactive detail = %v, want ErrProductNotFound", err)
	}
}
