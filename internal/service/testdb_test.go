package service

import (
	"testing"

	"souq_dev_v1/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== Test helpers ====================

// setupTestDB opens an in-memory database with the full schema.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey,
// same as the production configuration.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{}, &model.CustomerProfile{}, &model.Address{},
		&model.Category{}, &model.Product{}, &model.ProductVariant{}, &model.ProductImage{},
		&model.Cart{}, &model.CartItem{},
		&model.Order{}, &model.OrderItem{}, &model.Payment{}, &model.Shipment{},
	)
	if err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return db
}

// seedProduct inserts an active stock-tracked product priced in minor units.
func seedProduct(t *testing.T, db *gorm.DB, name string, priceAmount int64, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:           name,
		Slug:           name + "-slug",
		IsActive:       true,
		Currency:       "SAR",
		PriceAmount:    priceAmount,
		TrackInventory: true,
		StockQuantity:  stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return product
}

// seedVariant inserts an active variant under the product.
func seedVariant(t *testing.T, db *gorm.DB, productID int64, sku string, priceAmount int64, stock int) *model.ProductVariant {
	t.Helper()
	variant := &model.ProductVariant{
		ProductID:      productID,
		SKU:            sku,
		Title:          sku,
		IsActive:       true,
		Currency:       "SAR",
		PriceAmount:    priceAmount,
		TrackInventory: true,
		StockQuantity:  stock,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant %s: %v", sku, err)
	}
	return variant
}

func ptr[T any](v T) *T {
	return &v
}
