package repository

import (
	"context"
	"errors"

	"souq_dev_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== Filters ====================

// ProductFilter storefront/back-office product listing filter
type ProductFilter struct {
	CategoryID int64
	Keyword    string
	ActiveOnly bool
	Featured   *bool
	Page       int
	PageSize   int
}

// ==================== CategoryRepository ====================

// CategoryRepository category tree persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, activeOnly bool) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates the category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Preload("Children").First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	var categories []model.Category
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}

// ==================== ProductRepository ====================

// ProductRepository product, variant and image persistence
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// Variants
	CreateVariant(ctx context.Context, variant *model.ProductVariant) error
	GetVariantByID(ctx context.Context, id int64) (*model.ProductVariant, error)
	GetVariantBySKU(ctx context.Context, sku string) (*model.ProductVariant, error)
	ListVariants(ctx context.Context, productID int64) ([]model.ProductVariant, error)
	UpdateVariant(ctx context.Context, variant *model.ProductVariant) error
	DeleteVariant(ctx context.Context, id int64) error

	// Images. SaveImage clears sibling primary flags in the same
	// transaction when the image is flagged primary.
	SaveImage(ctx context.Context, image *model.ProductImage) error
	GetImageByID(ctx context.Context, id int64) (*model.ProductImage, error)
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)
	DeleteImage(ctx context.Context, id int64) error

	// Stock. DecrementStock is checkout-side: it only applies when the row
	// still has enough stock and reports whether it did.
	DecrementProductStock(ctx context.Context, tx *gorm.DB, id int64, qty int) (bool, error)
	DecrementVariantStock(ctx context.Context, tx *gorm.DB, id int64, qty int) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates the product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.CategoryID > 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if filter.Featured != nil {
		db = db.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", keyword, keyword)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 12
	}

	err := db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Order("is_featured DESC, updated_at DESC, id DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	// Variants and images cascade with the product.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

// -------- Variants --------

func (r *productRepository) CreateVariant(ctx context.Context, variant *model.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *productRepository) GetVariantByID(ctx context.Context, id int64) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).Preload("Product").First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) GetVariantBySKU(ctx context.Context, sku string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) ListVariants(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id ASC").Find(&variants).Error
	return variants, err
}

func (r *productRepository) UpdateVariant(ctx context.Context, variant *model.ProductVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *productRepository) DeleteVariant(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductVariant{}, id).Error
}

// -------- Images --------

func (r *productRepository) SaveImage(ctx context.Context, image *model.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(image).Error; err != nil {
			return err
		}
		if !image.IsPrimary {
			return nil
		}
		return tx.Model(&model.ProductImage{}).
			Where("product_id = ? AND id <> ?", image.ProductID, image.ID).
			Update("is_primary", false).Error
	})
}

func (r *productRepository) GetImageByID(ctx context.Context, id int64) (*model.ProductImage, error) {
	var image model.ProductImage
	err := r.db.WithContext(ctx).First(&image, id).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *productRepository) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_primary DESC, sort_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *productRepository) DeleteImage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductImage{}, id).Error
}

// -------- Stock --------

func (r *productRepository) DecrementProductStock(ctx context.Context, tx *gorm.DB, id int64, qty int) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND (track_inventory = ? OR stock_quantity >= ?)", id, false, qty).
		Update("stock_quantity", gorm.Expr("CASE WHEN track_inventory THEN stock_quantity - ? ELSE stock_quantity END", qty))
	return result.RowsAffected > 0, result.Error
}

func (r *productRepository) DecrementVariantStock(ctx context.Context, tx *gorm.DB, id int64, qty int) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).Model(&model.ProductVariant{}).
		Where("id = ? AND (track_inventory = ? OR stock_quantity >= ?)", id, false, qty).
		Update("stock_quantity", gorm.Expr("CASE WHEN track_inventory THEN stock_quantity - ? ELSE stock_quantity END", qty))
	return result.RowsAffected > 0, result.Error
}
