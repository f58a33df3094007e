package model

import (
	"time"

	"github.com/lib/pq"
)

// ==================== Category ====================

// Category product category (tree via nullable parent)
type Category struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"size:120;uniqueIndex;not null"`
	Slug     string `gorm:"size:140;uniqueIndex;not null"`
	ParentID *int64 `gorm:"index"`

	IsActive  bool `gorm:"default:true;index:idx_categories_active_sort"`
	SortOrder int  `gorm:"default:0;index:idx_categories_active_sort"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Parent   *Category  `gorm:"foreignKey:ParentID"`
	Children []Category `gorm:"foreignKey:ParentID"`
}

func (*Category) TableName() string {
	return "categories"
}

// ==================== Product ====================

// Product base catalog item. Price and stock here apply to products sold
// without variants; variants carry their own SKU-level overrides.
type Product struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Name       string `gorm:"size:200;not null"`
	Slug       string `gorm:"size:220;uniqueIndex;not null"`
	CategoryID *int64 `gorm:"index:idx_products_category_active;constraint:OnDelete:SET NULL"`

	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"default:true;index:idx_products_category_active;index:idx_products_active_featured"`
	IsFeatured  bool   `gorm:"default:false;index:idx_products_active_featured"`

	Currency        string `gorm:"size:10;default:SAR"`
	PriceAmount     int64  `gorm:"default:0;check:price_amount >= 0"`
	CompareAtAmount *int64 `gorm:"check:compare_at_amount IS NULL OR compare_at_amount >= 0"`

	TrackInventory bool `gorm:"default:true"`
	StockQuantity  int  `gorm:"default:0"`

	Tags pq.StringArray `gorm:"type:text[]"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category        `gorm:"foreignKey:CategoryID"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
	Images   []ProductImage   `gorm:"foreignKey:ProductID"`
}

func (*Product) TableName() string {
	return "products"
}

// GetPrice unit price in currency units
func (p *Product) GetPrice() float64 {
	return AmountToFloat(p.PriceAmount)
}

// PrimaryImageURL URL of the designated primary image, or the first by sort
// order when none is flagged. Requires Images to be preloaded.
func (p *Product) PrimaryImageURL() string {
	var fallback string
	for i, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
		if i == 0 {
			fallback = img.URL
		}
	}
	return fallback
}

// ==================== ProductVariant ====================

// ProductVariant SKU-level specialization (e.g. color/size) with its own
// price and stock.
type ProductVariant struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"index;uniqueIndex:uniq_variant_title_per_product;not null"`

	SKU      string `gorm:"size:64;uniqueIndex;not null"`
	Title    string `gorm:"size:120;uniqueIndex:uniq_variant_title_per_product"`
	IsActive bool   `gorm:"default:true"`

	Currency        string `gorm:"size:10;default:SAR"`
	PriceAmount     int64  `gorm:"default:0;check:price_amount >= 0"`
	CompareAtAmount *int64 `gorm:"check:compare_at_amount IS NULL OR compare_at_amount >= 0"`

	TrackInventory bool `gorm:"default:true"`
	StockQuantity  int  `gorm:"default:0"`

	Color string `gorm:"size:60"`
	Size  string `gorm:"size:60"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (*ProductVariant) TableName() string {
	return "product_variants"
}

// GetPrice unit price in currency units
func (v *ProductVariant) GetPrice() float64 {
	return AmountToFloat(v.PriceAmount)
}

// Label variant display label (title, falling back to SKU)
func (v *ProductVariant) Label() string {
	if v.Title != "" {
		return v.Title
	}
	return v.SKU
}

// ==================== ProductImage ====================

// ProductImage ordered product image. At most one is_primary=true per
// product; the catalog service clears siblings on save.
type ProductImage struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ProductID int64 `gorm:"index:idx_images_product_primary;index:idx_images_product_sort;not null"`

	URL     string `gorm:"size:500;not null"`
	AltText string `gorm:"size:200"`

	IsPrimary bool `gorm:"default:false;index:idx_images_product_primary"`
	SortOrder int  `gorm:"default:0;index:idx_images_product_sort"`

	CreatedAt time.Time
}

func (*ProductImage) TableName() string {
	return "product_images"
}
