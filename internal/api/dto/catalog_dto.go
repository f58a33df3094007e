package dto

// ==================== Requests ====================

// CategoryRequest create/update a category
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug"`
	ParentID  *int64 `json:"parent_id"`
	IsActive  *bool  `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// ProductRequest create/update a product. Money fields arrive in currency
// units and are converted to minor units at the service boundary.
type ProductRequest struct {
	Name           string   `json:"name" binding:"required"`
	Slug           string   `json:"slug"`
	CategoryID     *int64   `json:"category_id"`
	Description    string   `json:"description"`
	IsActive       *bool    `json:"is_active"`
	IsFeatured     *bool    `json:"is_featured"`
	Currency       string   `json:"currency"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price"`
	TrackInventory *bool    `json:"track_inventory"`
	StockQuantity  int      `json:"stock_quantity"`
	Tags           []string `json:"tags"`
}

// VariantRequest create/update a product variant
type VariantRequest struct {
	SKU            string   `json:"sku" binding:"required"`
	Title          string   `json:"title"`
	IsActive       *bool    `json:"is_active"`
	Currency       string   `json:"currency"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price"`
	TrackInventory *bool    `json:"track_inventory"`
	StockQuantity  int      `json:"stock_quantity"`
	Color          string   `json:"color"`
	Size           string   `json:"size"`
}

// ImageRequest attach an already-uploaded image to a product
type ImageRequest struct {
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ListProductsRequest catalog listing query
type ListProductsRequest struct {
	CategoryID int64  `form:"category_id"`
	Keyword    string `form:"q"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// ==================== Responses ====================

// CategoryVO category view
type CategoryVO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// ProductCard storefront product tile
type ProductCard struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Category       string   `json:"category,omitempty"`
	Currency       string   `json:"currency"`
	Price          string   `json:"price"`
	CompareAtPrice string   `json:"compare_at_price,omitempty"`
	ImageURL       string   `json:"image_url"`
	IsFeatured     bool     `json:"is_featured"`
	InStock        bool     `json:"in_stock"`
	Tags           []string `json:"tags,omitempty"`
}

// VariantVO variant view
type VariantVO struct {
	ID            int64  `json:"id"`
	SKU           string `json:"sku"`
	Title         string `json:"title"`
	IsActive      bool   `json:"is_active"`
	Currency      string `json:"currency"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	Color         string `json:"color,omitempty"`
	Size          string `json:"size,omitempty"`
}

// ImageVO image view
type ImageVO struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	AltText   string `json:"alt_text,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ProductDetail back-office/storefront product detail
type ProductDetail struct {
	ProductCard
	Description    string      `json:"description"`
	TrackInventory bool        `json:"track_inventory"`
	StockQuantity  int         `json:"stock_quantity"`
	IsActive       bool        `json:"is_active"`
	Variants       []VariantVO `json:"variants"`
	Images         []ImageVO   `json:"images"`
}
