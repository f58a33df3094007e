package dto

// ==================== Cart wire contract ====================
// Storefront cart endpoints keep the legacy {ok, ...} JSON shape; money
// fields travel as 2-decimal strings.

// AddToCartRequest add a product or variant line; exactly one of the two ids
// must be present. Quantity defaults to 1 only when omitted; an explicit 0 is
// rejected.
type AddToCartRequest struct {
	ProductID *int64 `json:"product_id"`
	VariantID *int64 `json:"variant_id"`
	Quantity  *int   `json:"quantity"`
}

// UpdateCartItemRequest set a line's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CartCountResponse add/summary payload
type CartCountResponse struct {
	OK        bool `json:"ok"`
	CartCount int  `json:"cart_count"`
}

// CartItemRow one rendered cart line
type CartItemRow struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	SKU       string `json:"sku"`
	IsVariant bool   `json:"is_variant"`
}

// CartDetailResponse full cart view
type CartDetailResponse struct {
	OK        bool          `json:"ok"`
	Items     []CartItemRow `json:"items"`
	Subtotal  string        `json:"subtotal"`
	Currency  string        `json:"currency"`
	CartCount int           `json:"cart_count"`
}

// UpdatedItem the line as stored after an update
type UpdatedItem struct {
	ID        int64  `json:"id"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CartUpdateResponse update/remove payload. Adjusted is set when the
// requested quantity was clamped to the available stock; OutOfStock is set
// when the line's item has zero stock and the line was left untouched.
type CartUpdateResponse struct {
	OK         bool         `json:"ok"`
	CartCount  int          `json:"cart_count"`
	Subtotal   string       `json:"subtotal"`
	Currency   string       `json:"currency"`
	Item       *UpdatedItem `json:"item,omitempty"`
	Adjusted   bool         `json:"adjusted,omitempty"`
	OutOfStock bool         `json:"out_of_stock,omitempty"`
	Message    string       `json:"message,omitempty"`
}
