package model

import "time"

// ==================== Cart ====================

// Cart pre-purchase line collection, owned by a registered user or by an
// anonymous visitor through a session key. One of the two must be present.
type Cart struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     *int64 `gorm:"index"`
	SessionKey string `gorm:"size:64;index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User  *User      `gorm:"foreignKey:UserID"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (*Cart) TableName() string {
	return "carts"
}

// ==================== CartItem ====================

// CartItem one cart line. Exactly one of product/variant is set; the pair
// (cart, product, variant) identifies a line, and adds merge into it.
type CartItem struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	CartID int64 `gorm:"index;uniqueIndex:uniq_cartitem_target;not null;check:chk_cartitem_target,(product_id IS NOT NULL AND variant_id IS NULL) OR (product_id IS NULL AND variant_id IS NOT NULL)"`

	ProductID *int64 `gorm:"uniqueIndex:uniq_cartitem_target"`
	VariantID *int64 `gorm:"uniqueIndex:uniq_cartitem_target"`

	Quantity int `gorm:"default:1;check:quantity >= 1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product        `gorm:"foreignKey:ProductID"`
	Variant *ProductVariant `gorm:"foreignKey:VariantID"`
}

func (*CartItem) TableName() string {
	return "cart_items"
}

// IsVariant true when the line references a variant rather than a product
func (i *CartItem) IsVariant() bool {
	return i.VariantID != nil
}
