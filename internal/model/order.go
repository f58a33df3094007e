package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== Order status ====================

// Order statuses. The lifecycle is deliberately permissive: back-office
// actions may set any status directly, matching how the store is operated.
const (
	OrderStatusDraft          = "draft"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRefunded       = "refunded"
)

// OrderStatuses the full status set, for validation
var OrderStatuses = []string{
	OrderStatusDraft,
	OrderStatusPendingPayment,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ==================== Order ====================

// Order immutable-once-placed purchase snapshot with totals and lifecycle
// status. Line amounts are frozen on the items; totals derive from them.
type Order struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	UserID *int64 `gorm:"index:idx_orders_user_created;constraint:OnDelete:SET NULL"`

	OrderNumber string `gorm:"size:20;uniqueIndex;not null"`
	Status      string `gorm:"size:30;index:idx_orders_status_created;default:draft"`

	Currency string `gorm:"size:10;default:SAR"`

	SubtotalAmount    int64 `gorm:"default:0;check:subtotal_amount >= 0"`
	ShippingFeeAmount int64 `gorm:"default:0;check:shipping_fee_amount >= 0"`
	DiscountAmount    int64 `gorm:"default:0;check:discount_amount >= 0"`
	TotalAmount       int64 `gorm:"default:0;check:total_amount >= 0"`

	ShippingAddressID *int64 `gorm:"constraint:OnDelete:SET NULL"`

	Notes string `gorm:"size:400"`

	CreatedAt time.Time `gorm:"index:idx_orders_user_created;index:idx_orders_status_created"`
	UpdatedAt time.Time
	PaidAt    *time.Time

	User            *User       `gorm:"foreignKey:UserID"`
	ShippingAddress *Address    `gorm:"foreignKey:ShippingAddressID"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments        []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment        *Shipment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (*Order) TableName() string {
	return "orders"
}

// GetSubtotal subtotal in currency units
func (o *Order) GetSubtotal() float64 {
	return AmountToFloat(o.SubtotalAmount)
}

// GetTotal grand total in currency units
func (o *Order) GetTotal() float64 {
	return AmountToFloat(o.TotalAmount)
}

// RecalcTotals recomputes subtotal and total from the loaded items using the
// frozen snapshot prices. Total never goes below zero. Only in-memory fields
// are touched; the caller persists them.
func (o *Order) RecalcTotals() {
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.UnitPriceAmount * int64(it.Quantity)
	}
	o.SubtotalAmount = subtotal

	total := subtotal + o.ShippingFeeAmount - o.DiscountAmount
	if total < 0 {
		total = 0
	}
	o.TotalAmount = total
}

// ==================== OrderItem ====================

// OrderItem purchased line. Name, SKU and unit price are snapshots taken at
// checkout and never recomputed from the live catalog.
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"index;not null"`

	// Optional live references, kept for traceability only.
	ProductID *int64 `gorm:"constraint:OnDelete:SET NULL"`
	VariantID *int64 `gorm:"constraint:OnDelete:SET NULL"`

	ProductName string `gorm:"size:220;not null"`
	SKU         string `gorm:"size:64;index"`

	Currency        string `gorm:"size:10;default:SAR"`
	UnitPriceAmount int64  `gorm:"default:0;check:unit_price_amount >= 0"`
	Quantity        int    `gorm:"default:1;check:quantity >= 1"`

	CreatedAt time.Time
}

func (*OrderItem) TableName() string {
	return "order_items"
}

// LineTotalAmount unit price times quantity, in minor units
func (i *OrderItem) LineTotalAmount() int64 {
	return i.UnitPriceAmount * int64(i.Quantity)
}

// ==================== Payment ====================

// Payment statuses
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment one payment attempt against an order. A passive record: status is
// set by back-office action or a gateway callback, never by an internal
// state machine.
type Payment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"index:idx_payments_order_status;not null"`

	Provider      string `gorm:"size:50;default:manual"`
	TransactionID string `gorm:"size:120;index"`

	Currency string `gorm:"size:10;default:SAR"`
	Amount   int64  `gorm:"default:0;check:amount >= 0"`
	Status   string `gorm:"size:20;index:idx_payments_order_status;default:initiated"`

	// Raw gateway payload, stored as-is for audit.
	RawResponse datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Payment) TableName() string {
	return "payments"
}

// ==================== Shipment ====================

// Shipment statuses
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusShipped   = "shipped"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusReturned  = "returned"
	ShipmentStatusCancelled = "cancelled"
)

// Shipment 1:1 fulfillment record for an order.
type Shipment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"uniqueIndex;not null"`

	Carrier        string `gorm:"size:80"`
	TrackingNumber string `gorm:"size:120;index"`

	Status string `gorm:"size:20;index:idx_shipments_status_created;default:pending"`

	ShippedAt   *time.Time
	DeliveredAt *time.Time

	CreatedAt time.Time `gorm:"index:idx_shipments_status_created"`
	UpdatedAt time.Time
}

func (*Shipment) TableName() string {
	return "shipments"
}
