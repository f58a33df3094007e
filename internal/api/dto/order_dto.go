package dto

import "time"

// ==================== Requests ====================

// ListOrdersRequest back-office order listing query
type ListOrdersRequest struct {
	UserID    int64  `form:"user_id"`
	Status    string `form:"status"`
	Keyword   string `form:"q"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// UpdateOrderStatusRequest single status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BatchOrderStatusRequest bulk back-office transition
type BatchOrderStatusRequest struct {
	IDs    []int64 `json:"ids" binding:"required"`
	Status string  `json:"status" binding:"required"`
}

// CheckoutRequest optional overrides at checkout
type CheckoutRequest struct {
	ShippingAddressID *int64 `json:"shipping_address_id"`
	Notes             string `json:"notes"`
}

// PaymentRequest record a payment attempt against an order
type PaymentRequest struct {
	Provider      string  `json:"provider"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
}

// UpdatePaymentRequest status/transaction update from the operator
type UpdatePaymentRequest struct {
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transaction_id"`
	RawResponse   string `json:"raw_response"`
}

// ShipmentRequest create/update the order's shipment
type ShipmentRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// UpdateShipmentStatusRequest shipment lifecycle update
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ==================== Responses ====================

// OrderListItem one row of the order list
type OrderListItem struct {
	ID          int64      `json:"id"`
	OrderNumber string     `json:"order_number"`
	Status      string     `json:"status"`
	ItemCount   int        `json:"item_count"`
	Total       string     `json:"total"`
	Currency    string     `json:"currency"`
	HasShipment bool       `json:"has_shipment"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// ListOrdersResponse paged order list
type ListOrdersResponse struct {
	Total int64           `json:"total"`
	List  []OrderListItem `json:"list"`
}

// OrderItemVO frozen purchase line
type OrderItemVO struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku,omitempty"`
	Currency    string `json:"currency"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
}

// PaymentVO payment attempt view
type PaymentVO struct {
	ID            int64     `json:"id"`
	Provider      string    `json:"provider"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Currency      string    `json:"currency"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ShipmentVO shipment view
type ShipmentVO struct {
	ID             int64      `json:"id"`
	Carrier        string     `json:"carrier,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Status         string     `json:"status"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// OrderDetailResponse full order view
type OrderDetailResponse struct {
	ID          int64         `json:"id"`
	OrderNumber string        `json:"order_number"`
	Status      string        `json:"status"`
	Currency    string        `json:"currency"`
	Subtotal    string        `json:"subtotal"`
	ShippingFee string        `json:"shipping_fee"`
	Discount    string        `json:"discount_total"`
	Total       string        `json:"total"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	Address     *AddressVO    `json:"shipping_address,omitempty"`
	Items       []OrderItemVO `json:"items"`
	Payments    []PaymentVO   `json:"payments,omitempty"`
	Shipment    *ShipmentVO   `json:"shipment,omitempty"`
}
