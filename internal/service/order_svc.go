package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"
	"souq_dev_v1/pkg/utils"

	"gorm.io/gorm"
)

// orderNumberAttempts bounds the retry loop on an order-number collision.
// With a 32^8 space a second collision in a row is effectively impossible.
const orderNumberAttempts = 5

// OrderService checkout and order lifecycle
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository

	// injectable for tests
	newOrderNumber func() string
}

// NewOrderService creates the order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		newOrderNumber: func() string {
			return fmt.Sprintf("%d%s", time.Now().Year(), utils.RandomString(8, utils.OrderNumberAlphabet))
		},
	}
}

// ==================== Checkout ====================

// Checkout converts the user's cart into an order: every line is revalidated
// against live stock, stock is decremented, prices and names are frozen onto
// order items, and the cart empties — all in one transaction under the cart
// row lock. Any failed line aborts the whole checkout.
func (s *OrderService) Checkout(ctx context.Context, cart *model.Cart, userID int64, req *dto.CheckoutRequest) (*dto.OrderDetailResponse, error) {
	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	shippingAddressID, err := s.resolveShippingAddress(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order = &model.Order{
			OrderNumber:       s.newOrderNumber(),
			Status:            model.OrderStatusPendingPayment,
			Currency:          "SAR",
			ShippingAddressID: shippingAddressID,
			Notes:             req.Notes,
		}
		if userID > 0 {
			order.UserID = &userID
		}

		err = s.cartRepo.Locked(ctx, cart.ID, func(tx *gorm.DB) error {
			for i := range items {
				item := &items[i]
				line := lineFromItem(item)
				if !line.active {
					return ErrItemUnavailable
				}

				var ok bool
				var decErr error
				if item.IsVariant() {
					ok, decErr = s.productRepo.DecrementVariantStock(ctx, tx, *item.VariantID, item.Quantity)
				} else {
					ok, decErr = s.productRepo.DecrementProductStock(ctx, tx, *item.ProductID, item.Quantity)
				}
				if decErr != nil {
					return decErr
				}
				if !ok {
					return ErrInsufficientStock
				}

				order.Currency = line.currency
				order.Items = append(order.Items, model.OrderItem{
					ProductID:       item.ProductID,
					VariantID:       item.VariantID,
					ProductName:     line.title,
					SKU:             line.sku,
					Currency:        line.currency,
					UnitPriceAmount: line.unitPrice,
					Quantity:        item.Quantity,
				})
			}

			order.RecalcTotals()
			if err := s.orderRepo.CreateTx(ctx, tx, order); err != nil {
				return err
			}
			return tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error
		})
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// collision on the order number; retry the whole transaction
		order.Items = nil
	}
	if err != nil {
		return nil, ErrOrderNumberExhausted
	}

	return s.GetDetail(ctx, order.ID)
}

func (s *OrderService) resolveShippingAddress(ctx context.Context, userID int64, req *dto.CheckoutRequest) (*int64, error) {
	if req.ShippingAddressID != nil {
		addr, err := s.addressRepo.GetByID(ctx, *req.ShippingAddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAddressNotFound
			}
			return nil, err
		}
		if addr.UserID != userID {
			return nil, ErrAddressNotFound
		}
		return &addr.ID, nil
	}

	if userID <= 0 {
		return nil, nil
	}
	addr, err := s.addressRepo.GetDefault(ctx, userID, model.AddressTypeShipping)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addr.ID, nil
}

// ==================== Reads ====================

// GetDetail full order view.
func (s *OrderService) GetDetail(ctx context.Context, orderID int64) (*dto.OrderDetailResponse, error) {
	order, err := s.orderRepo.GetByIDWithRelations(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return buildOrderDetail(order), nil
}

// GetOwnDetail full order view restricted to the owning customer.
func (s *OrderService) GetOwnDetail(ctx context.Context, userID, orderID int64) (*dto.OrderDetailResponse, error) {
	order, err := s.orderRepo.GetByIDWithRelations(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return buildOrderDetail(order), nil
}

// List back-office order listing.
func (s *OrderService) List(ctx context.Context, req *dto.ListOrdersRequest) (*dto.ListOrdersResponse, error) {
	filter := repository.OrderFilter{
		UserID:   req.UserID,
		Status:   req.Status,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, ErrBadDateFilter
		}
		filter.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrBadDateFilter
		}
		// inclusive end of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListOrdersResponse{Total: total, List: make([]dto.OrderListItem, 0, len(orders))}
	for i := range orders {
		resp.List = append(resp.List, *buildOrderListItem(&orders[i]))
	}
	return resp, nil
}

// MyOrders the customer's own orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID int64, page, pageSize int) (*dto.ListOrdersResponse, error) {
	return s.List(ctx, &dto.ListOrdersRequest{UserID: userID, Page: page, PageSize: pageSize})
}

// ==================== Lifecycle ====================

// UpdateStatus sets the order status. Any known status is accepted; moving to
// paid stamps paid_at when not already set.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	fields := map[string]interface{}{"status": status}
	if status == model.OrderStatusPaid && order.PaidAt == nil {
		fields["paid_at"] = time.Now()
	}
	return s.orderRepo.UpdateFields(ctx, orderID, fields)
}

// BatchUpdateStatus bulk status transition; returns how many rows changed.
// Marking paid stamps paid_at only on orders not already stamped.
func (s *OrderService) BatchUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if !model.ValidOrderStatus(status) {
		return 0, ErrInvalidOrderStatus
	}
	if len(ids) == 0 {
		return 0, nil
	}

	affected, err := s.orderRepo.BatchUpdateFields(ctx, ids, map[string]interface{}{"status": status})
	if err != nil {
		return 0, err
	}
	if status == model.OrderStatusPaid {
		if _, err := s.orderRepo.BatchUpdateFields(ctx, ids, map[string]interface{}{
			"paid_at": gorm.Expr("COALESCE(paid_at, CURRENT_TIMESTAMP)"),
		}); err != nil {
			return affected, err
		}
	}
	return affected, nil
}

// RecalcTotals recomputes and persists subtotal and total from the order's
// frozen line amounts.
func (s *OrderService) RecalcTotals(ctx context.Context, orderID int64) (*dto.OrderDetailResponse, error) {
	order, err := s.orderRepo.GetByIDWithRelations(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.RecalcTotals()
	err = s.orderRepo.UpdateFields(ctx, orderID, map[string]interface{}{
		"subtotal_amount": order.SubtotalAmount,
		"total_amount":    order.TotalAmount,
	})
	if err != nil {
		return nil, err
	}
	return buildOrderDetail(order), nil
}

// ==================== View builders ====================

func buildOrderListItem(o *model.Order) *dto.OrderListItem {
	itemCount := 0
	for _, it := range o.Items {
		itemCount += it.Quantity
	}
	return &dto.OrderListItem{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		ItemCount:   itemCount,
		Total:       model.FormatAmount(o.TotalAmount),
		Currency:    o.Currency,
		HasShipment: o.Shipment != nil,
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
	}
}

func buildOrderDetail(o *model.Order) *dto.OrderDetailResponse {
	detail := &dto.OrderDetailResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		Currency:    o.Currency,
		Subtotal:    model.FormatAmount(o.SubtotalAmount),
		ShippingFee: model.FormatAmount(o.ShippingFeeAmount),
		Discount:    model.FormatAmount(o.DiscountAmount),
		Total:       model.FormatAmount(o.TotalAmount),
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
		Items:       make([]dto.OrderItemVO, 0, len(o.Items)),
	}
	if o.ShippingAddress != nil {
		detail.Address = buildAddressVO(o.ShippingAddress)
	}
	for i := range o.Items {
		it := &o.Items[i]
		detail.Items = append(detail.Items, dto.OrderItemVO{
			ID:          it.ID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Currency:    it.Currency,
			UnitPrice:   model.FormatAmount(it.UnitPriceAmount),
			Quantity:    it.Quantity,
			LineTotal:   model.FormatAmount(it.LineTotalAmount()),
		})
	}
	for i := range o.Payments {
		detail.Payments = append(detail.Payments, *buildPaymentVO(&o.Payments[i]))
	}
	if o.Shipment != nil {
		detail.Shipment = buildShipmentVO(o.Shipment)
	}
	return detail
}

// ==================== Errors ====================

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrBadDateFilter        = errors.New("date filters must be YYYY-MM-DD")
	ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")
)
