package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

func newOrderFixture(t *testing.T) (*gorm.DB, *OrderService, *CartService) {
	t.Helper()
	db := setupTestDB(t)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderSvc := NewOrderService(
		repository.NewOrderRepository(db),
		cartRepo,
		productRepo,
		repository.NewAddressRepository(db),
	)
	cartSvc := NewCartService(cartRepo, productRepo)
	return db, orderSvc, cartSvc
}

func TestCheckout(t *testing.T) {
	db, orderSvc, cartSvc := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "mug", 2500, 10)
	variant := seedVariant(t, db, product.ID, "MUG-L", 3000, 10)

	cart, _ := cartSvc.Resolve(ctx, 0, "s1")
	if _, err := cartSvc.AddItem(ctx, cart, &product.ID, nil, 2); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := cartSvc.AddItem(ctx, cart, nil, &variant.ID, 1); err != nil {
		t.Fatalf("add variant: %v", err)
	}

	detail, err := orderSvc.Checkout(ctx, cart, 0, &dto.CheckoutRequest{Notes: "leave at door"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if detail.Status != model.OrderStatusPendingPayment {
		t.Errorf("status = %q, want pending_payment", detail.Status)
	}
	if detail.Subtotal != "80.00" {
		t.Errorf("subtotal = %q, want \"80.00\"", detail.Subtotal)
	}
	if detail.Total != "80.00" {
		t.Errorf("total = %q, want \"80.00\"", detail.Total)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("item count = %d, want 2", len(detail.Items))
	}
	if detail.Notes != "leave at door" {
		t.Errorf("notes = %q", detail.Notes)
	}

	// stock decremented
	var p model.Product
	db.First(&p, product.ID)
	if p.StockQuantity != 8 {
		t.Errorf("product stock = %d, want 8", p.StockQuantity)
	}
	var v model.ProductVariant
	db.First(&v, variant.ID)
	if v.StockQuantity != 9 {
		t.Errorf("variant stock = %d, want 9", v.StockQuantity)
	}

	// cart emptied
	var lines int64
	db.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines)
	if lines != 0 {
		t.Errorf("cart lines after checkout = %d, want 0", lines)
	}

	// order number: current year then 8 characters from the safe alphabet
	year := time.Now().Format("2006")
	if !strings.HasPrefix(detail.OrderNumber, year) || len(detail.OrderNumber) != len(year)+8 {
		t.Errorf("order number %q does not match <year><8 chars>", detail.OrderNumber)
	}
	for _, r := range detail.OrderNumber[len(year):] {
		if !strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", r) {
			t.Errorf("order number %q contains ambiguous character %q", detail.OrderNumber, r)
		}
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, orderSvc, cartSvc := newOrderFixture(t)
	ctx := context.Background()

	cart, _ := cartSvc.Resolve(ctx, 0, "s1")
	if _, err := orderSvc.Checkout(ctx, cart, 0, &dto.CheckoutRequest{}); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("empty checkout = %v, want ErrEmptyCart", err)
	}
}

func TestCheckoutAbortsOnStaleStock(t *testing.T) {
	db, orderSvc, cartSvc := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "scarf", 1500, 5)
	cart, _ := cartSvc.Resolve(ctx, 0, "s1")
	if _, err := cartSvc.AddItem(ctx, cart, &product.ID, nil, 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	// stock shrinks between carting and checkout
	db.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock_quantity", 2)

	if _, err := orderSvc.Checkout(ctx, cart, 0, &dto.CheckoutRequest{}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("stale-stock checkout = %v, want ErrInsufficientStock", err)
	}

	// all-or-nothing: no order, stock untouched, cart intact
	var orders int64
	db.Model(&model.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("orders after failed checkout = %d, want 0", orders)
	}
	var p model.Product
	db.First(&p, product.ID)
	if p.StockQuantity != 2 {
		t.Errorf("stock after failed checkout = %d, want 2", p.StockQuantity)
	}
	var lines int64
	db.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines)
	if lines != 1 {
		t.Errorf("cart lines after failed checkout = %d, want 1", lines)
	}
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	db, orderSvc, cartSvc := newOrderFixture(t)
	ctx := context.Background()

	product := seedProduct(t, db, "mug", 1000, 20)

	// occupy a number, then force the generator to collide once
	taken := &model.Order{OrderNumber: "2026TAKEN123", Status: model.OrderStatusDraft}
	if err := db.Create(taken).Error; err != nil {
		t.Fatalf("seed colliding order: %v", err)
	}
	numbers := []string{"2026TAKEN123", "2026FRESH456"}
	calls := 0
	orderSvc.newOrderNumber = func() string {
		n := numbers[calls]
		calls++
		return n
	}

	cart, _ := cartSvc.Resolve(ctx, 0, "s1")
	cartSvc.AddItem(ctx, cart, &product.ID, nil, 1)

	detail, err := orderSvc.Checkout(ctx, cart, 0, &dto.CheckoutRequest{})
	if err != nil {
		t.Fatalf("checkout with collision: %v", err)
	}
	if detail.OrderNumber != "2026FRESH456" {
		t.Errorf("order number = %q, want the retried 2026FRESH456", detail.OrderNumber)
	}
	if calls != 2 {
		t.Errorf("generator calls = %d, want 2", calls)
	}

	// the collision retry must not double-decrement stock
	var p model.Product
	db.First(&p, product.ID)
	if p.StockQuantity != 19 {
		t.Errorf("stock = %d, want 19", p.StockQuantity)
	}
}

func TestCheckoutAttachesDefaultShippingAddress(t *testing.T) {
	db, orderSvc, cartSvc := newOrderFixture(t)
	ctx := context.Background()

	user := &model.User{Username: "sara", Email: "sara@example.com", Password: "x"}
	db.Create(user)
	addrRepo := repository.NewAddressRepository(db)
	addr := &model.Address{
		UserID: user.ID, Type: model.AddressTypeShipping,
		FullName: "Sara A", Street: "King Fahd Rd", IsDefault: true,
	}
	if err := addrRepo.Save(ctx, addr); err != nil {
		t.Fatalf("seed address: %v", err)
	}

	product := seedProduct(t, db, "mug", 1000, 10)
	cart, _ := cartSvc.Resolve(ctx, user.ID, "")
	cartSvc.AddItem(ctx, cart, &product.ID, nil, 1)

	detail, err := orderSvc.Checkout(ctx, cart, user.ID, &dto.CheckoutRequest{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if detail.Address == nil || detail.Address.ID != addr.ID {
		t.Errorf("shipping address = %+v, want default address %d", detail.Address, addr.ID)
	}
}

func TestOrderStatusUpdates(t *testing.T) {
	db, orderSvc, _ := newOrderFixture(t)
	ctx := context.Background()

	order := &model.Order{OrderNumber: "2026ABCDEFGH", Status: model.OrderStatusPendingPayment}
	db.Create(order)

	if err := orderSvc.UpdateStatus(ctx, order.ID, "teleported"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Errorf("unknown status = %v, want ErrInvalidOrderStatus", err)
	}

	if err := orderSvc.UpdateStatus(ctx, order.ID, model.OrderStatusPaid); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	var got model.Order
	db.First(&got, order.ID)
	if got.Status != model.OrderStatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if got.PaidAt == nil {
		t.Error("paid_at not stamped on transition to paid")
	}

	// re-marking paid keeps the original stamp
	first := *got.PaidAt
	if err := orderSvc.UpdateStatus(ctx, order.ID, model.OrderStatusPaid); err != nil {
		t.Fatalf("re-mark paid: %v", err)
	}
	db.First(&got, order.ID)
	if got.PaidAt == nil || !got.PaidAt.Equal(first) {
		t.Errorf("paid_at restamped: %v vs %v", got.PaidAt, first)
	}
}

func TestBatchUpdateStatus(t *testing.T) {
	db, orderSvc, _ := newOrderFixture(t)
	ctx := context.Background()

	a := &model.Order{OrderNumber: "2026AAAAAAAA", Status: model.OrderStatusPendingPayment}
	b := &model.Order{OrderNumber: "2026BBBBBBBB", Status: model.OrderStatusPendingPayment}
	db.Create(a)
	db.Create(b)

	affected, err := orderSvc.BatchUpdateStatus(ctx, []int64{a.ID, b.ID}, model.OrderStatusPaid)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if affected != 2 {
		t.Errorf("affected = %d, want 2", affected)
	}

	var got model.Order
	db.First(&got, a.ID)
	if got.Status != model.OrderStatusPaid || got.PaidAt == nil {
		t.Errorf("order a: status %q paid_at %v", got.Status, got.PaidAt)
	}
}

func TestRecalcTotalsPersists(t *testing.T) {
	db, orderSvc, _ := newOrderFixture(t)
	ctx := context.Background()

	order := &model.Order{
		OrderNumber:       "2026CCCCCCCC",
		Status:            model.OrderStatusPaid,
		ShippingFeeAmount: 300,
		DiscountAmount:    200,
		Items: []model.OrderItem{
			{ProductName: "mug", UnitPriceAmount: 1000, Quantity: 2},
			{ProductName: "plate", UnitPriceAmount: 550, Quantity: 1},
		},
	}
	db.Create(order)

	detail, err := orderSvc.RecalcTotals(ctx, order.ID)
	if err != nil {
		t.Fatalf("recalc: %v", err)
	}
	if detail.Subtotal != "25.50" {
		t.Errorf("subtotal = %q, want \"25.50\"", detail.Subtotal)
	}
	if detail.Total != "26.50" {
		t.Errorf("total = %q, want \"26.50\"", detail.Total)
	}

	var got model.Order
	db.First(&got, order.ID)
	if got.SubtotalAmount != 2550 || got.TotalAmount != 2650 {
		t.Errorf("persisted amounts = %d/%d, want 2550/2650", got.SubtotalAmount, got.TotalAmount)
	}
}
