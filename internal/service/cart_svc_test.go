package service

import (
	"context"
	"errors"
	"testing"

	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"
)

func TestCartResolve(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	anon, err := svc.Resolve(ctx, 0, "session-a")
	if err != nil {
		t.Fatalf("Resolve(anon) error: %v", err)
	}
	anonAgain, err := svc.Resolve(ctx, 0, "session-a")
	if err != nil {
		t.Fatalf("Resolve(anon again) error: %v", err)
	}
	if anon.ID != anonAgain.ID {
		t.Errorf("anonymous cart not stable: %d vs %d", anon.ID, anonAgain.ID)
	}

	userCart, err := svc.Resolve(ctx, 7, "session-a")
	if err != nil {
		t.Fatalf("Resolve(user) error: %v", err)
	}
	if userCart.ID == anon.ID {
		t.Error("user cart should be distinct from the anonymous cart")
	}

	if _, err := svc.Resolve(ctx, 0, ""); !errors.Is(err, ErrNoCartSession) {
		t.Errorf("Resolve with no identity = %v, want ErrNoCartSession", err)
	}
}

func TestCartAddMergesIntoOneLine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "mug", 2500, 50)
	cart, _ := svc.Resolve(ctx, 0, "s1")

	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	resp, err := svc.AddItem(ctx, cart, &product.ID, nil, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if resp.CartCount != 5 {
		t.Errorf("cart_count = %d, want 5", resp.CartCount)
	}

	var items []model.CartItem
	db.Where("cart_id = ?", cart.ID).Find(&items)
	if len(items) != 1 {
		t.Fatalf("line count = %d, want 1 (adds must merge)", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("merged quantity = %d, want 5", items[0].Quantity)
	}
}

func TestCartAddRejectsInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "scarf", 1200, 5)
	cart, _ := svc.Resolve(ctx, 0, "s1")

	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 3); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// 3 + 3 > 5: the whole add is rejected, never partially applied
	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 3); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over-stock add = %v, want ErrInsufficientStock", err)
	}

	var item model.CartItem
	db.Where("cart_id = ?", cart.ID).First(&item)
	if item.Quantity != 3 {
		t.Errorf("line quantity after rejected add = %d, want 3", item.Quantity)
	}
}

func TestCartAddRejectsUnavailable(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "sold-out", 900, 0)
	cart, _ := svc.Resolve(ctx, 0, "s1")

	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 1); !errors.Is(err, ErrItemUnavailable) {
		t.Errorf("zero-stock add = %v, want ErrItemUnavailable", err)
	}

	inactive := seedProduct(t, db, "hidden", 900, 10)
	db.Model(&model.Product{}).Where("id = ?", inactive.ID).Update("is_active", false)
	if _, err := svc.AddItem(ctx, cart, &inactive.ID, nil, 1); !errors.Is(err, ErrItemUnavailable) {
		t.Errorf("inactive add = %v, want ErrItemUnavailable", err)
	}
}

func TestCartAddTargetValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "tea", 500, 10)
	variant := seedVariant(t, db, product.ID, "TEA-L", 700, 10)
	cart, _ := svc.Resolve(ctx, 0, "s1")

	if _, err := svc.AddItem(ctx, cart, nil, nil, 1); !errors.Is(err, ErrCartTargetRequired) {
		t.Errorf("neither target = %v, want ErrCartTargetRequired", err)
	}
	if _, err := svc.AddItem(ctx, cart, &product.ID, &variant.ID, 1); !errors.Is(err, ErrCartTargetRequired) {
		t.Errorf("both targets = %v, want ErrCartTargetRequired", err)
	}

	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("quantity 0 = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 1000); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("quantity 1000 = %v, want ErrInvalidQuantity", err)
	}

	missing := product.ID + variant.ID + 100
	if _, err := svc.AddItem(ctx, cart, &missing, nil, 1); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("missing product = %v, want ErrItemNotFound", err)
	}
}

func TestCartProductAndVariantAreSeparateLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "shirt", 4000, 20)
	variant := seedVariant(t, db, product.ID, "SHIRT-XL", 4500, 20)
	cart, _ := svc.Resolve(ctx, 0, "s1")

	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 1); err != nil {
		t.Fatalf("add product: %v", err)
	}
	if _, err := svc.AddItem(ctx, cart, nil, &variant.ID, 2); err != nil {
		t.Fatalf("add variant: %v", err)
	}

	var count int64
	db.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count)
	if count != 2 {
		t.Errorf("line count = %d, want 2 (product and variant are distinct identities)", count)
	}
}

func TestCartUpdateClampsToStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "lamp", 10000, 5)
	cart, _ := svc.Resolve(ctx, 0, "s1")
	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	var item model.CartItem
	db.Where("cart_id = ?", cart.ID).First(&item)

	resp, err := svc.UpdateItem(ctx, cart, item.ID, 8)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !resp.Adjusted {
		t.Error("adjusted flag not set on clamped update")
	}
	if resp.Item == nil || resp.Item.Quantity != 5 {
		t.Fatalf("stored quantity = %+v, want 5", resp.Item)
	}
	if resp.Item.LineTotal != "500.00" {
		t.Errorf("line_total = %q, want \"500.00\"", resp.Item.LineTotal)
	}
	if resp.Subtotal != "500.00" {
		t.Errorf("subtotal = %q, want \"500.00\"", resp.Subtotal)
	}
}

func TestCartUpdateOutOfStockLeavesLine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	product := seedProduct(t, db, "vase", 3000, 4)
	cart, _ := svc.Resolve(ctx, 0, "s1")
	if _, err := svc.AddItem(ctx, cart, &product.ID, nil, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	var item model.CartItem
	db.Where("cart_id = ?", cart.ID).First(&item)

	// stock shrinks to zero after the line exists
	db.Model(&model.Product{}).Where("id = ?", product.ID).Update("stock_quantity", 0)

	resp, err := svc.UpdateItem(ctx, cart, item.ID, 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.OK {
		t.Error("out-of-stock update should not report ok")
	}
	if !resp.OutOfStock {
		t.Error("out_of_stock flag not set")
	}

	db.First(&item, item.ID)
	if item.Quantity != 2 {
		t.Errorf("line quantity = %d, want 2 (unchanged)", item.Quantity)
	}
}

func TestCartRemoveAndDetail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	mug := seedProduct(t, db, "mug", 2550, 10)
	plate := seedProduct(t, db, "plate", 1000, 10)
	cart, _ := svc.Resolve(ctx, 0, "s1")
	svc.AddItem(ctx, cart, &mug.ID, nil, 1)
	svc.AddItem(ctx, cart, &plate.ID, nil, 2)

	detail, err := svc.Detail(ctx, cart)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Items) != 2 || detail.CartCount != 3 {
		t.Fatalf("detail = %d items count %d, want 2 items count 3", len(detail.Items), detail.CartCount)
	}
	if detail.Subtotal != "45.50" {
		t.Errorf("subtotal = %q, want \"45.50\"", detail.Subtotal)
	}
	if detail.Currency != "SAR" {
		t.Errorf("currency = %q, want SAR", detail.Currency)
	}

	var item model.CartItem
	db.Where("cart_id = ? AND product_id = ?", cart.ID, mug.ID).First(&item)
	resp, err := svc.RemoveItem(ctx, cart, item.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.CartCount != 2 {
		t.Errorf("cart_count after remove = %d, want 2", resp.CartCount)
	}
	if resp.Subtotal != "20.00" {
		t.Errorf("subtotal after remove = %q, want \"20.00\"", resp.Subtotal)
	}

	if _, err := svc.RemoveItem(ctx, cart, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("double remove = %v, want ErrCartItemNotFound", err)
	}
}

func TestCartRejectsMixedCurrency(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	ctx := context.Background()

	sar := seedProduct(t, db, "local", 1000, 10)
	usd := seedProduct(t, db, "imported", 1000, 10)
	db.Model(&model.Product{}).Where("id = ?", usd.ID).Update("currency", "USD")

	cart, _ := svc.Resolve(ctx, 0, "s1")
	if _, err := svc.AddItem(ctx, cart, &sar.ID, nil, 1); err != nil {
		t.Fatalf("add SAR line: %v", err)
	}
	if _, err := svc.AddItem(ctx, cart, &usd.ID, nil, 1); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("mixed-currency add = %v, want ErrCurrencyMismatch", err)
	}
}
