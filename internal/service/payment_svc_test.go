package service

import (
	"context"
	"errors"
	"testing"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

func newPaymentFixture(t *testing.T) (*gorm.DB, *PaymentService) {
	t.Helper()
	db := setupTestDB(t)
	return db, NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewOrderRepository(db),
	)
}

func seedOrder(t *testing.T, db *gorm.DB, number string, totalAmount int64) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber: number,
		Status:      model.OrderStatusPendingPayment,
		Currency:    "SAR",
		TotalAmount: totalAmount,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestPaymentRecordDefaults(t *testing.T) {
	db, svc := newPaymentFixture(t)
	ctx := context.Background()

	order := seedOrder(t, db, "2026PAYAAAAA", 5000)

	vo, err := svc.Record(ctx, order.ID, &dto.PaymentRequest{})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if vo.Provider != "manual" {
		t.Errorf("provider = %q, want manual", vo.Provider)
	}
	if vo.Currency != "SAR" {
		t.Errorf("currency = %q, want the order currency", vo.Currency)
	}
	if vo.Amount != "50.00" {
		t.Errorf("amount = %q, want the order total \"50.00\"", vo.Amount)
	}
	if vo.Status != model.PaymentStatusInitiated {
		t.Errorf("status = %q, want initiated", vo.Status)
	}

	if _, err := svc.Record(ctx, order.ID+999, &dto.PaymentRequest{}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown order = %v, want ErrOrderNotFound", err)
	}
}

func TestPaymentSucceededMarksOrderPaid(t *testing.T) {
	db, svc := newPaymentFixture(t)
	ctx := context.Background()

	order := seedOrder(t, db, "2026PAYBBBBB", 5000)
	vo, err := svc.Record(ctx, order.ID, &dto.PaymentRequest{Provider: "mada"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := svc.Update(ctx, vo.ID, &dto.UpdatePaymentRequest{Status: "teleported"}); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Errorf("unknown status = %v, want ErrInvalidPaymentStatus", err)
	}

	updated, err := svc.Update(ctx, vo.ID, &dto.UpdatePaymentRequest{
		Status:        model.PaymentStatusSucceeded,
		TransactionID: "TX-123",
		RawResponse:   `{"result":"APPROVED"}`,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.PaymentStatusSucceeded || updated.TransactionID != "TX-123" {
		t.Errorf("payment after update = %+v", updated)
	}

	var got model.Order
	db.First(&got, order.ID)
	if got.Status != model.OrderStatusPaid {
		t.Errorf("order status = %q, want paid", got.Status)
	}
	if got.PaidAt == nil {
		t.Fatal("paid_at not stamped")
	}

	// a second succeeded payment keeps the original stamp
	first := *got.PaidAt
	second, err := svc.Record(ctx, order.ID, &dto.PaymentRequest{})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}
	if _, err := svc.Update(ctx, second.ID, &dto.UpdatePaymentRequest{Status: model.PaymentStatusSucceeded}); err != nil {
		t.Fatalf("update second: %v", err)
	}
	db.First(&got, order.ID)
	if got.PaidAt == nil || !got.PaidAt.Equal(first) {
		t.Errorf("paid_at restamped: %v vs %v", got.PaidAt, first)
	}
}

func TestPaymentFailedLeavesOrderAlone(t *testing.T) {
	db, svc := newPaymentFixture(t)
	ctx := context.Background()

	order := seedOrder(t, db, "2026PAYCCCCC", 5000)
	vo, _ := svc.Record(ctx, order.ID, &dto.PaymentRequest{})

	if _, err := svc.Update(ctx, vo.ID, &dto.UpdatePaymentRequest{Status: model.PaymentStatusFailed}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got model.Order
	db.First(&got, order.ID)
	if got.Status != model.OrderStatusPendingPayment || got.PaidAt != nil {
		t.Errorf("order after failed payment = %q paid_at %v", got.Status, got.PaidAt)
	}
}

func TestPaymentListNewestFirst(t *testing.T) {
	db, svc := newPaymentFixture(t)
	ctx := context.Background()

	order := seedOrder(t, db, "2026PAYDDDDD", 5000)
	a, _ := svc.Record(ctx, order.ID, &dto.PaymentRequest{})
	b, _ := svc.Record(ctx, order.ID, &dto.PaymentRequest{})

	list, err := svc.ListByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Errorf("order = [%d %d], want newest first [%d %d]", list[0].ID, list[1].ID, b.ID, a.ID)
	}
}
