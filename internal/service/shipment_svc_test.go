package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

func newShipmentFixture(t *testing.T, tracking *TrackingClient) (*gorm.DB, *ShipmentService) {
	t.Helper()
	db := setupTestDB(t)
	return db, NewShipmentService(
		repository.NewShipmentRepository(db),
		repository.NewOrderRepository(db),
		tracking,
	)
}

func TestShipmentOnePerOrder(t *testing.T) {
	db, svc := newShipmentFixture(t, nil)
	ctx := context.Background()

	order := seedOrder(t, db, "2026SHPAAAAA", 5000)

	vo, err := svc.Create(ctx, order.ID, &dto.ShipmentRequest{Carrier: "SMSA", TrackingNumber: "SM123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vo.Status != model.ShipmentStatusPending {
		t.Errorf("status = %q, want pending", vo.Status)
	}

	if _, err := svc.Create(ctx, order.ID, &dto.ShipmentRequest{}); !errors.Is(err, ErrShipmentExists) {
		t.Errorf("second shipment = %v, want ErrShipmentExists", err)
	}
	if _, err := svc.Create(ctx, order.ID+999, &dto.ShipmentRequest{}); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("unknown order = %v, want ErrOrderNotFound", err)
	}
}

func TestShipmentStatusCascadesToOrder(t *testing.T) {
	db, svc := newShipmentFixture(t, nil)
	ctx := context.Background()

	order := seedOrder(t, db, "2026SHPBBBBB", 5000)
	vo, _ := svc.Create(ctx, order.ID, &dto.ShipmentRequest{Carrier: "SMSA", TrackingNumber: "SM456"})

	if _, err := svc.UpdateStatus(ctx, vo.ID, "lost-in-space"); !errors.Is(err, ErrInvalidShipmentStatus) {
		t.Errorf("unknown status = %v, want ErrInvalidShipmentStatus", err)
	}

	shipped, err := svc.UpdateStatus(ctx, vo.ID, model.ShipmentStatusShipped)
	if err != nil {
		t.Fatalf("mark shipped: %v", err)
	}
	if shipped.ShippedAt == nil {
		t.Fatal("shipped_at not stamped")
	}
	var got model.Order
	db.First(&got, order.ID)
	if got.Status != model.OrderStatusShipped {
		t.Errorf("order status = %q, want shipped", got.Status)
	}

	firstShipped := *shipped.ShippedAt
	delivered, err := svc.UpdateStatus(ctx, vo.ID, model.ShipmentStatusDelivered)
	if err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("delivered_at not stamped")
	}
	if delivered.ShippedAt == nil || !delivered.ShippedAt.Equal(firstShipped) {
		t.Errorf("shipped_at restamped: %v vs %v", delivered.ShippedAt, firstShipped)
	}
	db.First(&got, order.ID)
	if got.Status != model.OrderStatusDelivered {
		t.Errorf("order status = %q, want delivered", got.Status)
	}
}

func TestShipmentDeliveredStampsBothTimestamps(t *testing.T) {
	db, svc := newShipmentFixture(t, nil)
	ctx := context.Background()

	order := seedOrder(t, db, "2026SHPCCCCC", 5000)
	vo, _ := svc.Create(ctx, order.ID, &dto.ShipmentRequest{})

	// jumping straight to delivered still records a ship time
	delivered, err := svc.UpdateStatus(ctx, vo.ID, model.ShipmentStatusDelivered)
	if err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	if delivered.ShippedAt == nil || delivered.DeliveredAt == nil {
		t.Errorf("timestamps = %v / %v, want both stamped", delivered.ShippedAt, delivered.DeliveredAt)
	}
}

func TestRefreshTracking(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/track" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("carrier") != "SMSA" || r.URL.Query().Get("number") != "SM789" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"delivered","description":"handed to recipient"}`))
	}))
	defer gateway.Close()

	db, svc := newShipmentFixture(t, NewTrackingClient(gateway.URL))
	ctx := context.Background()

	order := seedOrder(t, db, "2026SHPDDDDD", 5000)
	vo, _ := svc.Create(ctx, order.ID, &dto.ShipmentRequest{Carrier: "SMSA", TrackingNumber: "SM789"})

	refreshed, err := svc.RefreshTracking(ctx, vo.ID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Status != model.ShipmentStatusDelivered {
		t.Errorf("status = %q, want delivered", refreshed.Status)
	}
	if refreshed.DeliveredAt == nil {
		t.Error("delivered_at not stamped by tracking refresh")
	}

	var got model.Order
	db.First(&got, order.ID)
	if got.Status != model.OrderStatusDelivered {
		t.Errorf("order status = %q, want delivered", got.Status)
	}
}

func TestRefreshTrackingGuards(t *testing.T) {
	db, svc := newShipmentFixture(t, nil)
	ctx := context.Background()

	order := seedOrder(t, db, "2026SHPEEEEE", 5000)
	vo, _ := svc.Create(ctx, order.ID, &dto.ShipmentRequest{})

	if _, err := svc.RefreshTracking(ctx, vo.ID); !errors.Is(err, ErrTrackingDisabled) {
		t.Errorf("no gateway = %v, want ErrTrackingDisabled", err)
	}

	db2, svc2 := newShipmentFixture(t, NewTrackingClient("http://localhost:0"))
	order2 := seedOrder(t, db2, "2026SHPFFFFF", 5000)
	vo2, _ := svc2.Create(ctx, order2.ID, &dto.ShipmentRequest{Carrier: "SMSA"})
	if _, err := svc2.RefreshTracking(ctx, vo2.ID); !errors.Is(err, ErrNoTrackingNumber) {
		t.Errorf("no tracking number = %v, want ErrNoTrackingNumber", err)
	}
}

func TestRefreshTrackingIgnoresUnknownStatus(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"customs_hold"}`))
	}))
	defer gateway.Close()

	db, svc := newShipmentFixture(t, NewTrackingClient(gateway.URL))
	ctx := context.Background()

	order := seedOrder(t, db, "2026SHPGGGGG", 5000)
	vo, _ := svc.Create(ctx, order.ID, &dto.ShipmentRequest{Carrier: "SMSA", TrackingNumber: "SM000"})

	refreshed, err := svc.RefreshTracking(ctx, vo.ID)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.Status != model.ShipmentStatusPending {
		t.Errorf("status = %q, want pending (unknown carrier status is ignored)", refreshed.Status)
	}
}
