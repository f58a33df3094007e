package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

var shipmentStatuses = []string{
	model.ShipmentStatusPending,
	model.ShipmentStatusShipped,
	model.ShipmentStatusDelivered,
	model.ShipmentStatusReturned,
	model.ShipmentStatusCancelled,
}

func validShipmentStatus(s string) bool {
	for _, v := range shipmentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ==================== Carrier tracking client ====================

// TrackingClient queries the carrier tracking gateway for a shipment's
// current status.
type TrackingClient struct {
	client  *resty.Client
	baseURL string
}

// trackingResult carrier gateway response body
type trackingResult struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// NewTrackingClient creates a tracking client against the gateway base URL.
func NewTrackingClient(baseURL string) *TrackingClient {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &TrackingClient{client: client, baseURL: baseURL}
}

// Fetch returns the carrier's reported status for a tracking number.
func (c *TrackingClient) Fetch(ctx context.Context, carrier, trackingNumber string) (string, error) {
	var result trackingResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"carrier": carrier,
			"number":  trackingNumber,
		}).
		SetResult(&result).
		Get(c.baseURL + "/v1/track")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("tracking gateway returned %s", resp.Status())
	}
	return result.Status, nil
}

// ==================== ShipmentService ====================

// ShipmentService order fulfillment records, 1:1 with orders
type ShipmentService struct {
	shipmentRepo repository.ShipmentRepository
	orderRepo    repository.OrderRepository
	tracking     *TrackingClient // nil disables tracking refresh
}

// NewShipmentService creates the shipment service. tracking may be nil when
// no carrier gateway is configured.
func NewShipmentService(shipmentRepo repository.ShipmentRepository, orderRepo repository.OrderRepository, tracking *TrackingClient) *ShipmentService {
	return &ShipmentService{shipmentRepo: shipmentRepo, orderRepo: orderRepo, tracking: tracking}
}

// Create opens the shipment for an order. An order carries at most one.
func (s *ShipmentService) Create(ctx context.Context, orderID int64, req *dto.ShipmentRequest) (*dto.ShipmentVO, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	existing, err := s.shipmentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrShipmentExists
	}

	shipment := &model.Shipment{
		OrderID:        orderID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		Status:         model.ShipmentStatusPending,
	}
	if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrShipmentExists
		}
		return nil, err
	}
	return buildShipmentVO(shipment), nil
}

// Update edits carrier and tracking number.
func (s *ShipmentService) Update(ctx context.Context, shipmentID int64, req *dto.ShipmentRequest) (*dto.ShipmentVO, error) {
	shipment, err := s.getShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	shipment.Carrier = req.Carrier
	shipment.TrackingNumber = req.TrackingNumber
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, err
	}
	return buildShipmentVO(shipment), nil
}

// UpdateStatus moves the shipment through its lifecycle. Shipped stamps
// shipped_at and moves the order to shipped; delivered stamps delivered_at
// and moves the order to delivered. Timestamps are stamped once.
func (s *ShipmentService) UpdateStatus(ctx context.Context, shipmentID int64, status string) (*dto.ShipmentVO, error) {
	if !validShipmentStatus(status) {
		return nil, ErrInvalidShipmentStatus
	}
	shipment, err := s.getShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	shipment.Status = status
	now := time.Now()
	switch status {
	case model.ShipmentStatusShipped:
		if shipment.ShippedAt == nil {
			shipment.ShippedAt = &now
		}
	case model.ShipmentStatusDelivered:
		if shipment.ShippedAt == nil {
			shipment.ShippedAt = &now
		}
		if shipment.DeliveredAt == nil {
			shipment.DeliveredAt = &now
		}
	}
	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		return nil, err
	}

	switch status {
	case model.ShipmentStatusShipped:
		err = s.orderRepo.UpdateStatus(ctx, shipment.OrderID, model.OrderStatusShipped)
	case model.ShipmentStatusDelivered:
		err = s.orderRepo.UpdateStatus(ctx, shipment.OrderID, model.OrderStatusDelivered)
	}
	if err != nil {
		return nil, err
	}
	return buildShipmentVO(shipment), nil
}

// RefreshTracking asks the carrier gateway for the shipment's current status
// and applies it when it maps onto a known lifecycle state.
func (s *ShipmentService) RefreshTracking(ctx context.Context, shipmentID int64) (*dto.ShipmentVO, error) {
	if s.tracking == nil {
		return nil, ErrTrackingDisabled
	}
	shipment, err := s.getShipment(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment.TrackingNumber == "" {
		return nil, ErrNoTrackingNumber
	}

	status, err := s.tracking.Fetch(ctx, shipment.Carrier, shipment.TrackingNumber)
	if err != nil {
		return nil, err
	}
	if !validShipmentStatus(status) || status == shipment.Status {
		return buildShipmentVO(shipment), nil
	}
	return s.UpdateStatus(ctx, shipment.ID, status)
}

// GetByOrder the order's shipment, or ErrShipmentNotFound.
func (s *ShipmentService) GetByOrder(ctx context.Context, orderID int64) (*dto.ShipmentVO, error) {
	shipment, err := s.shipmentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, ErrShipmentNotFound
	}
	return buildShipmentVO(shipment), nil
}

func (s *ShipmentService) getShipment(ctx context.Context, shipmentID int64) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return shipment, nil
}

func buildShipmentVO(sh *model.Shipment) *dto.ShipmentVO {
	return &dto.ShipmentVO{
		ID:             sh.ID,
		Carrier:        sh.Carrier,
		TrackingNumber: sh.TrackingNumber,
		Status:         sh.Status,
		ShippedAt:      sh.ShippedAt,
		DeliveredAt:    sh.DeliveredAt,
	}
}

// ==================== Errors ====================

var (
	ErrShipmentNotFound      = errors.New("shipment not found")
	ErrShipmentExists        = errors.New("order already has a shipment")
	ErrInvalidShipmentStatus = errors.New("invalid shipment status")
	ErrTrackingDisabled      = errors.New("tracking gateway is not configured")
	ErrNoTrackingNumber      = errors.New("shipment has no tracking number")
)
