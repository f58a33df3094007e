package service

import (
	"context"
	"errors"
	"time"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var paymentStatuses = []string{
	model.PaymentStatusInitiated,
	model.PaymentStatusPending,
	model.PaymentStatusSucceeded,
	model.PaymentStatusFailed,
	model.PaymentStatusRefunded,
}

func validPaymentStatus(s string) bool {
	for _, v := range paymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// PaymentService payment attempts against orders. Payments are passive
// records: the status comes from back-office action or a gateway callback.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

// NewPaymentService creates the payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, orderRepo: orderRepo}
}

// Record creates an initiated payment attempt against the order. When the
// request carries no amount, the order total is used.
func (s *PaymentService) Record(ctx context.Context, orderID int64, req *dto.PaymentRequest) (*dto.PaymentVO, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	payment := &model.Payment{
		OrderID:       order.ID,
		Provider:      req.Provider,
		TransactionID: req.TransactionID,
		Currency:      req.Currency,
		Amount:        toMinorUnits(req.Amount),
		Status:        model.PaymentStatusInitiated,
	}
	if payment.Provider == "" {
		payment.Provider = "manual"
	}
	if payment.Currency == "" {
		payment.Currency = order.Currency
	}
	if payment.Amount == 0 {
		payment.Amount = order.TotalAmount
	}
	if payment.Amount < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return buildPaymentVO(payment), nil
}

// Update moves a payment through its lifecycle. A payment reaching succeeded
// marks the order paid (stamping paid_at once).
func (s *PaymentService) Update(ctx context.Context, paymentID int64, req *dto.UpdatePaymentRequest) (*dto.PaymentVO, error) {
	if !validPaymentStatus(req.Status) {
		return nil, ErrInvalidPaymentStatus
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	payment.Status = req.Status
	if req.TransactionID != "" {
		payment.TransactionID = req.TransactionID
	}
	if req.RawResponse != "" {
		payment.RawResponse = datatypes.JSON(req.RawResponse)
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if payment.Status == model.PaymentStatusSucceeded {
		if err := s.markOrderPaid(ctx, payment.OrderID); err != nil {
			return nil, err
		}
	}
	return buildPaymentVO(payment), nil
}

func (s *PaymentService) markOrderPaid(ctx context.Context, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{"status": model.OrderStatusPaid}
	if order.PaidAt == nil {
		fields["paid_at"] = time.Now()
	}
	return s.orderRepo.UpdateFields(ctx, orderID, fields)
}

// ListByOrder payment attempts for an order, newest first.
func (s *PaymentService) ListByOrder(ctx context.Context, orderID int64) ([]dto.PaymentVO, error) {
	payments, err := s.paymentRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.PaymentVO, 0, len(payments))
	for i := range payments {
		vos = append(vos, *buildPaymentVO(&payments[i]))
	}
	return vos, nil
}

func buildPaymentVO(p *model.Payment) *dto.PaymentVO {
	return &dto.PaymentVO{
		ID:            p.ID,
		Provider:      p.Provider,
		TransactionID: p.TransactionID,
		Currency:      p.Currency,
		Amount:        model.FormatAmount(p.Amount),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
	}
}

// ==================== Errors ====================

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)
