package controller

import (
	"net/http"
	"strconv"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderController checkout plus order management
type OrderController struct {
	svc        *service.OrderService
	cartSvc    *service.CartService
	paymentSvc *service.PaymentService
}

// NewOrderController creates the order controller
func NewOrderController(svc *service.OrderService, cartSvc *service.CartService) *OrderController {
	return &OrderController{svc: svc, cartSvc: cartSvc}
}

// SetPaymentService wires the payment service (optional injection).
func (c *OrderController) SetPaymentService(svc *service.PaymentService) {
	c.paymentSvc = svc
}

// ==================== Storefront ====================

// Checkout converts the caller's cart into an order
// POST /orders/checkout/
func (c *OrderController) Checkout(ctx *gin.Context) {
	var req dto.CheckoutRequest
	// body is optional; an empty post checks out with defaults
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	cart, err := c.cartSvc.Resolve(ctx, middleware.GetUserID(ctx), middleware.GetCartSessionKey(ctx))
	if err != nil {
		cartFail(ctx, http.StatusInternalServerError, err)
		return
	}

	detail, err := c.svc.Checkout(ctx, cart, middleware.GetUserID(ctx), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"ok": true, "data": detail})
}

// MyOrders the authenticated customer's orders
// GET /api/orders/mine
func (c *OrderController) MyOrders(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.Query("page"))
	pageSize, _ := strconv.Atoi(ctx.Query("page_size"))

	resp, err := c.svc.MyOrders(ctx, middleware.GetUserID(ctx), page, pageSize)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// MyOrderDetail one of the customer's own orders
// GET /api/orders/mine/:id
func (c *OrderController) MyOrderDetail(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.svc.GetOwnDetail(ctx, middleware.GetUserID(ctx), id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": detail})
}

// ==================== Back office ====================

// List paged order listing with filters
// GET /api/admin/orders
func (c *OrderController) List(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.List(ctx, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetByID full order detail
// GET /api/admin/orders/:id
func (c *OrderController) GetByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.svc.GetDetail(ctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": detail})
}

// UpdateStatus single status transition; paid stamps paid_at
// PUT /api/admin/orders/:id/status
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.UpdateStatus(ctx, id, req.Status); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "updated"})
}

// BatchUpdateStatus bulk transition, e.g. mark a page of orders paid
// POST /api/admin/orders/batch-status
func (c *OrderController) BatchUpdateStatus(ctx *gin.Context) {
	var req dto.BatchOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := c.svc.BatchUpdateStatus(ctx, req.IDs, req.Status)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"affected": affected}})
}

// RecalcTotals recomputes totals from the frozen line amounts
// POST /api/admin/orders/:id/recalc
func (c *OrderController) RecalcTotals(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.svc.RecalcTotals(ctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": detail})
}

// ==================== Payments ====================

// RecordPayment creates an initiated payment attempt against the order
// POST /api/admin/orders/:id/payments
func (c *OrderController) RecordPayment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.paymentSvc.Record(ctx, id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// ListPayments payment attempts for an order, newest first
// GET /api/admin/orders/:id/payments
func (c *OrderController) ListPayments(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	vos, err := c.paymentSvc.ListByOrder(ctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vos})
}

// UpdatePayment moves a payment through its lifecycle; succeeded marks the
// order paid
// PUT /api/admin/payments/:id
func (c *OrderController) UpdatePayment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.paymentSvc.Update(ctx, id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}
