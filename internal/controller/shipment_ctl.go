package controller

import (
	"net/http"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// ShipmentController fulfillment endpoints
type ShipmentController struct {
	svc *service.ShipmentService
}

// NewShipmentController creates the shipment controller
func NewShipmentController(svc *service.ShipmentService) *ShipmentController {
	return &ShipmentController{svc: svc}
}

// Create opens the order's shipment (at most one per order)
// POST /api/admin/orders/:id/shipment
func (c *ShipmentController) Create(ctx *gin.Context) {
	orderID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.Create(ctx, orderID, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// GetByOrder the order's shipment
// GET /api/admin/orders/:id/shipment
func (c *ShipmentController) GetByOrder(ctx *gin.Context) {
	orderID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	vo, err := c.svc.GetByOrder(ctx, orderID)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// Update edits carrier and tracking number
// PUT /api/admin/shipments/:id
func (c *ShipmentController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.Update(ctx, id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// UpdateStatus lifecycle transition; shipped/delivered cascade to the order
// PUT /api/admin/shipments/:id/status
func (c *ShipmentController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateShipmentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// RefreshTracking pulls the carrier's reported status
// POST /api/admin/shipments/:id/refresh
func (c *ShipmentController) RefreshTracking(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	vo, err := c.svc.RefreshTracking(ctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}
