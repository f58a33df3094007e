package controller

import (
	"net/http"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressController the customer's address book
type AddressController struct {
	svc *service.AddressService
}

// NewAddressController creates the address controller
func NewAddressController(svc *service.AddressService) *AddressController {
	return &AddressController{svc: svc}
}

// List the caller's addresses, defaults first
// GET /api/addresses
func (c *AddressController) List(ctx *gin.Context) {
	addrs, err := c.svc.List(ctx, middleware.GetUserID(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": addrs})
}

// Create adds an address
// POST /api/addresses
func (c *AddressController) Create(ctx *gin.Context) {
	var req dto.AddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := c.svc.Create(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": addr})
}

// Update edits an address
// PUT /api/addresses/:id
func (c *AddressController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AddressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := c.svc.Update(ctx, middleware.GetUserID(ctx), id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": addr})
}

// SetDefault promotes the address to default of its type
// POST /api/addresses/:id/default
func (c *AddressController) SetDefault(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	addr, err := c.svc.SetDefault(ctx, middleware.GetUserID(ctx), id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": addr})
}

// Delete removes an address
// DELETE /api/addresses/:id
func (c *AddressController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.svc.Delete(ctx, middleware.GetUserID(ctx), id); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "deleted"})
}
