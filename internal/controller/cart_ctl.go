package controller

import (
	"errors"
	"net/http"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// CartController storefront cart endpoints. These keep the legacy JSON
// contract: bodies carry {ok: bool, ...} and money travels as 2-decimal
// strings. Update/remove honor the AJAX header and redirect plain form posts
// back to the cart page.
type CartController struct {
	svc *service.CartService
}

// NewCartController creates the cart controller
func NewCartController(svc *service.CartService) *CartController {
	return &CartController{svc: svc}
}

// cartFail writes the storefront {ok:false, error} payload.
func cartFail(ctx *gin.Context, status int, err error) {
	ctx.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func (c *CartController) resolve(ctx *gin.Context) (*model.Cart, bool) {
	cart, err := c.svc.Resolve(ctx, middleware.GetUserID(ctx), middleware.GetCartSessionKey(ctx))
	if err != nil {
		cartFail(ctx, http.StatusInternalServerError, err)
		return nil, false
	}
	return cart, true
}

// isAJAX reports whether the request came from the storefront JS.
func isAJAX(ctx *gin.Context) bool {
	return ctx.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// Detail the rendered cart
// GET /orders/cart/
func (c *CartController) Detail(ctx *gin.Context) {
	cart, ok := c.resolve(ctx)
	if !ok {
		return
	}
	resp, err := c.svc.Detail(ctx, cart)
	if err != nil {
		cartFail(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Summary the badge count
// GET /orders/cart/summary/
func (c *CartController) Summary(ctx *gin.Context) {
	cart, ok := c.resolve(ctx)
	if !ok {
		return
	}
	resp, err := c.svc.Summary(ctx, cart)
	if err != nil {
		cartFail(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Add merges a product or variant line into the cart
// POST /orders/cart/add/
func (c *CartController) Add(ctx *gin.Context) {
	var req dto.AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		cartFail(ctx, http.StatusBadRequest, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, ok := c.resolve(ctx)
	if !ok {
		return
	}

	resp, err := c.svc.AddItem(ctx, cart, req.ProductID, req.VariantID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			cartFail(ctx, http.StatusNotFound, err)
		case errors.Is(err, service.ErrCartTargetRequired),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrCurrencyMismatch),
			errors.Is(err, service.ErrItemUnavailable),
			errors.Is(err, service.ErrInsufficientStock):
			cartFail(ctx, http.StatusBadRequest, err)
		default:
			cartFail(ctx, http.StatusInternalServerError, err)
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateItem sets a line's quantity, clamping to stock when needed
// POST /orders/cart/item/:id/update/
func (c *CartController) UpdateItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		cartFail(ctx, http.StatusBadRequest, err)
		return
	}

	cart, ok := c.resolve(ctx)
	if !ok {
		return
	}

	resp, err := c.svc.UpdateItem(ctx, cart, id, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			cartFail(ctx, http.StatusNotFound, err)
		case errors.Is(err, service.ErrInvalidQuantity):
			cartFail(ctx, http.StatusBadRequest, err)
		default:
			cartFail(ctx, http.StatusInternalServerError, err)
		}
		return
	}

	if !isAJAX(ctx) {
		ctx.Redirect(http.StatusSeeOther, "/orders/cart/")
		return
	}
	if resp.OutOfStock {
		ctx.JSON(http.StatusBadRequest, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RemoveItem deletes a line
// POST /orders/cart/item/:id/remove/
func (c *CartController) RemoveItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	cart, ok := c.resolve(ctx)
	if !ok {
		return
	}

	resp, err := c.svc.RemoveItem(ctx, cart, id)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			cartFail(ctx, http.StatusNotFound, err)
		} else {
			cartFail(ctx, http.StatusInternalServerError, err)
		}
		return
	}

	if !isAJAX(ctx) {
		ctx.Redirect(http.StatusSeeOther, "/orders/cart/")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
