package controller

import (
	"io"
	"net/http"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/repository"
	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImageUploadBytes caps product image uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// CatalogController storefront browsing plus back-office catalog management
type CatalogController struct {
	svc     *service.CatalogService
	storage service.StorageProvider // nil disables direct uploads
}

// NewCatalogController creates the catalog controller
func NewCatalogController(svc *service.CatalogService) *CatalogController {
	return &CatalogController{svc: svc}
}

// SetStorage wires the image storage provider (optional).
func (c *CatalogController) SetStorage(storage service.StorageProvider) {
	c.storage = storage
}

// ==================== Storefront ====================

// Home landing page data: categories, featured and latest products
// GET /
func (c *CatalogController) Home(ctx *gin.Context) {
	data, err := c.svc.Home(ctx)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": data})
}

// ListProducts paged storefront browse
// GET /products
func (c *CatalogController) ListProducts(ctx *gin.Context) {
	var req dto.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cards, total, err := c.svc.ListProducts(ctx, repository.ProductFilter{
		CategoryID: req.CategoryID,
		Keyword:    req.Keyword,
		ActiveOnly: true,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": cards}})
}

// GetProductBySlug storefront product detail
// GET /products/:slug
func (c *CatalogController) GetProductBySlug(ctx *gin.Context) {
	detail, err := c.svc.GetProductBySlug(ctx, ctx.Param("slug"))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": detail})
}

// ListCategories active category tree for navigation
// GET /categories
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.svc.ListCategories(ctx, true)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": categories})
}

// ==================== Back office: categories ====================

// AdminListCategories every category including inactive
// GET /api/admin/categories
func (c *CatalogController) AdminListCategories(ctx *gin.Context) {
	categories, err := c.svc.ListCategories(ctx, false)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateCategory
// POST /api/admin/categories
func (c *CatalogController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.CreateCategory(ctx, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// UpdateCategory
// PUT /api/admin/categories/:id
func (c *CatalogController) UpdateCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.UpdateCategory(ctx, id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// DeleteCategory
// DELETE /api/admin/categories/:id
func (c *CatalogController) DeleteCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.svc.DeleteCategory(ctx, id); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

// ==================== Back office: products ====================

// AdminListProducts includes inactive products
// GET /api/admin/products
func (c *CatalogController) AdminListProducts(ctx *gin.Context) {
	var req dto.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cards, total, err := c.svc.ListProducts(ctx, repository.ProductFilter{
		CategoryID: req.CategoryID,
		Keyword:    req.Keyword,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": cards}})
}

// GetProduct back-office detail
// GET /api/admin/products/:id
func (c *CatalogController) GetProduct(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.svc.GetProduct(ctx, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": detail})
}

// CreateProduct
// POST /api/admin/products
func (c *CatalogController) CreateProduct(ctx *gin.Context) {
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := c.svc.CreateProduct(ctx, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": detail})
}

// UpdateProduct
// PUT /api/admin/products/:id
func (c *CatalogController) UpdateProduct(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := c.svc.UpdateProduct(ctx, id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": detail})
}

// DeleteProduct removes the product with its variants and images
// DELETE /api/admin/products/:id
func (c *CatalogController) DeleteProduct(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.svc.DeleteProduct(ctx, id); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

// ==================== Back office: variants ====================

// CreateVariant
// POST /api/admin/products/:id/variants
func (c *CatalogController) CreateVariant(ctx *gin.Context) {
	productID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.VariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.CreateVariant(ctx, productID, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// UpdateVariant
// PUT /api/admin/variants/:id
func (c *CatalogController) UpdateVariant(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.VariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.UpdateVariant(ctx, id, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// DeleteVariant
// DELETE /api/admin/variants/:id
func (c *CatalogController) DeleteVariant(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.svc.DeleteVariant(ctx, id); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

// ==================== Back office: images ====================

// UploadImage stores a multipart image upload and attaches it to the product
// POST /api/admin/products/:id/images
func (c *CatalogController) UploadImage(ctx *gin.Context) {
	productID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if c.storage == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes+1))
	if err != nil {
		fail(ctx, err)
		return
	}
	if len(data) > maxImageUploadBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 5MB"})
		return
	}

	url, err := c.storage.Upload(ctx, data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		fail(ctx, err)
		return
	}

	vo, err := c.svc.AttachImage(ctx, productID, &dto.ImageRequest{
		URL:       url,
		AltText:   ctx.PostForm("alt_text"),
		IsPrimary: ctx.PostForm("is_primary") == "true",
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// AttachImage records an already-hosted image URL against the product
// POST /api/admin/products/:id/images/attach
func (c *CatalogController) AttachImage(ctx *gin.Context) {
	productID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ImageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vo, err := c.svc.AttachImage(ctx, productID, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// SetPrimaryImage promotes an image; siblings lose the flag atomically
// POST /api/admin/products/:id/images/:imageId/primary
func (c *CatalogController) SetPrimaryImage(ctx *gin.Context) {
	productID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(ctx, "imageId")
	if !ok {
		return
	}

	vo, err := c.svc.SetPrimaryImage(ctx, productID, imageID)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// DeleteImage removes an image record (and the blob when storage is wired)
// DELETE /api/admin/products/:id/images/:imageId
func (c *CatalogController) DeleteImage(ctx *gin.Context) {
	productID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(ctx, "imageId")
	if !ok {
		return
	}

	if err := c.svc.DeleteImage(ctx, productID, imageID); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "deleted"})
}
