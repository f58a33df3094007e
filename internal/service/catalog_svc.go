package service

import (
	"context"
	"errors"
	"math"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"
	"souq_dev_v1/pkg/utils"

	"gorm.io/gorm"
)

// CatalogService categories, products, variants and images
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates the catalog service
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, productRepo: productRepo}
}

// toMinorUnits converts a currency-unit price to int64 minor units, rounding
// to the nearest halala.
func toMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// ==================== Categories ====================

// CreateCategory creates a category; the slug derives from the name when the
// form leaves it blank.
func (s *CatalogService) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*dto.CategoryVO, error) {
	category := &model.Category{
		Name:      req.Name,
		Slug:      req.Slug,
		ParentID:  req.ParentID,
		IsActive:  true,
		SortOrder: req.SortOrder,
	}
	if category.Slug == "" {
		category.Slug = utils.SlugOrFallback(req.Name, "category")
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryConflict
		}
		return nil, err
	}
	return buildCategoryVO(category), nil
}

// UpdateCategory edits a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, req *dto.CategoryRequest) (*dto.CategoryVO, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	category.Name = req.Name
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	category.ParentID = req.ParentID
	category.SortOrder = req.SortOrder
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryConflict
		}
		return nil, err
	}
	return buildCategoryVO(category), nil
}

// DeleteCategory removes a category; child categories and products keep
// living with a detached parent (SET NULL).
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListCategories lists categories ordered by sort order then name.
func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryVO, error) {
	categories, err := s.categoryRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.CategoryVO, 0, len(categories))
	for i := range categories {
		vos = append(vos, *buildCategoryVO(&categories[i]))
	}
	return vos, nil
}

func buildCategoryVO(c *model.Category) *dto.CategoryVO {
	return &dto.CategoryVO{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		ParentID:  c.ParentID,
		IsActive:  c.IsActive,
		SortOrder: c.SortOrder,
	}
}

// ==================== Products ====================

// CreateProduct creates a product from the back-office form.
func (s *CatalogService) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*dto.ProductDetail, error) {
	product := &model.Product{
		Name:           req.Name,
		Slug:           req.Slug,
		CategoryID:     req.CategoryID,
		Description:    req.Description,
		IsActive:       true,
		Currency:       req.Currency,
		PriceAmount:    toMinorUnits(req.Price),
		TrackInventory: true,
		StockQuantity:  req.StockQuantity,
		Tags:           req.Tags,
	}
	if product.Slug == "" {
		product.Slug = utils.SlugOrFallback(req.Name, "product")
	}
	if product.Currency == "" {
		product.Currency = "SAR"
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}
	if req.CompareAtPrice != nil {
		amount := toMinorUnits(*req.CompareAtPrice)
		product.CompareAtAmount = &amount
	}
	if product.PriceAmount < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductSlugConflict
		}
		return nil, err
	}
	return buildProductDetail(product), nil
}

// UpdateProduct edits a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*dto.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = req.Name
	if req.Slug != "" {
		product.Slug = req.Slug
	}
	product.CategoryID = req.CategoryID
	product.Description = req.Description
	product.PriceAmount = toMinorUnits(req.Price)
	product.StockQuantity = req.StockQuantity
	product.Tags = req.Tags
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}
	product.CompareAtAmount = nil
	if req.CompareAtPrice != nil {
		amount := toMinorUnits(*req.CompareAtPrice)
		product.CompareAtAmount = &amount
	}
	if product.PriceAmount < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductSlugConflict
		}
		return nil, err
	}
	return buildProductDetail(product), nil
}

// DeleteProduct removes a product with its variants and images.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// GetProduct back-office/storefront detail by id
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*dto.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return buildProductDetail(product), nil
}

// GetProductBySlug storefront detail by slug; inactive products stay hidden.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*dto.ProductDetail, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	variants, err := s.productRepo.ListVariants(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	return buildProductDetail(product), nil
}

// ListProducts paged product cards.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]dto.ProductCard, int64, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cards := make([]dto.ProductCard, 0, len(products))
	for i := range products {
		cards = append(cards, *buildProductCard(&products[i]))
	}
	return cards, total, nil
}

// Home storefront landing data: active categories plus featured and latest
// products.
func (s *CatalogService) Home(ctx context.Context) (map[string]interface{}, error) {
	categories, err := s.ListCategories(ctx, true)
	if err != nil {
		return nil, err
	}

	featured := true
	featuredCards, _, err := s.ListProducts(ctx, repository.ProductFilter{
		ActiveOnly: true,
		Featured:   &featured,
		PageSize:   8,
	})
	if err != nil {
		return nil, err
	}

	latestCards, _, err := s.ListProducts(ctx, repository.ProductFilter{
		ActiveOnly: true,
		PageSize:   12,
	})
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"categories": categories,
		"featured":   featuredCards,
		"latest":     latestCards,
	}, nil
}

// ==================== Variants ====================

// CreateVariant adds a variant under a product.
func (s *CatalogService) CreateVariant(ctx context.Context, productID int64, req *dto.VariantRequest) (*dto.VariantVO, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variant := &model.ProductVariant{
		ProductID:      product.ID,
		SKU:            req.SKU,
		Title:          req.Title,
		IsActive:       true,
		Currency:       req.Currency,
		PriceAmount:    toMinorUnits(req.Price),
		TrackInventory: true,
		StockQuantity:  req.StockQuantity,
		Color:          req.Color,
		Size:           req.Size,
	}
	if variant.Currency == "" {
		variant.Currency = product.Currency
	}
	if req.IsActive != nil {
		variant.IsActive = *req.IsActive
	}
	if req.TrackInventory != nil {
		variant.TrackInventory = *req.TrackInventory
	}
	if req.CompareAtPrice != nil {
		amount := toMinorUnits(*req.CompareAtPrice)
		variant.CompareAtAmount = &amount
	}
	if variant.PriceAmount < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.productRepo.CreateVariant(ctx, variant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVariantConflict
		}
		return nil, err
	}
	return buildVariantVO(variant), nil
}

// UpdateVariant edits a variant.
func (s *CatalogService) UpdateVariant(ctx context.Context, variantID int64, req *dto.VariantRequest) (*dto.VariantVO, error) {
	variant, err := s.productRepo.GetVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	variant.SKU = req.SKU
	variant.Title = req.Title
	variant.PriceAmount = toMinorUnits(req.Price)
	variant.StockQuantity = req.StockQuantity
	variant.Color = req.Color
	variant.Size = req.Size
	if req.Currency != "" {
		variant.Currency = req.Currency
	}
	if req.IsActive != nil {
		variant.IsActive = *req.IsActive
	}
	if req.TrackInventory != nil {
		variant.TrackInventory = *req.TrackInventory
	}
	variant.CompareAtAmount = nil
	if req.CompareAtPrice != nil {
		amount := toMinorUnits(*req.CompareAtPrice)
		variant.CompareAtAmount = &amount
	}
	if variant.PriceAmount < 0 {
		return nil, ErrNegativePrice
	}

	if err := s.productRepo.UpdateVariant(ctx, variant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVariantConflict
		}
		return nil, err
	}
	return buildVariantVO(variant), nil
}

// DeleteVariant removes a variant.
func (s *CatalogService) DeleteVariant(ctx context.Context, variantID int64) error {
	if _, err := s.productRepo.GetVariantByID(ctx, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}
	return s.productRepo.DeleteVariant(ctx, variantID)
}

// ==================== Images ====================

// AttachImage records an uploaded image URL against a product. When flagged
// primary, sibling flags clear in the same transaction.
func (s *CatalogService) AttachImage(ctx context.Context, productID int64, req *dto.ImageRequest) (*dto.ImageVO, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	image := &model.ProductImage{
		ProductID: productID,
		URL:       req.URL,
		AltText:   req.AltText,
		IsPrimary: req.IsPrimary,
		SortOrder: req.SortOrder,
	}
	if err := s.productRepo.SaveImage(ctx, image); err != nil {
		return nil, err
	}
	return buildImageVO(image), nil
}

// SetPrimaryImage promotes an image to primary.
func (s *CatalogService) SetPrimaryImage(ctx context.Context, productID, imageID int64) (*dto.ImageVO, error) {
	image, err := s.productRepo.GetImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	if image.ProductID != productID {
		return nil, ErrImageNotFound
	}
	image.IsPrimary = true
	if err := s.productRepo.SaveImage(ctx, image); err != nil {
		return nil, err
	}
	return buildImageVO(image), nil
}

// DeleteImage removes an image record.
func (s *CatalogService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	image, err := s.productRepo.GetImageByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if image.ProductID != productID {
		return ErrImageNotFound
	}
	return s.productRepo.DeleteImage(ctx, imageID)
}

// ==================== View builders ====================

func buildProductCard(p *model.Product) *dto.ProductCard {
	card := &dto.ProductCard{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		Currency:   p.Currency,
		Price:      model.FormatAmount(p.PriceAmount),
		ImageURL:   p.PrimaryImageURL(),
		IsFeatured: p.IsFeatured,
		InStock:    !p.TrackInventory || p.StockQuantity > 0,
		Tags:       p.Tags,
	}
	if p.Category != nil {
		card.Category = p.Category.Name
	}
	if p.CompareAtAmount != nil {
		card.CompareAtPrice = model.FormatAmount(*p.CompareAtAmount)
	}
	return card
}

func buildProductDetail(p *model.Product) *dto.ProductDetail {
	detail := &dto.ProductDetail{
		ProductCard:    *buildProductCard(p),
		Description:    p.Description,
		TrackInventory: p.TrackInventory,
		StockQuantity:  p.StockQuantity,
		IsActive:       p.IsActive,
		Variants:       make([]dto.VariantVO, 0, len(p.Variants)),
		Images:         make([]dto.ImageVO, 0, len(p.Images)),
	}
	for i := range p.Variants {
		detail.Variants = append(detail.Variants, *buildVariantVO(&p.Variants[i]))
	}
	for i := range p.Images {
		detail.Images = append(detail.Images, *buildImageVO(&p.Images[i]))
	}
	return detail
}

func buildVariantVO(v *model.ProductVariant) *dto.VariantVO {
	return &dto.VariantVO{
		ID:            v.ID,
		SKU:           v.SKU,
		Title:         v.Title,
		IsActive:      v.IsActive,
		Currency:      v.Currency,
		Price:         model.FormatAmount(v.PriceAmount),
		StockQuantity: v.StockQuantity,
		Color:         v.Color,
		Size:          v.Size,
	}
}

func buildImageVO(img *model.ProductImage) *dto.ImageVO {
	return &dto.ImageVO{
		ID:        img.ID,
		URL:       img.URL,
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
		SortOrder: img.SortOrder,
	}
}

// ==================== Errors ====================

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryConflict    = errors.New("a category with this name or slug already exists")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductSlugConflict = errors.New("a product with this slug already exists")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrVariantConflict     = errors.New("a variant with this SKU or title already exists")
	ErrImageNotFound       = errors.New("image not found")
	ErrNegativePrice       = errors.New("price cannot be negative")
)
