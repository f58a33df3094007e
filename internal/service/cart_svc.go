package service

import (
	"context"
	"errors"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

// Quantity bounds for a cart line.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 999
)

// CartService cart resolution and line mutations. All mutations run inside a
// transaction holding a row lock on the cart, so concurrent requests against
// the same cart serialize.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates the cart service
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// ==================== Resolution ====================

// Resolve returns the caller's cart: the user's own cart when authenticated,
// otherwise the anonymous cart bound to the session key.
func (s *CartService) Resolve(ctx context.Context, userID int64, sessionKey string) (*model.Cart, error) {
	if userID > 0 {
		return s.cartRepo.GetOrCreateByUser(ctx, userID)
	}
	if sessionKey == "" {
		return nil, ErrNoCartSession
	}
	return s.cartRepo.GetOrCreateBySession(ctx, sessionKey)
}

// ==================== Add ====================

// AddItem adds quantity of a product or variant (exactly one of the two) to
// the cart, merging into an existing line for the same target. The merged
// quantity is checked against stock as a whole: the add either fully applies
// or is rejected.
func (s *CartService) AddItem(ctx context.Context, cart *model.Cart, productID, variantID *int64, quantity int) (*dto.CartCountResponse, error) {
	if (productID == nil) == (variantID == nil) {
		return nil, ErrCartTargetRequired
	}
	if quantity < MinCartQuantity || quantity > MaxCartQuantity {
		return nil, ErrInvalidQuantity
	}

	line, err := s.loadLineTarget(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}
	if !line.active {
		return nil, ErrItemUnavailable
	}

	err = s.cartRepo.Locked(ctx, cart.ID, func(tx *gorm.DB) error {
		if err := s.checkCurrency(tx, cart.ID, line.currency); err != nil {
			return err
		}

		var existing model.CartItem
		query := tx.Where("cart_id = ?", cart.ID)
		if productID != nil {
			query = query.Where("product_id = ?", *productID)
		} else {
			query = query.Where("variant_id = ?", *variantID)
		}
		findErr := query.First(&existing).Error
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		merged := quantity
		if findErr == nil {
			merged += existing.Quantity
		}
		if merged > MaxCartQuantity {
			return ErrInvalidQuantity
		}
		if line.trackInventory {
			if line.stock == 0 {
				return ErrItemUnavailable
			}
			if merged > line.stock {
				return ErrInsufficientStock
			}
		}

		if findErr == nil {
			return tx.Model(&existing).Update("quantity", merged).Error
		}
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  merged,
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}

	count, err := s.cartRepo.ItemCount(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CartCountResponse{OK: true, CartCount: count}, nil
}

// checkCurrency rejects a line whose currency differs from the cart's
// existing lines. Mixed-currency carts would make the subtotal meaningless.
func (s *CartService) checkCurrency(tx *gorm.DB, cartID int64, currency string) error {
	var items []model.CartItem
	err := tx.Preload("Product").Preload("Variant").
		Where("cart_id = ?", cartID).Limit(1).Find(&items).Error
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	if lineFromItem(&items[0]).currency != currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// ==================== Update ====================

// UpdateItem sets a line's quantity. Unlike add, an over-stock request is not
// rejected: the quantity clamps down to the available stock and the caller is
// told about the adjustment. A line whose item has zero stock is left
// untouched and reported as out of stock.
func (s *CartService) UpdateItem(ctx context.Context, cart *model.Cart, itemID int64, quantity int) (*dto.CartUpdateResponse, error) {
	if quantity < MinCartQuantity || quantity > MaxCartQuantity {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	line := lineFromItem(item)

	resp := &dto.CartUpdateResponse{OK: true}
	err = s.cartRepo.Locked(ctx, cart.ID, func(tx *gorm.DB) error {
		final := quantity
		if line.trackInventory {
			if line.stock == 0 {
				resp.OK = false
				resp.OutOfStock = true
				resp.Message = "This item is out of stock. Please remove it from your cart."
				final = item.Quantity // line unchanged
				return nil
			}
			if final > line.stock {
				final = line.stock
				resp.Adjusted = true
				resp.Message = "Quantity adjusted to available stock."
			}
		}
		if final != item.Quantity {
			if err := tx.Model(&model.CartItem{}).Where("id = ?", item.ID).
				Update("quantity", final).Error; err != nil {
				return err
			}
		}
		item.Quantity = final
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.fillCartTotals(ctx, cart.ID, resp); err != nil {
		return nil, err
	}
	if !resp.OutOfStock {
		resp.Item = &dto.UpdatedItem{
			ID:        item.ID,
			Quantity:  item.Quantity,
			LineTotal: model.FormatAmount(line.unitPrice * int64(item.Quantity)),
		}
	}
	return resp, nil
}

// ==================== Remove ====================

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cart *model.Cart, itemID int64) (*dto.CartUpdateResponse, error) {
	item, err := s.cartRepo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	err = s.cartRepo.Locked(ctx, cart.ID, func(tx *gorm.DB) error {
		return tx.Delete(&model.CartItem{}, item.ID).Error
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CartUpdateResponse{OK: true}
	if err := s.fillCartTotals(ctx, cart.ID, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ==================== Read ====================

// Summary returns just the badge count.
func (s *CartService) Summary(ctx context.Context, cart *model.Cart) (*dto.CartCountResponse, error) {
	count, err := s.cartRepo.ItemCount(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CartCountResponse{OK: true, CartCount: count}, nil
}

// Detail returns the rendered cart with per-line and total amounts.
func (s *CartService) Detail(ctx context.Context, cart *model.Cart) (*dto.CartDetailResponse, error) {
	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CartDetailResponse{
		OK:       true,
		Items:    make([]dto.CartItemRow, 0, len(items)),
		Currency: "SAR",
	}
	var subtotal int64
	for i := range items {
		item := &items[i]
		line := lineFromItem(item)
		lineTotal := line.unitPrice * int64(item.Quantity)
		subtotal += lineTotal
		resp.CartCount += item.Quantity
		resp.Currency = line.currency
		resp.Items = append(resp.Items, dto.CartItemRow{
			ID:        item.ID,
			Title:     line.title,
			ImageURL:  line.imageURL,
			Quantity:  item.Quantity,
			UnitPrice: model.FormatAmount(line.unitPrice),
			LineTotal: model.FormatAmount(lineTotal),
			SKU:       line.sku,
			IsVariant: item.IsVariant(),
		})
	}
	resp.Subtotal = model.FormatAmount(subtotal)
	return resp, nil
}

func (s *CartService) fillCartTotals(ctx context.Context, cartID int64, resp *dto.CartUpdateResponse) error {
	detail, err := s.Detail(ctx, &model.Cart{ID: cartID})
	if err != nil {
		return err
	}
	resp.CartCount = detail.CartCount
	resp.Subtotal = detail.Subtotal
	resp.Currency = detail.Currency
	return nil
}

// ==================== Line target ====================

// cartLine normalized view over the product-or-variant a line points at.
type cartLine struct {
	title          string
	sku            string
	imageURL       string
	currency       string
	unitPrice      int64
	trackInventory bool
	stock          int
	active         bool
}

func (s *CartService) loadLineTarget(ctx context.Context, productID, variantID *int64) (*cartLine, error) {
	if variantID != nil {
		variant, err := s.productRepo.GetVariantByID(ctx, *variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrItemNotFound
			}
			return nil, err
		}
		return lineFromVariant(variant), nil
	}

	product, err := s.productRepo.GetByID(ctx, *productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return lineFromProduct(product), nil
}

func lineFromItem(item *model.CartItem) *cartLine {
	if item.Variant != nil {
		return lineFromVariant(item.Variant)
	}
	if item.Product != nil {
		return lineFromProduct(item.Product)
	}
	// Target row deleted from the catalog after the line was created.
	return &cartLine{title: "(removed)", currency: "SAR", trackInventory: true}
}

func lineFromProduct(p *model.Product) *cartLine {
	return &cartLine{
		title:          p.Name,
		imageURL:       p.PrimaryImageURL(),
		currency:       p.Currency,
		unitPrice:      p.PriceAmount,
		trackInventory: p.TrackInventory,
		stock:          p.StockQuantity,
		active:         p.IsActive,
	}
}

func lineFromVariant(v *model.ProductVariant) *cartLine {
	line := &cartLine{
		title:          v.Label(),
		sku:            v.SKU,
		currency:       v.Currency,
		unitPrice:      v.PriceAmount,
		trackInventory: v.TrackInventory,
		stock:          v.StockQuantity,
		active:         v.IsActive,
	}
	if v.Product != nil {
		line.title = v.Product.Name + " - " + v.Label()
		line.imageURL = v.Product.PrimaryImageURL()
		if !v.Product.IsActive {
			line.active = false
		}
	}
	return line
}

// ==================== Errors ====================

var (
	ErrNoCartSession      = errors.New("no cart session")
	ErrCartTargetRequired = errors.New("exactly one of product or variant must be provided")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and 999")
	ErrItemNotFound       = errors.New("item not found")
	ErrItemUnavailable    = errors.New("this item is unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock for the requested quantity")
	ErrCurrencyMismatch   = errors.New("cart lines must share one currency")
	ErrCartItemNotFound   = errors.New("cart item not found")
)
