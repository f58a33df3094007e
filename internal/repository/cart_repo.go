package repository

import (
	"context"
	"errors"
	"time"

	"souq_dev_v1/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== CartRepository ====================

// CartRepository cart and cart-line persistence. Mutating operations on one
// cart are serialized by locking the cart row; see Locked.
type CartRepository interface {
	GetOrCreateByUser(ctx context.Context, userID int64) (*model.Cart, error)
	GetOrCreateBySession(ctx context.Context, sessionKey string) (*model.Cart, error)

	// Locked runs fn inside a transaction holding a row lock on the cart,
	// so concurrent mutations of the same cart serialize while unrelated
	// carts are untouched.
	Locked(ctx context.Context, cartID int64, fn func(tx *gorm.DB) error) error

	GetItem(ctx context.Context, cartID, itemID int64) (*model.CartItem, error)
	ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error)
	ItemCount(ctx context.Context, cartID int64) (int, error)

	DeleteStaleAnonymous(ctx context.Context, before time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates the cart repository
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetOrCreateByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{UserID: &userID}
		err = r.db.WithContext(ctx).Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetOrCreateBySession(ctx context.Context, sessionKey string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL AND session_key = ?", sessionKey).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{SessionKey: sessionKey}
		err = r.db.WithContext(ctx).Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Locked(ctx context.Context, cartID int64, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := tx
		// sqlite (tests) has no SELECT ... FOR UPDATE; its transactions
		// already serialize writers.
		if tx.Dialector.Name() == "postgres" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var cart model.Cart
		if err := locked.First(&cart, cartID).Error; err != nil {
			return err
		}
		return fn(tx)
	})
}

func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID int64) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Preload("Variant.Product").
		Where("cart_id = ?", cartID).
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Preload("Variant").
		Preload("Variant.Product").
		Preload("Variant.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		}).
		Where("cart_id = ?", cartID).
		Order("updated_at DESC, created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *cartRepository) ItemCount(ctx context.Context, cartID int64) (int, error) {
	var count *int
	err := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("SUM(quantity)").
		Scan(&count).Error
	if err != nil || count == nil {
		return 0, err
	}
	return *count, nil
}

func (r *cartRepository) DeleteStaleAnonymous(ctx context.Context, before time.Time) (int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("user_id IS NULL AND updated_at < ?", before).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id IN ?", ids).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Cart{}).Error
	})
	return int64(len(ids)), err
}
