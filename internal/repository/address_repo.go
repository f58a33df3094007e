package repository

import (
	"context"

	"souq_dev_v1/internal/model"

	"gorm.io/gorm"
)

// ==================== AddressRepository ====================

// AddressRepository customer address persistence
type AddressRepository interface {
	// Save writes the address and, when it is flagged default, clears the
	// default flag on the user's other addresses of the same type. Both
	// steps run in one transaction so readers never see two defaults.
	Save(ctx context.Context, addr *model.Address) error

	GetByID(ctx context.Context, id int64) (*model.Address, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Address, error)
	GetDefault(ctx context.Context, userID int64, addrType string) (*model.Address, error)
	Delete(ctx context.Context, id int64) error
}

type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates the address repository
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Save(ctx context.Context, addr *model.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(addr).Error; err != nil {
			return err
		}
		if !addr.IsDefault {
			return nil
		}
		return tx.Model(&model.Address{}).
			Where("user_id = ? AND type = ? AND id <> ?", addr.UserID, addr.Type, addr.ID).
			Update("is_default", false).Error
	})
}

func (r *addressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	var addr model.Address
	err := r.db.WithContext(ctx).First(&addr, id).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID int64) ([]model.Address, error) {
	var addrs []model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, updated_at DESC").
		Find(&addrs).Error
	return addrs, err
}

func (r *addressRepository) GetDefault(ctx context.Context, userID int64, addrType string) (*model.Address, error) {
	var addr model.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND is_default = ?", userID, addrType, true).
		First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (r *addressRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Address{}, id).Error
}
