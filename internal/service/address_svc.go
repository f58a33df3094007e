package service

import (
	"context"
	"errors"
	"strings"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

// AddressService customer address book
type AddressService struct {
	addressRepo repository.AddressRepository
}

// NewAddressService creates the address service
func NewAddressService(addressRepo repository.AddressRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo}
}

// Create adds an address for the user. When it is flagged default, other
// addresses of the same type lose the flag in the same transaction.
func (s *AddressService) Create(ctx context.Context, userID int64, req *dto.AddressRequest) (*dto.AddressVO, error) {
	addr := &model.Address{UserID: userID}
	applyAddressRequest(addr, req)
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	if err := s.addressRepo.Save(ctx, addr); err != nil {
		return nil, err
	}
	return buildAddressVO(addr), nil
}

// Update edits one of the user's addresses.
func (s *AddressService) Update(ctx context.Context, userID, addressID int64, req *dto.AddressRequest) (*dto.AddressVO, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	applyAddressRequest(addr, req)
	if err := validateAddress(addr); err != nil {
		return nil, err
	}
	if err := s.addressRepo.Save(ctx, addr); err != nil {
		return nil, err
	}
	return buildAddressVO(addr), nil
}

// SetDefault promotes the address to the default of its type.
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID int64) (*dto.AddressVO, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	addr.IsDefault = true
	if err := s.addressRepo.Save(ctx, addr); err != nil {
		return nil, err
	}
	return buildAddressVO(addr), nil
}

// Delete removes one of the user's addresses.
func (s *AddressService) Delete(ctx context.Context, userID, addressID int64) error {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, addr.ID)
}

// List returns the user's addresses, defaults first.
func (s *AddressService) List(ctx context.Context, userID int64) ([]dto.AddressVO, error) {
	addrs, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.AddressVO, 0, len(addrs))
	for i := range addrs {
		vos = append(vos, *buildAddressVO(&addrs[i]))
	}
	return vos, nil
}

// DefaultShipping returns the user's default shipping address, or nil.
func (s *AddressService) DefaultShipping(ctx context.Context, userID int64) (*model.Address, error) {
	addr, err := s.addressRepo.GetDefault(ctx, userID, model.AddressTypeShipping)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return addr, err
}

// ownedAddress loads the address and checks ownership.
func (s *AddressService) ownedAddress(ctx context.Context, userID, addressID int64) (*model.Address, error) {
	addr, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if addr.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return addr, nil
}

func applyAddressRequest(addr *model.Address, req *dto.AddressRequest) {
	addr.Type = req.Type
	if addr.Type == "" {
		addr.Type = model.AddressTypeShipping
	}
	addr.FullName = strings.TrimSpace(req.FullName)
	addr.Phone = strings.TrimSpace(req.Phone)
	addr.Country = req.Country
	if addr.Country == "" {
		addr.Country = "Saudi Arabia"
	}
	addr.City = req.City
	if addr.City == "" {
		addr.City = "Riyadh"
	}
	addr.District = req.District
	addr.Street = strings.TrimSpace(req.Street)
	addr.BuildingNo = req.BuildingNo
	addr.PostalCode = req.PostalCode
	addr.IsDefault = req.IsDefault
}

func validateAddress(addr *model.Address) error {
	if addr.Type != model.AddressTypeShipping && addr.Type != model.AddressTypeBilling {
		return ErrInvalidAddressType
	}
	if addr.FullName == "" || addr.Street == "" {
		return ErrAddressIncomplete
	}
	if addr.Phone != "" && !phoneRe.MatchString(addr.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

func buildAddressVO(addr *model.Address) *dto.AddressVO {
	return &dto.AddressVO{
		ID:         addr.ID,
		Type:       addr.Type,
		FullName:   addr.FullName,
		Phone:      addr.Phone,
		Country:    addr.Country,
		City:       addr.City,
		District:   addr.District,
		Street:     addr.Street,
		BuildingNo: addr.BuildingNo,
		PostalCode: addr.PostalCode,
		IsDefault:  addr.IsDefault,
	}
}

// ==================== Errors ====================

var (
	ErrAddressNotFound    = errors.New("address not found")
	ErrInvalidAddressType = errors.New("address type must be shipping or billing")
	ErrAddressIncomplete  = errors.New("full name and street are required")
)
