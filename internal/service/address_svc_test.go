package service

import (
	"context"
	"errors"
	"testing"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"gorm.io/gorm"
)

func newAddressFixture(t *testing.T) (*gorm.DB, *AddressService) {
	t.Helper()
	db := setupTestDB(t)
	return db, NewAddressService(repository.NewAddressRepository(db))
}

// loadAddress reloads a row into a fresh struct; reusing one across First
// calls would keep the previous primary key in the query conditions.
func loadAddress(t *testing.T, db *gorm.DB, id int64) *model.Address {
	t.Helper()
	var got model.Address
	if err := db.First(&got, id).Error; err != nil {
		t.Fatalf("load address %d: %v", id, err)
	}
	return &got
}

func addressReq(name string, isDefault bool) *dto.AddressRequest {
	return &dto.AddressRequest{
		Type:      model.AddressTypeShipping,
		FullName:  name,
		Phone:     "0501234567",
		Street:    "Olaya St",
		IsDefault: isDefault,
	}
}

func TestAddressDefaults(t *testing.T) {
	db, svc := newAddressFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, addressReq("Home", true))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, 1, addressReq("Office", true))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	// promoting the second must clear the first, atomically
	var defaults int64
	db.Model(&model.Address{}).
		Where("user_id = ? AND type = ? AND is_default = ?", 1, model.AddressTypeShipping, true).
		Count(&defaults)
	if defaults != 1 {
		t.Fatalf("default count = %d, want exactly 1", defaults)
	}
	if loadAddress(t, db, first.ID).IsDefault {
		t.Error("first address still default after second was promoted")
	}

	// billing default lives independently of shipping default
	billing := addressReq("Billing", true)
	billing.Type = model.AddressTypeBilling
	if _, err := svc.Create(ctx, 1, billing); err != nil {
		t.Fatalf("create billing: %v", err)
	}
	if !loadAddress(t, db, second.ID).IsDefault {
		t.Error("shipping default lost when billing default was created")
	}
}

func TestAddressSetDefault(t *testing.T) {
	db, svc := newAddressFixture(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, 1, addressReq("A", true))
	b, _ := svc.Create(ctx, 1, addressReq("B", false))

	if _, err := svc.SetDefault(ctx, 1, b.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}

	if loadAddress(t, db, a.ID).IsDefault {
		t.Error("old default not cleared")
	}
	if !loadAddress(t, db, b.ID).IsDefault {
		t.Error("new default not set")
	}
}

func TestAddressOwnership(t *testing.T) {
	_, svc := newAddressFixture(t)
	ctx := context.Background()

	mine, _ := svc.Create(ctx, 1, addressReq("Mine", false))

	if _, err := svc.Update(ctx, 2, mine.ID, addressReq("Stolen", false)); !errors.Is(err, ErrAddressNotFound) {
		t.Errorf("cross-user update = %v, want ErrAddressNotFound", err)
	}
	if err := svc.Delete(ctx, 2, mine.ID); !errors.Is(err, ErrAddressNotFound) {
		t.Errorf("cross-user delete = %v, want ErrAddressNotFound", err)
	}
	if err := svc.Delete(ctx, 1, mine.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestAddressValidation(t *testing.T) {
	_, svc := newAddressFixture(t)
	ctx := context.Background()

	bad := addressReq("X", false)
	bad.Type = "warehouse"
	if _, err := svc.Create(ctx, 1, bad); !errors.Is(err, ErrInvalidAddressType) {
		t.Errorf("bad type = %v, want ErrInvalidAddressType", err)
	}

	bad = addressReq("X", false)
	bad.Street = " "
	if _, err := svc.Create(ctx, 1, bad); !errors.Is(err, ErrAddressIncomplete) {
		t.Errorf("blank street = %v, want ErrAddressIncomplete", err)
	}

	bad = addressReq("X", false)
	bad.Phone = "letters"
	if _, err := svc.Create(ctx, 1, bad); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("bad phone = %v, want ErrInvalidPhone", err)
	}

	// defaults fill in for the Saudi storefront
	vo, err := svc.Create(ctx, 1, addressReq("Y", false))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if vo.Country != "Saudi Arabia" || vo.City != "Riyadh" {
		t.Errorf("country/city defaults = %q/%q", vo.Country, vo.City)
	}
}

func TestAddressListOrder(t *testing.T) {
	_, svc := newAddressFixture(t)
	ctx := context.Background()

	svc.Create(ctx, 1, addressReq("First", false))
	svc.Create(ctx, 1, addressReq("Default", true))

	list, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if !list[0].IsDefault {
		t.Error("default address should come first")
	}
}
