package model

import "time"

// ==================== User roles / status ====================

// UserRole account role
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

// ==================== User ====================

// User storefront account
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"size:150;uniqueIndex;not null"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"size:128;not null"`

	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`

	Role     UserRole `gorm:"size:20;default:customer"`
	IsActive bool     `gorm:"default:true"`

	LastLoginAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Profile   *CustomerProfile `gorm:"foreignKey:UserID"`
	Addresses []Address        `gorm:"foreignKey:UserID"`
}

func (*User) TableName() string {
	return "users"
}

// FullName joined display name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ==================== CustomerProfile ====================

// CustomerProfile 1:1 extension of User (phone, marketing opt-in)
type CustomerProfile struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"uniqueIndex;not null"`

	Phone            string `gorm:"size:20;index"`
	IsMarketingOptIn bool   `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*CustomerProfile) TableName() string {
	return "customer_profiles"
}

// ==================== Address ====================

// AddressType shipping or billing
const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
)

// Address customer shipping/billing address.
// At most one is_default=true per (user, type); the address service enforces
// it by clearing siblings in the same transaction as the save.
type Address struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	UserID int64  `gorm:"index:idx_addresses_user_type;not null"`
	Type   string `gorm:"size:20;index:idx_addresses_user_type;default:shipping"`

	FullName string `gorm:"size:150;not null"`
	Phone    string `gorm:"size:20"`

	Country    string `gorm:"size:80;default:Saudi Arabia"`
	City       string `gorm:"size:80;default:Riyadh"`
	District   string `gorm:"size:120"`
	Street     string `gorm:"size:200;not null"`
	BuildingNo string `gorm:"size:30"`
	PostalCode string `gorm:"size:20"`

	IsDefault bool `gorm:"default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Address) TableName() string {
	return "addresses"
}
