package dto

import "time"

// ==================== Requests ====================

// SignupRequest storefront signup form
type SignupRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Password1 string `json:"password1" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
	Marketing bool   `json:"marketing"`
}

// LoginRequest identifier is username, email or phone
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchange a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest authenticated password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfileRequest profile fields the customer may edit
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Marketing *bool   `json:"marketing"`
}

// AddressRequest create/update a shipping or billing address
type AddressRequest struct {
	Type       string `json:"type"`
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	City       string `json:"city"`
	District   string `json:"district"`
	Street     string `json:"street" binding:"required"`
	BuildingNo string `json:"building_no"`
	PostalCode string `json:"postal_code"`
	IsDefault  bool   `json:"is_default"`
}

// ==================== Responses ====================

// UserInfo public view of an account
type UserInfo struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Marketing   bool       `json:"marketing"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse token pair plus the account
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// AddressVO address view
type AddressVO struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone,omitempty"`
	Country    string `json:"country"`
	City       string `json:"city"`
	District   string `json:"district,omitempty"`
	Street     string `json:"street"`
	BuildingNo string `json:"building_no,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	IsDefault  bool   `json:"is_default"`
}
