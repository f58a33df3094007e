package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/model"
	"souq_dev_v1/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// phoneRe accepts an optional leading + followed by 8-15 digits.
var phoneRe = regexp.MustCompile(`^\+?\d{8,15}$`)

// UserService accounts, authentication and profiles
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates the user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ==================== Signup ====================

// Signup validates the form, creates the account with its profile in one
// transaction and returns a logged-in auth response.
func (s *UserService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if err := s.validateSignup(ctx, req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	firstName, lastName := splitFullName(req.FullName)
	user := &model.User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      model.UserRoleCustomer,
		IsActive:  true,
	}
	profile := &model.CustomerProfile{
		Phone:            strings.TrimSpace(req.Phone),
		IsMarketingOptIn: req.Marketing,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		// Concurrent signup can slip past the existence checks; the unique
		// indexes are the source of truth.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountConflict
		}
		return nil, err
	}
	user.Profile = profile

	return s.buildAuthResponse(user)
}

func (s *UserService) validateSignup(ctx context.Context, req *dto.SignupRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return ErrFullNameRequired
	}
	if strings.TrimSpace(req.Username) == "" {
		return ErrUsernameRequired
	}
	if !strings.Contains(req.Email, "@") {
		return ErrInvalidEmail
	}
	if req.Phone != "" && !phoneRe.MatchString(strings.TrimSpace(req.Phone)) {
		return ErrInvalidPhone
	}
	if len(req.Password1) < 8 {
		return ErrPasswordTooShort
	}
	if req.Password1 != req.Password2 {
		return ErrPasswordMismatch
	}

	if exists, err := s.userRepo.ExistsByUsername(ctx, req.Username); err != nil {
		return err
	} else if exists {
		return ErrAccountConflict
	}
	if exists, err := s.userRepo.ExistsByEmail(ctx, req.Email); err != nil {
		return err
	} else if exists {
		return ErrAccountConflict
	}
	return nil
}

// splitFullName splits a display name into first/last on the final space.
func splitFullName(fullName string) (string, string) {
	name := strings.Join(strings.Fields(fullName), " ")
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// ==================== Login ====================

// Login authenticates by username, email or phone. The identifier kind is
// inferred: contains "@" -> email, digits with optional + -> phone,
// otherwise username.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)

	var user *model.User
	var err error
	switch {
	case strings.Contains(identifier, "@"):
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	case phoneRe.MatchString(identifier):
		user, err = s.userRepo.GetByPhone(ctx, identifier)
	default:
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	// Reload with profile for the response payload.
	user, err = s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(user)
}

// RefreshToken exchanges a valid refresh token for a new pair.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.buildAuthResponse(user)
}

func (s *UserService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(middleware.GetJWTConfig().AccessTokenTTL),
		User:         buildUserInfo(user),
	}, nil
}

// ==================== Profile ====================

// GetUserInfo returns the public view of an account.
func (s *UserService) GetUserInfo(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdateProfile applies the provided fields; nil pointers leave the current
// value untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Phone != nil || req.Marketing != nil {
		profile, err := s.userRepo.GetProfile(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			profile = &model.CustomerProfile{UserID: userID}
		}
		if req.Phone != nil {
			phone := strings.TrimSpace(*req.Phone)
			if phone != "" && !phoneRe.MatchString(phone) {
				return nil, ErrInvalidPhone
			}
			profile.Phone = phone
		}
		if req.Marketing != nil {
			profile.IsMarketingOptIn = *req.Marketing
		}
		if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
			return nil, err
		}
		user.Profile = profile
	}

	return buildUserInfo(user), nil
}

// ChangePassword verifies the old password before setting the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, string(hashed))
}

// ListUsers back-office user listing
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]dto.UserInfo, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *buildUserInfo(&users[i]))
	}
	return infos, total, nil
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName(),
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
	if user.Profile != nil {
		info.Phone = user.Profile.Phone
		info.Marketing = user.Profile.IsMarketingOptIn
	}
	return info
}

// ==================== Errors ====================

var (
	ErrFullNameRequired   = errors.New("full name is required")
	ErrUsernameRequired   = errors.New("username is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrAccountConflict    = errors.New("an account with this username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)
