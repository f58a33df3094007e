package controller

import (
	"net/http"
	"strconv"

	"souq_dev_v1/internal/api/dto"
	"souq_dev_v1/internal/middleware"
	"souq_dev_v1/internal/repository"
	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthController signup, login and profile endpoints
type AuthController struct {
	svc *service.UserService
}

// NewAuthController creates the auth controller
func NewAuthController(svc *service.UserService) *AuthController {
	return &AuthController{svc: svc}
}

// Signup creates an account and logs it in
// POST /api/auth/signup
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.Signup(ctx, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": resp})
}

// Login authenticates by username, email or phone
// POST /api/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.Login(ctx, &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// Refresh exchanges a refresh token for a new pair
// POST /api/auth/refresh
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.svc.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": resp})
}

// Logout acknowledges a logout. Tokens are stateless; the client discards
// its pair and the cart session cookie survives for the anonymous cart.
// POST /api/auth/logout
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the authenticated account
// GET /api/auth/me
func (c *AuthController) Me(ctx *gin.Context) {
	info, err := c.svc.GetUserInfo(ctx, middleware.GetUserID(ctx))
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": info})
}

// UpdateProfile edits the authenticated account's profile
// PUT /api/auth/me
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := c.svc.UpdateProfile(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": info})
}

// ChangePassword verifies the old password and sets a new one
// POST /api/auth/change-password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.svc.ChangePassword(ctx, middleware.GetUserID(ctx), req.OldPassword, req.NewPassword); err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": "password changed"})
}

// ListUsers back-office account listing
// GET /api/admin/users
func (c *AuthController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	list, total, err := c.svc.ListUsers(ctx, repository.UserFilter{
		Keyword:  ctx.Query("q"),
		Role:     ctx.Query("role"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"total": total, "list": list}})
}
