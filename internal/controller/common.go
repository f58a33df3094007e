package controller

import (
	"errors"
	"net/http"
	"strconv"

	"souq_dev_v1/internal/service"

	"github.com/gin-gonic/gin"
)

// notFoundErrs service errors surfaced as HTTP 404
var notFoundErrs = []error{
	service.ErrUserNotFound,
	service.ErrAddressNotFound,
	service.ErrCategoryNotFound,
	service.ErrProductNotFound,
	service.ErrVariantNotFound,
	service.ErrImageNotFound,
	service.ErrItemNotFound,
	service.ErrCartItemNotFound,
	service.ErrOrderNotFound,
	service.ErrPaymentNotFound,
	service.ErrShipmentNotFound,
}

// conflictErrs service errors surfaced as HTTP 409
var conflictErrs = []error{
	service.ErrAccountConflict,
	service.ErrCategoryConflict,
	service.ErrProductSlugConflict,
	service.ErrVariantConflict,
	service.ErrShipmentExists,
}

// validationErrs service errors surfaced as HTTP 400
var validationErrs = []error{
	service.ErrFullNameRequired,
	service.ErrUsernameRequired,
	service.ErrInvalidEmail,
	service.ErrInvalidPhone,
	service.ErrPasswordTooShort,
	service.ErrPasswordMismatch,
	service.ErrInvalidAddressType,
	service.ErrAddressIncomplete,
	service.ErrNegativePrice,
	service.ErrCartTargetRequired,
	service.ErrInvalidQuantity,
	service.ErrCurrencyMismatch,
	service.ErrEmptyCart,
	service.ErrInvalidOrderStatus,
	service.ErrInvalidPaymentStatus,
	service.ErrInvalidShipmentStatus,
	service.ErrBadDateFilter,
	service.ErrNoTrackingNumber,
	service.ErrTrackingDisabled,
}

// fail maps a service error to its HTTP status and writes the error payload.
func fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case matches(err, notFoundErrs):
		status = http.StatusNotFound
	case matches(err, conflictErrs):
		status = http.StatusConflict
	case matches(err, validationErrs):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrAccountDisabled):
		status = http.StatusUnauthorized
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}

func matches(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// pathID parses the :id (or named) path parameter, failing the request on a
// non-numeric value.
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
