package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/commerce-core/internal/apperrors"
	"github.com/shoplite/commerce-core/internal/dto"
)

// respondError maps the usecase error taxonomy onto HTTP statuses. Balance
// and inventory shortfalls include the actual figures so the caller can
// retry, prompt, or adjust quantity.
func respondError(c *gin.Context, message string, err error) {
	var validationErr *apperrors.ValidationError
	var balanceErr *apperrors.InsufficientBalanceError
	var inventoryErr *apperrors.InsufficientInventoryError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: message,
			Error:   validationErr.Error(),
		})
	case errors.As(err, &balanceErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: message,
			Error:   balanceErr.Error(),
			Detail: gin.H{
				"balance":   balanceErr.Balance,
				"requested": balanceErr.Requested,
			},
		})
	case errors.As(err, &inventoryErr):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Success: false,
			Message: message,
			Error:   inventoryErr.Error(),
			Detail: gin.H{
				"requested": inventoryErr.Requested,
				"available": inventoryErr.Available,
			},
		})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Success: false,
			Message: message,
			Error:   err.Error(),
		})
	case apperrors.IsInvalidState(err), apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Success: false,
			Message: message,
			Error:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Success: false,
			Message: message,
			Error:   err.Error(),
		})
	}
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Success: false,
		Message: "Caller identity missing",
		Error:   "identity context not resolved",
	})
}
