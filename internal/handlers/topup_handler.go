package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/commerce-core/internal/dto"
	"github.com/shoplite/commerce-core/internal/middleware"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/usecases"
	"github.com/shoplite/commerce-core/internal/utils"
)

type TopUpHandler struct {
	topUpUseCase usecases.TopUpUseCase
}

func NewTopUpHandler(topUpUseCase usecases.TopUpUseCase) *TopUpHandler {
	return &TopUpHandler{topUpUseCase: topUpUseCase}
}

// Create godoc
//
//	@Summary		Submit a top-up request
//	@Description	Creates a PENDING top-up request awaiting administrator review
//	@Tags			topups
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateTopUpRequest	true	"Top-up payload"
//	@Success		201	{object}	dto.APIResponse{data=dto.TopUpResponse}
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/topups [post]
func (h *TopUpHandler) Create(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.CreateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	topUp, err := h.topUpUseCase.Create(authCtx, usecases.CreateTopUpInput{
		Amount:        req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		BankID:        req.BankID,
		ReceiptImage:  req.ReceiptImage,
	})
	if err != nil {
		respondError(c, "Failed to create top-up request", err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Message: "Top-up request created successfully",
		Data:    dto.ToTopUpResponse(topUp),
	})
}

// Approve godoc
//
//	@Summary		Approve a pending top-up request (admin)
//	@Description	Flips the request to APPROVED and credits the requester's wallet atomically
//	@Tags			topups
//	@Produce		json
//	@Param			id	path	int	true	"Top-up request ID"
//	@Success		200	{object}	dto.APIResponse{data=dto.TopUpResponse}
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/admin/topups/{id}/approve [post]
func (h *TopUpHandler) Approve(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	topUp, err := h.topUpUseCase.Approve(authCtx, id)
	if err != nil {
		respondError(c, "Failed to approve top-up request", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Top-up request approved successfully",
		Data:    dto.ToTopUpResponse(topUp),
	})
}

// Reject godoc
//
//	@Summary		Reject a pending top-up request (admin)
//	@Tags			topups
//	@Accept			json
//	@Produce		json
//	@Param			id		path	int						true	"Top-up request ID"
//	@Param			request	body	dto.RejectTopUpRequest	true	"Rejection reason"
//	@Success		200	{object}	dto.APIResponse{data=dto.TopUpResponse}
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/admin/topups/{id}/reject [post]
func (h *TopUpHandler) Reject(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req dto.RejectTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	topUp, err := h.topUpUseCase.Reject(authCtx, id, req.Reason)
	if err != nil {
		respondError(c, "Failed to reject top-up request", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Top-up request rejected",
		Data:    dto.ToTopUpResponse(topUp),
	})
}

// Cancel godoc
//
//	@Summary		Cancel the caller's own pending top-up request
//	@Tags			topups
//	@Produce		json
//	@Param			id	path	int	true	"Top-up request ID"
//	@Success		200	{object}	dto.APIResponse{data=dto.TopUpResponse}
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/topups/{id}/cancel [post]
func (h *TopUpHandler) Cancel(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	topUp, err := h.topUpUseCase.Cancel(authCtx, id)
	if err != nil {
		respondError(c, "Failed to cancel top-up request", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Top-up request cancelled",
		Data:    dto.ToTopUpResponse(topUp),
	})
}

// Get godoc
//
//	@Summary		Get one top-up request
//	@Tags			topups
//	@Produce		json
//	@Param			id	path	int	true	"Top-up request ID"
//	@Success		200	{object}	dto.APIResponse{data=dto.TopUpResponse}
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/topups/{id} [get]
func (h *TopUpHandler) Get(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	topUp, err := h.topUpUseCase.Get(authCtx, id)
	if err != nil {
		respondError(c, "Failed to get top-up request", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Top-up request retrieved successfully",
		Data:    dto.ToTopUpResponse(topUp),
	})
}

// List godoc
//
//	@Summary		List top-up requests
//	@Description	Non-admin callers only see their own requests. Admins may filter by user_id and status.
//	@Tags			topups
//	@Produce		json
//	@Param			user_id		query	int		false	"Filter by user (admin only)"
//	@Param			status		query	string	false	"Filter by status"
//	@Param			page		query	int		false	"Page number"
//	@Param			page_size	query	int		false	"Page size"
//	@Success		200	{object}	dto.APIResponse{data=dto.PaginatedResponse}
//	@Router			/topups [get]
func (h *TopUpHandler) List(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	pagination := utils.NewPagination(c)

	var userID *uint
	if authCtx.IsAdmin() {
		if v := c.Query("user_id"); v != "" {
			parsed, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Success: false,
					Message: "Invalid user_id filter",
					Error:   err.Error(),
				})
				return
			}
			id := uint(parsed)
			userID = &id
		}
	} else {
		id := authCtx.UserID
		userID = &id
	}

	var status *models.TopUpStatus
	if v := c.Query("status"); v != "" {
		s := models.TopUpStatus(v)
		status = &s
	}

	topUps, total, err := h.topUpUseCase.List(authCtx, userID, status, pagination.Page, pagination.PageSize)
	if err != nil {
		respondError(c, "Failed to list top-up requests", err)
		return
	}
	pagination.SetTotal(total)

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Top-up requests retrieved successfully",
		Data: dto.PaginatedResponse{
			Data:       dto.ToTopUpResponses(topUps),
			Pagination: *pagination,
		},
	})
}

// CreateBank godoc
//
//	@Summary		Register a tenant bank account (admin)
//	@Tags			banks
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CreateBankRequest	true	"Bank payload"
//	@Success		201	{object}	dto.APIResponse{data=dto.BankResponse}
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/admin/banks [post]
func (h *TopUpHandler) CreateBank(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	bank, err := h.topUpUseCase.CreateBank(authCtx, usecases.CreateBankInput{
		Code:          req.Code,
		Name:          req.Name,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		respondError(c, "Failed to create bank", err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Message: "Bank created successfully",
		Data:    dto.ToBankResponse(bank),
	})
}

// ListBanks godoc
//
//	@Summary		List active tenant bank accounts
//	@Tags			banks
//	@Produce		json
//	@Param			page		query	int	false	"Page number"
//	@Param			page_size	query	int	false	"Page size"
//	@Success		200	{object}	dto.APIResponse{data=dto.PaginatedResponse}
//	@Router			/banks [get]
func (h *TopUpHandler) ListBanks(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	pagination := utils.NewPagination(c)

	banks, total, err := h.topUpUseCase.ListBanks(authCtx, pagination.Page, pagination.PageSize)
	if err != nil {
		respondError(c, "Failed to list banks", err)
		return
	}
	pagination.SetTotal(total)

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Banks retrieved successfully",
		Data: dto.PaginatedResponse{
			Data:       dto.ToBankResponses(banks),
			Pagination: *pagination,
		},
	})
}

// parseIDParam parses a uint path parameter, writing the 400 response itself
// on failure.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid " + name + " parameter",
			Error:   err.Error(),
		})
		return 0, err
	}
	return uint(id), nil
}
