package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/commerce-core/internal/dto"
	"github.com/shoplite/commerce-core/internal/middleware"
	"github.com/shoplite/commerce-core/internal/models"
	"github.com/shoplite/commerce-core/internal/usecases"
	"github.com/shoplite/commerce-core/internal/utils"
)

const expiryLayout = "2006-01-02"

type CardHandler struct {
	cardUseCase usecases.CardUseCase
}

func NewCardHandler(cardUseCase usecases.CardUseCase) *CardHandler {
	return &CardHandler{cardUseCase: cardUseCase}
}

// Import godoc
//
//	@Summary		Import cards inline (admin)
//	@Description	Creates an import batch. Bad rows are reported, never fatal to the batch.
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ImportCardsRequest	true	"Import payload"
//	@Success		201	{object}	dto.APIResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/admin/cards/import [post]
func (h *CardHandler) Import(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.ImportCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	rows := make([]usecases.CardImportRow, 0, len(req.Cards))
	for _, card := range req.Cards {
		row := usecases.CardImportRow{Code: card.Code, Pin: card.Pin}
		if card.Expiry != "" {
			expiry, err := time.Parse(expiryLayout, card.Expiry)
			if err != nil {
				c.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Success: false,
					Message: "Invalid expiry date",
					Error:   err.Error(),
					Detail:  gin.H{"card_code": card.Code, "expiry": card.Expiry},
				})
				return
			}
			row.Expiry = &expiry
		}
		rows = append(rows, row)
	}

	batch, report, err := h.cardUseCase.ImportFromArray(authCtx, req.ProductID, rows)
	if err != nil {
		respondError(c, "Card import failed", err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Message: "Card import completed",
		Data: gin.H{
			"batch":  dto.ToBatchResponse(batch),
			"report": report,
		},
	})
}

// ImportFile godoc
//
//	@Summary		Import cards from an uploaded CSV file (admin)
//	@Description	Streams the file; columns are card_code, pin, expiry (YYYY-MM-DD)
//	@Tags			cards
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			product_id	formData	int		true	"Product ID"
//	@Param			file		formData	file	true	"CSV file"
//	@Success		201	{object}	dto.APIResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/admin/cards/import-file [post]
func (h *CardHandler) ImportFile(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	productID, err := strconv.ParseUint(c.PostForm("product_id"), 10, 32)
	if err != nil || productID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid product_id",
			Error:   "product_id form field is required",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Missing file upload",
			Error:   err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Failed to open uploaded file",
			Error:   err.Error(),
		})
		return
	}
	defer file.Close()

	batch, report, err := h.cardUseCase.ImportFromFile(authCtx, uint(productID), file)
	if err != nil {
		respondError(c, "Card import failed", err)
		return
	}

	c.JSON(http.StatusCreated, dto.APIResponse{
		Success: true,
		Message: "Card import completed",
		Data: gin.H{
			"batch":  dto.ToBatchResponse(batch),
			"report": report,
		},
	})
}

// Reserve godoc
//
//	@Summary		Reserve available cards for an order
//	@Description	All-or-nothing. Insufficient stock returns the available count with no cards touched.
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.ReserveCardsRequest	true	"Reservation payload"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/cards/reserve [post]
func (h *CardHandler) Reserve(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.ReserveCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	cardIDs, err := h.cardUseCase.ReserveCards(authCtx, req.ProductID, req.Quantity, req.OrderID)
	if err != nil {
		respondError(c, "Card reservation failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Cards reserved successfully",
		Data:    gin.H{"card_ids": cardIDs, "order_id": req.OrderID},
	})
}

// MarkSold godoc
//
//	@Summary		Finalize reserved cards as sold
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.MarkSoldRequest	true	"Sale payload"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/cards/mark-sold [post]
func (h *CardHandler) MarkSold(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.MarkSoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	if err := h.cardUseCase.MarkAsSold(authCtx, req.CardIDs, req.UserID, req.OrderID); err != nil {
		respondError(c, "Failed to mark cards as sold", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Cards marked as sold",
	})
}

// Release godoc
//
//	@Summary		Release reserved cards back to the available pool
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CardIDsRequest	true	"Card IDs"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/cards/release [post]
func (h *CardHandler) Release(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.CardIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	if err := h.cardUseCase.ReleaseCards(authCtx, req.CardIDs); err != nil {
		respondError(c, "Failed to release cards", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Cards released successfully",
	})
}

// ExpireSweep godoc
//
//	@Summary		Mark expired available cards (admin)
//	@Description	Idempotent sweep; returns the number of cards flipped to EXPIRED
//	@Tags			cards
//	@Produce		json
//	@Success		200	{object}	dto.APIResponse
//	@Router			/admin/cards/expire-sweep [post]
func (h *CardHandler) ExpireSweep(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	affected, err := h.cardUseCase.MarkExpiredCards(authCtx)
	if err != nil {
		respondError(c, "Expiry sweep failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Expiry sweep completed",
		Data:    gin.H{"expired_count": affected},
	})
}

// Quarantine godoc
//
//	@Summary		Move available cards to quarantine (admin)
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CardIDsRequest	true	"Card IDs"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/admin/cards/quarantine [post]
func (h *CardHandler) Quarantine(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.CardIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	if err := h.cardUseCase.MoveToEmergency(authCtx, req.CardIDs); err != nil {
		respondError(c, "Failed to quarantine cards", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Cards quarantined",
	})
}

// Recover godoc
//
//	@Summary		Recover quarantined cards to the available pool (admin)
//	@Tags			cards
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.CardIDsRequest	true	"Card IDs"
//	@Success		200	{object}	dto.APIResponse
//	@Failure		409	{object}	dto.ErrorResponse
//	@Router			/admin/cards/recover [post]
func (h *CardHandler) Recover(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req dto.CardIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid request payload",
			Error:   err.Error(),
		})
		return
	}

	if err := h.cardUseCase.RecoverFromEmergency(authCtx, req.CardIDs); err != nil {
		respondError(c, "Failed to recover cards", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Cards recovered",
	})
}

// ListInventory godoc
//
//	@Summary		List inventory cards for a product (admin)
//	@Tags			cards
//	@Produce		json
//	@Param			product_id	query	int		true	"Product ID"
//	@Param			status		query	string	false	"Filter by status"
//	@Param			page		query	int		false	"Page number"
//	@Param			page_size	query	int		false	"Page size"
//	@Success		200	{object}	dto.APIResponse{data=dto.PaginatedResponse}
//	@Router			/admin/cards [get]
func (h *CardHandler) ListInventory(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil || productID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid product_id",
			Error:   "product_id query parameter is required",
		})
		return
	}

	var status *models.CardStatus
	if v := c.Query("status"); v != "" {
		s := models.CardStatus(v)
		status = &s
	}

	pagination := utils.NewPagination(c)

	cards, total, err := h.cardUseCase.GetInventory(authCtx, uint(productID), status, pagination.Page, pagination.PageSize)
	if err != nil {
		respondError(c, "Failed to list inventory", err)
		return
	}
	pagination.SetTotal(total)

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Inventory retrieved successfully",
		Data: dto.PaginatedResponse{
			Data:       dto.ToCardResponses(cards),
			Pagination: *pagination,
		},
	})
}

// ListBatches godoc
//
//	@Summary		List import batches for a product (admin)
//	@Tags			cards
//	@Produce		json
//	@Param			product_id	query	int	true	"Product ID"
//	@Param			page		query	int	false	"Page number"
//	@Param			page_size	query	int	false	"Page size"
//	@Success		200	{object}	dto.APIResponse{data=dto.PaginatedResponse}
//	@Router			/admin/cards/batches [get]
func (h *CardHandler) ListBatches(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil || productID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid product_id",
			Error:   "product_id query parameter is required",
		})
		return
	}

	pagination := utils.NewPagination(c)

	batches, total, err := h.cardUseCase.GetBatches(authCtx, uint(productID), pagination.Page, pagination.PageSize)
	if err != nil {
		respondError(c, "Failed to list batches", err)
		return
	}
	pagination.SetTotal(total)

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Batches retrieved successfully",
		Data: dto.PaginatedResponse{
			Data:       dto.ToBatchResponses(batches),
			Pagination: *pagination,
		},
	})
}

// Summary godoc
//
//	@Summary		Inventory counts by status for a product
//	@Tags			cards
//	@Produce		json
//	@Param			product_id	query	int	true	"Product ID"
//	@Success		200	{object}	dto.APIResponse
//	@Router			/cards/summary [get]
func (h *CardHandler) Summary(c *gin.Context) {
	authCtx, ok := middleware.GetAuthContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil || productID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Message: "Invalid product_id",
			Error:   "product_id query parameter is required",
		})
		return
	}

	summary, err := h.cardUseCase.GetInventorySummary(authCtx, uint(productID))
	if err != nil {
		respondError(c, "Failed to get inventory summary", err)
		return
	}

	c.JSON(http.StatusOK, dto.APIResponse{
		Success: true,
		Message: "Inventory summary retrieved successfully",
		Data:    summary,
	})
}
