package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

type RentalHandler struct {
	rentalService *services.RentalService
}

func NewRentalHandler(rentalService *services.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// @Summary List Rental Contracts
// @Description Get a paginated list of rental contracts
// @Tags Rentals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (pending/active/expired/terminated)"
// @Param parish_id query int false "Filter by parish"
// @Param asset_id query int false "Filter by asset"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /rental_contracts [get]
func (h *RentalHandler) Index(c *gin.Context) {
	query := &repository.RentalQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")

	if parishID, err := strconv.ParseUint(c.Query("parish_id"), 10, 32); err == nil {
		query.ParishID = uint(parishID)
	}
	if assetID, err := strconv.ParseUint(c.Query("asset_id"), 10, 32); err == nil {
		query.AssetID = uint(assetID)
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	contracts, total, err := h.rentalService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, rc := range contracts {
		responses = append(responses, rc.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"rental_contracts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Rental Contract
// @Description Get a rental contract by ID
// @Tags Rentals
// @Produce json
// @Param rental_contract_id path int true "Rental Contract ID"
// @Success 200 {object} models.RentalContractResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /rental_contracts/{rental_contract_id} [get]
func (h *RentalHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rental_contract_id"), 10, 32)
	contract, err := h.rentalService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy hợp đồng cho thuê"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rental_contract": contract.ToResponse()})
}

// @Summary Create Rental Contract
// @Description Create a rental contract in pending status, reserving its asset
// @Tags Rentals
// @Accept json
// @Produce json
// @Param request body models.RentalContract true "Rental Contract Data"
// @Success 201 {object} models.RentalContractResponse
// @Security BearerAuth
// @Router /rental_contracts [post]
func (h *RentalHandler) Create(c *gin.Context) {
	var contract models.RentalContract
	if err := BindNestedOrFlat(c, "rental_contract", &contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.rentalService.Create(c.Request.Context(), &contract, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrAssetUnavailable) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rental_contract": contract.ToResponse()})
}

// @Summary Update Rental Contract
// @Description Update a pending rental contract
// @Tags Rentals
// @Accept json
// @Produce json
// @Param rental_contract_id path int true "Rental Contract ID"
// @Param request body models.RentalContract true "Rental Contract Data"
// @Success 200 {object} models.RentalContractResponse
// @Security BearerAuth
// @Router /rental_contracts/{rental_contract_id} [put]
func (h *RentalHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rental_contract_id"), 10, 32)
	var contract models.RentalContract
	if err := BindNestedOrFlat(c, "rental_contract", &contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract.ID = uint(id)

	userID := middleware.GetUserID(c)
	if err := h.rentalService.Update(c.Request.Context(), &contract, userID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy hợp đồng cho thuê"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental_contract": contract.ToResponse()})
}

// @Summary Activate Rental Contract
// @Description Move a pending rental contract to active
// @Tags Rentals
// @Produce json
// @Param rental_contract_id path int true "Rental Contract ID"
// @Success 200 {object} models.RentalContractResponse
// @Security BearerAuth
// @Router /rental_contracts/{rental_contract_id}/activate [post]
func (h *RentalHandler) Activate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rental_contract_id"), 10, 32)

	userID := middleware.GetUserID(c)
	contract, err := h.rentalService.Activate(c.Request.Context(), uint(id), userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy hợp đồng cho thuê"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental_contract": contract.ToResponse()})
}

// @Summary Terminate Rental Contract
// @Description Terminate a rental contract early and release its asset
// @Tags Rentals
// @Accept json
// @Produce json
// @Param rental_contract_id path int true "Rental Contract ID"
// @Success 200 {object} models.RentalContractResponse
// @Security BearerAuth
// @Router /rental_contracts/{rental_contract_id}/terminate [post]
func (h *RentalHandler) Terminate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rental_contract_id"), 10, 32)

	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)

	userID := middleware.GetUserID(c)
	contract, err := h.rentalService.Terminate(c.Request.Context(), uint(id), req.Note, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy hợp đồng cho thuê"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental_contract": contract.ToResponse()})
}

// @Summary Convert Rental Payment
// @Description Record a rent payment for a period as a pending income transaction
// @Tags Rentals
// @Accept json
// @Produce json
// @Param rental_contract_id path int true "Rental Contract ID"
// @Success 201 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /rental_contracts/{rental_contract_id}/convert_payment [post]
func (h *RentalHandler) ConvertPayment(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("rental_contract_id"), 10, 32)

	var req struct {
		Period        string  `json:"period" binding:"required"`
		FundID        uint    `json:"fund_id" binding:"required"`
		Amount        float64 `json:"amount"`
		IncomeDate    string  `json:"income_date"`
		PaymentMethod string  `json:"payment_method" binding:"omitempty,oneof=cash online"`
		BankAccountID *uint   `json:"bank_account_id"`
		PayerPayee    string  `json:"payer_payee"`
		Notes         string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := services.ConvertPaymentInput{
		Period:        req.Period,
		FundID:        req.FundID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		BankAccountID: req.BankAccountID,
		PayerPayee:    req.PayerPayee,
		Notes:         req.Notes,
	}
	if req.IncomeDate != "" {
		incomeDate, err := time.Parse("2006-01-02", req.IncomeDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ngày thu không hợp lệ (YYYY-MM-DD)"})
			return
		}
		in.IncomeDate = incomeDate
	}

	userID := middleware.GetUserID(c)
	txn, err := h.rentalService.ConvertPayment(c.Request.Context(), uint(id), in, userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy hợp đồng cho thuê"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn.ToResponse()})
}
