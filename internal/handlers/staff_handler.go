package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

type StaffHandler struct {
	staffService *services.StaffService
}

func NewStaffHandler(staffService *services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: staffService}
}

// @Summary List Staff
// @Description Get a paginated list of diocese staff members
// @Tags Staff
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param parish_id query int false "Filter by parish"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /staff [get]
func (h *StaffHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c, "status", "parish_id")

	staff, total, err := h.staffService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": staff, "pagination": paginationMeta(query, total)})
}

// @Summary Get Staff Member
// @Description Get a staff member by ID
// @Tags Staff
// @Produce json
// @Param staff_id path int true "Staff ID"
// @Success 200 {object} models.Staff
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /staff/{staff_id} [get]
func (h *StaffHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("staff_id"), 10, 32)
	staff, err := h.staffService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhân viên"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// @Summary Create Staff Member
// @Description Register a new staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body models.Staff true "Staff Data"
// @Success 201 {object} models.Staff
// @Security BearerAuth
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var staff models.Staff
	if err := BindNestedOrFlat(c, "staff", &staff); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.staffService.Create(c.Request.Context(), &staff, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"staff": staff})
}

// @Summary Update Staff Member
// @Description Update an existing staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param staff_id path int true "Staff ID"
// @Param request body models.Staff true "Staff Data"
// @Success 200 {object} models.Staff
// @Security BearerAuth
// @Router /staff/{staff_id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("staff_id"), 10, 32)
	var staff models.Staff
	if err := BindNestedOrFlat(c, "staff", &staff); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	staff.ID = uint(id)

	if err := h.staffService.Update(c.Request.Context(), &staff, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhân viên"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// @Summary Delete Staff Member
// @Description Delete a staff member with no active contract
// @Tags Staff
// @Produce json
// @Param staff_id path int true "Staff ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /staff/{staff_id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("staff_id"), 10, 32)

	if err := h.staffService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhân viên"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa nhân viên"})
}

// @Summary List Staff Contracts
// @Description Get the employment contracts of a staff member
// @Tags Staff
// @Produce json
// @Param staff_id path int true "Staff ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /staff/{staff_id}/contracts [get]
func (h *StaffHandler) Contracts(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("staff_id"), 10, 32)

	contracts, err := h.staffService.Contracts(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhân viên"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// @Summary Create Staff Contract
// @Description Create an employment contract. A staff member can hold only one active contract.
// @Tags Staff
// @Accept json
// @Produce json
// @Param staff_id path int true "Staff ID"
// @Param request body models.StaffContract true "Contract Data"
// @Success 201 {object} models.StaffContract
// @Security BearerAuth
// @Router /staff/{staff_id}/contracts [post]
func (h *StaffHandler) CreateContract(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("staff_id"), 10, 32)

	var contract models.StaffContract
	if err := BindNestedOrFlat(c, "contract", &contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract.StaffID = uint(id)

	if err := h.staffService.CreateContract(c.Request.Context(), &contract, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy nhân viên"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contract": contract})
}

// @Summary Terminate Staff Contract
// @Description Terminate an active employment contract
// @Tags Staff
// @Produce json
// @Param staff_id path int true "Staff ID"
// @Param contract_id path int true "Contract ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /staff/{staff_id}/contracts/{contract_id}/terminate [post]
func (h *StaffHandler) TerminateContract(c *gin.Context) {
	contractID, _ := strconv.ParseUint(c.Param("contract_id"), 10, 32)

	if err := h.staffService.TerminateContract(c.Request.Context(), uint(contractID), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy hợp đồng lao động"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã chấm dứt hợp đồng lao động"})
}
