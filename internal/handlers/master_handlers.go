package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/KhoaTran011604/gp-bmt-api/internal/middleware"
	"github.com/KhoaTran011604/gp-bmt-api/internal/models"
	"github.com/KhoaTran011604/gp-bmt-api/internal/repository"
	"github.com/KhoaTran011604/gp-bmt-api/internal/services"
)

// listQueryFromContext builds a ListQuery from the common pagination, search
// and sort query parameters shared by the master data endpoints.
func listQueryFromContext(c *gin.Context, filterKeys ...string) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")

	for _, key := range filterKeys {
		query.Filters[key] = c.Query(key)
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	return query
}

func paginationMeta(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}

// --- Parishes ---

type ParishHandler struct {
	parishService *services.ParishService
}

func NewParishHandler(parishService *services.ParishService) *ParishHandler {
	return &ParishHandler{parishService: parishService}
}

// @Summary List Parishes
// @Description Get a paginated list of parishes
// @Tags Parishes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param deanery query string false "Filter by deanery"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /parishes [get]
func (h *ParishHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c, "status", "deanery")

	parishes, total, err := h.parishService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parishes": parishes, "pagination": paginationMeta(query, total)})
}

// @Summary All Parishes
// @Description Get all parishes without pagination, for dropdowns
// @Tags Parishes
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /parishes/all [get]
func (h *ParishHandler) All(c *gin.Context) {
	parishes, err := h.parishService.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parishes": parishes})
}

// @Summary Get Parish
// @Description Get a parish by ID with its congregant count
// @Tags Parishes
// @Produce json
// @Param parish_id path int true "Parish ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /parishes/{parish_id} [get]
func (h *ParishHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("parish_id"), 10, 32)
	parish, err := h.parishService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giáo xứ"})
		return
	}

	count, _ := h.parishService.CongregantCount(c.Request.Context(), parish.ID)
	c.JSON(http.StatusOK, gin.H{"parish": parish, "congregant_count": count})
}

// @Summary Create Parish
// @Description Register a new parish
// @Tags Parishes
// @Accept json
// @Produce json
// @Param request body models.Parish true "Parish Data"
// @Success 201 {object} models.Parish
// @Security BearerAuth
// @Router /parishes [post]
func (h *ParishHandler) Create(c *gin.Context) {
	var parish models.Parish
	if err := BindNestedOrFlat(c, "parish", &parish); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.parishService.Create(c.Request.Context(), &parish, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"parish": parish})
}

// @Summary Update Parish
// @Description Update an existing parish
// @Tags Parishes
// @Accept json
// @Produce json
// @Param parish_id path int true "Parish ID"
// @Param request body models.Parish true "Parish Data"
// @Success 200 {object} models.Parish
// @Security BearerAuth
// @Router /parishes/{parish_id} [put]
func (h *ParishHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("parish_id"), 10, 32)
	var parish models.Parish
	if err := BindNestedOrFlat(c, "parish", &parish); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parish.ID = uint(id)

	if err := h.parishService.Update(c.Request.Context(), &parish, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giáo xứ"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"parish": parish})
}

// @Summary Delete Parish
// @Description Delete a parish with no congregants
// @Tags Parishes
// @Produce json
// @Param parish_id path int true "Parish ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /parishes/{parish_id} [delete]
func (h *ParishHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("parish_id"), 10, 32)

	if err := h.parishService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giáo xứ"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa giáo xứ"})
}

// --- Persons ---

type PersonHandler struct {
	personService *services.PersonService
}

func NewPersonHandler(personService *services.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// @Summary List Congregants
// @Description Get a paginated list of congregants
// @Tags Persons
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param parish_id query int false "Filter by parish"
// @Param gender query string false "Filter by gender"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /persons [get]
func (h *PersonHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c, "status", "parish_id", "gender")

	persons, total, err := h.personService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"persons": persons, "pagination": paginationMeta(query, total)})
}

// @Summary Get Congregant
// @Description Get a congregant by ID
// @Tags Persons
// @Produce json
// @Param person_id path int true "Person ID"
// @Success 200 {object} models.Person
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /persons/{person_id} [get]
func (h *PersonHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("person_id"), 10, 32)
	person, err := h.personService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giáo dân"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"person": person})
}

// @Summary Create Congregant
// @Description Register a new congregant with a parish
// @Tags Persons
// @Accept json
// @Produce json
// @Param request body models.Person true "Person Data"
// @Success 201 {object} models.Person
// @Security BearerAuth
// @Router /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var person models.Person
	if err := BindNestedOrFlat(c, "person", &person); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.personService.Create(c.Request.Context(), &person, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"person": person})
}

// @Summary Update Congregant
// @Description Update an existing congregant
// @Tags Persons
// @Accept json
// @Produce json
// @Param person_id path int true "Person ID"
// @Param request body models.Person true "Person Data"
// @Success 200 {object} models.Person
// @Security BearerAuth
// @Router /persons/{person_id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("person_id"), 10, 32)
	var person models.Person
	if err := BindNestedOrFlat(c, "person", &person); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	person.ID = uint(id)

	if err := h.personService.Update(c.Request.Context(), &person, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giáo dân"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"person": person})
}

// @Summary Delete Congregant
// @Description Delete a congregant record
// @Tags Persons
// @Produce json
// @Param person_id path int true "Person ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /persons/{person_id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("person_id"), 10, 32)

	if err := h.personService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy giáo dân"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa giáo dân"})
}

// --- Funds ---

type FundHandler struct {
	fundService *services.FundService
}

func NewFundHandler(fundService *services.FundService) *FundHandler {
	return &FundHandler{fundService: fundService}
}

// @Summary List Funds
// @Description Get a paginated list of funds
// @Tags Funds
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /funds [get]
func (h *FundHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c, "status")

	funds, total, err := h.fundService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"funds": funds, "pagination": paginationMeta(query, total)})
}

// @Summary All Funds
// @Description Get all funds without pagination, for dropdowns
// @Tags Funds
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /funds/all [get]
func (h *FundHandler) All(c *gin.Context) {
	funds, err := h.fundService.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": funds})
}

// @Summary Fund Balances
// @Description Get computed balances from approved transactions, all funds or one
// @Tags Funds
// @Produce json
// @Param fund_id query int false "Fund ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /funds/balances [get]
func (h *FundHandler) Balances(c *gin.Context) {
	fundID, _ := strconv.ParseUint(c.Query("fund_id"), 10, 32)

	balances, err := h.fundService.Balances(c.Request.Context(), uint(fundID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// @Summary Get Fund
// @Description Get a fund by ID
// @Tags Funds
// @Produce json
// @Param fund_id path int true "Fund ID"
// @Success 200 {object} models.Fund
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /funds/{fund_id} [get]
func (h *FundHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fund_id"), 10, 32)
	fund, err := h.fundService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quỹ"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fund": fund})
}

// @Summary Create Fund
// @Description Create a new fund
// @Tags Funds
// @Accept json
// @Produce json
// @Param request body models.Fund true "Fund Data"
// @Success 201 {object} models.Fund
// @Security BearerAuth
// @Router /funds [post]
func (h *FundHandler) Create(c *gin.Context) {
	var fund models.Fund
	if err := BindNestedOrFlat(c, "fund", &fund); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fundService.Create(c.Request.Context(), &fund, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fund": fund})
}

// @Summary Update Fund
// @Description Update an existing fund
// @Tags Funds
// @Accept json
// @Produce json
// @Param fund_id path int true "Fund ID"
// @Param request body models.Fund true "Fund Data"
// @Success 200 {object} models.Fund
// @Security BearerAuth
// @Router /funds/{fund_id} [put]
func (h *FundHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fund_id"), 10, 32)
	var fund models.Fund
	if err := BindNestedOrFlat(c, "fund", &fund); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fund.ID = uint(id)

	if err := h.fundService.Update(c.Request.Context(), &fund, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quỹ"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fund": fund})
}

// @Summary Delete Fund
// @Description Delete a fund that has no transactions
// @Tags Funds
// @Produce json
// @Param fund_id path int true "Fund ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /funds/{fund_id} [delete]
func (h *FundHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("fund_id"), 10, 32)

	if err := h.fundService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quỹ"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa quỹ"})
}

// --- Bank Accounts ---

type BankAccountHandler struct {
	bankAccountService *services.BankAccountService
}

func NewBankAccountHandler(bankAccountService *services.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService}
}

// @Summary List Bank Accounts
// @Description Get a paginated list of diocese and parish bank accounts
// @Tags BankAccounts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param parish_id query int false "Filter by parish"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bank_accounts [get]
func (h *BankAccountHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c, "status", "parish_id")

	accounts, total, err := h.bankAccountService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_accounts": accounts, "pagination": paginationMeta(query, total)})
}

// @Summary Get Bank Account
// @Description Get a bank account by ID
// @Tags BankAccounts
// @Produce json
// @Param bank_account_id path int true "Bank Account ID"
// @Success 200 {object} models.BankAccount
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bank_accounts/{bank_account_id} [get]
func (h *BankAccountHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bank_account_id"), 10, 32)
	account, err := h.bankAccountService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài khoản ngân hàng"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// @Summary Create Bank Account
// @Description Register a new bank account
// @Tags BankAccounts
// @Accept json
// @Produce json
// @Param request body models.BankAccount true "Bank Account Data"
// @Success 201 {object} models.BankAccount
// @Security BearerAuth
// @Router /bank_accounts [post]
func (h *BankAccountHandler) Create(c *gin.Context) {
	var account models.BankAccount
	if err := BindNestedOrFlat(c, "bank_account", &account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bankAccountService.Create(c.Request.Context(), &account, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bank_account": account})
}

// @Summary Update Bank Account
// @Description Update an existing bank account
// @Tags BankAccounts
// @Accept json
// @Produce json
// @Param bank_account_id path int true "Bank Account ID"
// @Param request body models.BankAccount true "Bank Account Data"
// @Success 200 {object} models.BankAccount
// @Security BearerAuth
// @Router /bank_accounts/{bank_account_id} [put]
func (h *BankAccountHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bank_account_id"), 10, 32)
	var account models.BankAccount
	if err := BindNestedOrFlat(c, "bank_account", &account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account.ID = uint(id)

	if err := h.bankAccountService.Update(c.Request.Context(), &account, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài khoản ngân hàng"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}

// @Summary Delete Bank Account
// @Description Delete a bank account
// @Tags BankAccounts
// @Produce json
// @Param bank_account_id path int true "Bank Account ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /bank_accounts/{bank_account_id} [delete]
func (h *BankAccountHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("bank_account_id"), 10, 32)

	if err := h.bankAccountService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy tài khoản ngân hàng"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa tài khoản ngân hàng"})
}

// --- Contacts ---

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// @Summary List Contacts
// @Description Get a paginated list of payer/payee contacts
// @Tags Contacts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)

	contacts, total, err := h.contactService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "pagination": paginationMeta(query, total)})
}

// @Summary Get Contact
// @Description Get a contact by ID
// @Tags Contacts
// @Produce json
// @Param contact_id path int true "Contact ID"
// @Success 200 {object} models.Contact
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contacts/{contact_id} [get]
func (h *ContactHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contact_id"), 10, 32)
	contact, err := h.contactService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy đối tượng"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// @Summary Create Contact
// @Description Register a new payer/payee contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body models.Contact true "Contact Data"
// @Success 201 {object} models.Contact
// @Security BearerAuth
// @Router /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var contact models.Contact
	if err := BindNestedOrFlat(c, "contact", &contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contactService.Create(c.Request.Context(), &contact, middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// @Summary Update Contact
// @Description Update an existing contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param contact_id path int true "Contact ID"
// @Param request body models.Contact true "Contact Data"
// @Success 200 {object} models.Contact
// @Security BearerAuth
// @Router /contacts/{contact_id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contact_id"), 10, 32)
	var contact models.Contact
	if err := BindNestedOrFlat(c, "contact", &contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact.ID = uint(id)

	if err := h.contactService.Update(c.Request.Context(), &contact, middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy đối tượng"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// @Summary Delete Contact
// @Description Delete a contact not referenced by any transaction
// @Tags Contacts
// @Produce json
// @Param contact_id path int true "Contact ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /contacts/{contact_id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("contact_id"), 10, 32)

	if err := h.contactService.Delete(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy đối tượng"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa đối tượng"})
}
