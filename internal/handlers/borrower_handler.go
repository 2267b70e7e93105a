package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
	"underwritepro/internal/services"
)

// BorrowerHandler handles borrower-related requests.
type BorrowerHandler struct {
	borrowerService services.BorrowerServicer
	auditService    services.AuditServicer
}

// NewBorrowerHandler creates a new BorrowerHandler.
func NewBorrowerHandler(borrowerService services.BorrowerServicer, auditService services.AuditServicer) *BorrowerHandler {
	return &BorrowerHandler{borrowerService: borrowerService, auditService: auditService}
}

// CreateBorrowerRequest represents the request payload for creating a borrower.
type CreateBorrowerRequest struct {
	Name            string          `json:"name" binding:"required,min=1,max=200"`
	EntityType      string          `json:"entity_type" binding:"required,entity_type"`
	TaxID           string          `json:"tax_id" binding:"max=20"`
	Industry        string          `json:"industry" binding:"max=100"`
	YearsInBusiness int             `json:"years_in_business" binding:"gte=0"`
	AnnualRevenue   decimal.Decimal `json:"annual_revenue"`
	CreditScore     int             `json:"credit_score" binding:"omitempty,gte=300,lte=850"`
}

// UpdateBorrowerRequest represents the request payload for updating a borrower.
type UpdateBorrowerRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	EntityType      *string          `json:"entity_type" binding:"omitempty,entity_type"`
	TaxID           *string          `json:"tax_id" binding:"omitempty,max=20"`
	Industry        *string          `json:"industry" binding:"omitempty,max=100"`
	YearsInBusiness *int             `json:"years_in_business" binding:"omitempty,gte=0"`
	AnnualRevenue   *decimal.Decimal `json:"annual_revenue"`
	CreditScore     *int             `json:"credit_score" binding:"omitempty,gte=300,lte=850"`
}

// BorrowerResponse represents a borrower in the response.
type BorrowerResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	EntityType      string `json:"entity_type"`
	Industry        string `json:"industry"`
	YearsInBusiness int    `json:"years_in_business"`
	CreditScore     int    `json:"credit_score"`
}

// CreateBorrower handles the creation of a new borrower
// @Summary     Create a borrower
// @Description Create a new borrower for the authenticated user
// @Tags        borrowers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBorrowerRequest true "Borrower details"
// @Success     201 {object} BorrowerResponse "Borrower created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /borrowers [post]
func (h *BorrowerHandler) CreateBorrower(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	borrower, err := h.borrowerService.CreateBorrower(
		userID,
		req.Name,
		models.EntityType(req.EntityType),
		req.TaxID,
		req.Industry,
		req.YearsInBusiness,
		req.AnnualRevenue,
		req.CreditScore,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BORROWER", "borrower", borrower.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "entity_type": req.EntityType})

	c.JSON(http.StatusCreated, gin.H{"borrower": borrower})
}

// GetUserBorrowers lists the authenticated user's borrowers
// @Summary     List borrowers
// @Description Get a paginated list of the authenticated user's borrowers
// @Tags        borrowers
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Borrower] "Borrowers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /borrowers [get]
func (h *BorrowerHandler) GetUserBorrowers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.borrowerService.GetUserBorrowers(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBorrowerByID fetches a single borrower
// @Summary     Get a borrower
// @Description Get one of the authenticated user's borrowers by ID
// @Tags        borrowers
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Borrower ID"
// @Success     200 {object} BorrowerResponse "Borrower"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /borrowers/{id} [get]
func (h *BorrowerHandler) GetBorrowerByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	borrowerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	borrower, err := h.borrowerService.GetBorrowerByID(userID, borrowerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrower": borrower})
}

// UpdateBorrower updates a borrower
// @Summary     Update a borrower
// @Description Update one of the authenticated user's borrowers
// @Tags        borrowers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Borrower ID"
// @Param       request body UpdateBorrowerRequest true "Fields to update"
// @Success     200 {object} BorrowerResponse "Borrower updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /borrowers/{id} [put]
func (h *BorrowerHandler) UpdateBorrower(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	borrowerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.BorrowerFields{
		Name:            req.Name,
		TaxID:           req.TaxID,
		Industry:        req.Industry,
		YearsInBusiness: req.YearsInBusiness,
		AnnualRevenue:   req.AnnualRevenue,
		CreditScore:     req.CreditScore,
	}
	if req.EntityType != nil {
		et := models.EntityType(*req.EntityType)
		fields.EntityType = &et
	}

	borrower, err := h.borrowerService.UpdateBorrower(userID, borrowerID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BORROWER", "borrower", borrower.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"borrower": borrower})
}
