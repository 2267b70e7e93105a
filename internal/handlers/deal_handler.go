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

// DealHandler handles deal-related requests.
type DealHandler struct {
	dealService  services.DealServicer
	auditService services.AuditServicer
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(dealService services.DealServicer, auditService services.AuditServicer) *DealHandler {
	return &DealHandler{dealService: dealService, auditService: auditService}
}

// DealTermsRequest carries loan terms in create/update payloads.
type DealTermsRequest struct {
	LoanAmount         decimal.Decimal `json:"loan_amount" binding:"required"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	AmortizationMonths int             `json:"amortization_months" binding:"required,gt=0"`
	BalloonMonths      *int            `json:"balloon_months" binding:"omitempty,gt=0"`
	AppraisedValue     decimal.Decimal `json:"appraised_value"`
}

// CreateDealRequest represents the request payload for creating a deal.
type CreateDealRequest struct {
	BorrowerID string           `json:"borrower_id" binding:"required,uuid"`
	Name       string           `json:"name" binding:"required,min=1,max=200"`
	DealType   string           `json:"deal_type" binding:"required,deal_type"`
	Terms      DealTermsRequest `json:"terms" binding:"required"`
}

// UpdateDealTermsRequest represents the request payload for replacing deal terms.
type UpdateDealTermsRequest struct {
	Terms DealTermsRequest `json:"terms" binding:"required"`
}

// ChangeDealStatusRequest represents the request payload for a status change.
type ChangeDealStatusRequest struct {
	Status string `json:"status" binding:"required,deal_status"`
}

// DealResponse represents a deal in the response.
type DealResponse struct {
	ID         string `json:"id"`
	BorrowerID string `json:"borrower_id"`
	Name       string `json:"name"`
	DealType   string `json:"deal_type"`
	Status     string `json:"status"`
}

func (r DealTermsRequest) toServiceTerms() services.DealTerms {
	return services.DealTerms{
		LoanAmount:         r.LoanAmount,
		InterestRate:       r.InterestRate,
		AmortizationMonths: r.AmortizationMonths,
		BalloonMonths:      r.BalloonMonths,
		AppraisedValue:     r.AppraisedValue,
	}
}

// CreateDeal handles the creation of a new deal
// @Summary     Create a deal
// @Description Create a new loan deal for one of the user's borrowers
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDealRequest true "Deal details"
// @Success     201 {object} DealResponse "Deal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Borrower not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals [post]
func (h *DealHandler) CreateDeal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deal, err := h.dealService.CreateDeal(userID, req.BorrowerID, req.Name, models.DealType(req.DealType), req.Terms.toServiceTerms())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_DEAL", "deal", deal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "deal_type": req.DealType, "loan_amount": req.Terms.LoanAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"deal": deal})
}

// GetUserDeals lists the authenticated user's deals
// @Summary     List deals
// @Description Get a paginated list of the user's deals, optionally filtered by status
// @Tags        deals
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.Deal] "Deals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals [get]
func (h *DealHandler) GetUserDeals(c *gin.Context) {
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

	var status *models.DealStatus
	if s := c.Query("status"); s != "" {
		ds := models.DealStatus(s)
		status = &ds
	}

	result, err := h.dealService.GetUserDeals(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDealByID fetches a single deal
// @Summary     Get a deal
// @Description Get one of the user's deals by ID, including its borrower
// @Tags        deals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Success     200 {object} DealResponse "Deal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id} [get]
func (h *DealHandler) GetDealByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deal, err := h.dealService.GetDealByID(userID, dealID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// UpdateDealTerms replaces the loan terms on a deal
// @Summary     Update deal terms
// @Description Replace the loan terms on an open deal
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Param       request body UpdateDealTermsRequest true "New loan terms"
// @Success     200 {object} DealResponse "Deal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id} [put]
func (h *DealHandler) UpdateDealTerms(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDealTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deal, err := h.dealService.UpdateDealTerms(userID, dealID, req.Terms.toServiceTerms())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_DEAL_TERMS", "deal", deal.ID, c.ClientIP(),
		map[string]interface{}{"loan_amount": req.Terms.LoanAmount.String()})

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

// ChangeStatus moves a deal through the pipeline
// @Summary     Change deal status
// @Description Move a deal to a new pipeline status
// @Tags        deals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Param       request body ChangeDealStatusRequest true "Target status"
// @Success     200 {object} DealResponse "Deal updated"
// @Failure     400 {object} ErrorResponse "Invalid transition"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/status [patch]
func (h *DealHandler) ChangeStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dealID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangeDealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deal, err := h.dealService.ChangeStatus(userID, dealID, models.DealStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_DEAL_STATUS", "deal", deal.ID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}
