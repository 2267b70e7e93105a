package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/services"
	"underwritepro/internal/underwriting"
)

// UnderwritingHandler handles underwriting analysis requests.
type UnderwritingHandler struct {
	underwritingService services.UnderwritingServicer
	auditService        services.AuditServicer
}

// NewUnderwritingHandler creates a new UnderwritingHandler.
func NewUnderwritingHandler(underwritingService services.UnderwritingServicer, auditService services.AuditServicer) *UnderwritingHandler {
	return &UnderwritingHandler{underwritingService: underwritingService, auditService: auditService}
}

// FinancialDataRequest carries the borrower financials posted for analysis.
// All fields default to zero when omitted.
type FinancialDataRequest struct {
	BusinessRevenue    decimal.Decimal `json:"business_revenue"`
	BusinessNetIncome  decimal.Decimal `json:"business_net_income"`
	Depreciation       decimal.Decimal `json:"depreciation"`
	Amortization       decimal.Decimal `json:"amortization"`
	InterestExpense    decimal.Decimal `json:"interest_expense"`
	OneTimeExpenses    decimal.Decimal `json:"one_time_expenses"`
	PersonalAGI        decimal.Decimal `json:"personal_agi"`
	PersonalDebtAnnual decimal.Decimal `json:"personal_debt_annual"`
	K1Income           decimal.Decimal `json:"k1_income"`
	RentalIncome       decimal.Decimal `json:"rental_income"`
	OtherIncome        decimal.Decimal `json:"other_income"`
}

// UnderwriteDealRequest represents the request payload for running underwriting.
type UnderwriteDealRequest struct {
	FinancialData   FinancialDataRequest `json:"financial_data"`
	LiquidityMonths decimal.Decimal      `json:"liquidity_months"`
	IncludeAddbacks *bool                `json:"include_addbacks"`
	StressTest      bool                 `json:"stress_test"`
}

// UnderwritingResponse represents an underwriting result in the response.
type UnderwritingResponse struct {
	RecordID string               `json:"record_id"`
	Result   *underwriting.Result `json:"result"`
}

func (r FinancialDataRequest) toFinancialData() underwriting.FinancialData {
	return underwriting.FinancialData{
		BusinessRevenue:    r.BusinessRevenue,
		BusinessNetIncome:  r.BusinessNetIncome,
		Depreciation:       r.Depreciation,
		Amortization:       r.Amortization,
		InterestExpense:    r.InterestExpense,
		OneTimeExpenses:    r.OneTimeExpenses,
		PersonalAGI:        r.PersonalAGI,
		PersonalDebtAnnual: r.PersonalDebtAnnual,
		K1Income:           r.K1Income,
		RentalIncome:       r.RentalIncome,
		OtherIncome:        r.OtherIncome,
	}
}

// UnderwriteDeal runs the full underwriting analysis against a deal
// @Summary     Underwrite a deal
// @Description Run DSCR, LTV, debt yield, stress test, and recommendation analysis against a deal's loan terms and the posted financials
// @Tags        underwriting
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Param       request body UnderwriteDealRequest true "Financial data and analysis options"
// @Success     200 {object} UnderwritingResponse "Analysis result"
// @Failure     400 {object} ErrorResponse "Invalid input or missing loan terms"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/underwrite [post]
func (h *UnderwritingHandler) UnderwriteDeal(c *gin.Context) {
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

	var req UnderwriteDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Addbacks are included unless explicitly disabled.
	includeAddbacks := true
	if req.IncludeAddbacks != nil {
		includeAddbacks = *req.IncludeAddbacks
	}

	result, record, err := h.underwritingService.UnderwriteDeal(
		c.Request.Context(),
		userID,
		dealID,
		req.FinancialData.toFinancialData(),
		req.LiquidityMonths,
		includeAddbacks,
		req.StressTest,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UNDERWRITE_DEAL", "deal", dealID, c.ClientIP(),
		map[string]interface{}{
			"record_id":      record.ID,
			"recommendation": string(result.Recommendation),
			"dscr_base":      result.DSCRBase.String(),
		})

	c.JSON(http.StatusOK, gin.H{
		"record_id": record.ID,
		"result":    result,
	})
}

// GetUnderwriting returns the most recent underwriting result for a deal
// @Summary     Get latest underwriting result
// @Description Get the most recent persisted underwriting analysis for a deal
// @Tags        underwriting
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deal ID"
// @Success     200 {object} UnderwritingResponse "Analysis result"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deal not found or not underwritten"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /deals/{id}/underwriting [get]
func (h *UnderwritingHandler) GetUnderwriting(c *gin.Context) {
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

	result, record, err := h.underwritingService.GetLatestResult(userID, dealID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record_id": record.ID,
		"result":    result,
	})
}
