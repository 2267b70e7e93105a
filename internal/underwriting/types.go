// Package underwriting implements the commercial-loan underwriting calculator:
// amortization payments, global cash flow, DSCR, LTV, debt yield, stress
// testing, threshold flags, and the credit recommendation. Everything in this
// package is a pure function of its inputs; persistence and transport live in
// the calling layers.
package underwriting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary fields serialize as JSON numbers, matching the wire shape the
	// frontend and report generator consume.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrInvalidInput is the base error for boundary validation failures.
// Degenerate-but-valid inputs (zero debt service, zero appraised value)
// are not errors; they produce defined zero results.
var ErrInvalidInput = errors.New("underwriting: invalid input")

// LoanTerms describes the requested loan structure.
type LoanTerms struct {
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"` // annual, as a fraction (0.065 = 6.5%)
	AmortizationMonths int             `json:"amortization_months"`
	BalloonMonths      *int            `json:"balloon_months,omitempty"`
}

// FinancialData holds the borrower's business and personal financials,
// typically extracted from tax returns and financial statements. All fields
// default to zero; none are required.
type FinancialData struct {
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

// Request is the full input to Underwrite.
type Request struct {
	LoanTerms       LoanTerms       `json:"loan_terms"`
	FinancialData   FinancialData   `json:"financial_data"`
	AppraisedValue  decimal.Decimal `json:"appraised_value"`
	LiquidityMonths decimal.Decimal `json:"liquidity_months"`
	IncludeAddbacks bool            `json:"include_addbacks"`
	StressTest      bool            `json:"stress_test"`
}

// Validate rejects inputs the arithmetic would silently turn into nonsense
// (negative amounts, rates, or terms). Zeros are always acceptable.
func (r Request) Validate() error {
	if r.LoanTerms.LoanAmount.IsNegative() {
		return fmt.Errorf("%w: loan amount must not be negative", ErrInvalidInput)
	}
	if r.LoanTerms.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	}
	if r.LoanTerms.AmortizationMonths < 0 {
		return fmt.Errorf("%w: amortization months must not be negative", ErrInvalidInput)
	}
	if r.AppraisedValue.IsNegative() {
		return fmt.Errorf("%w: appraised value must not be negative", ErrInvalidInput)
	}
	if r.LiquidityMonths.IsNegative() {
		return fmt.Errorf("%w: liquidity months must not be negative", ErrInvalidInput)
	}
	if r.FinancialData.Depreciation.IsNegative() {
		return fmt.Errorf("%w: depreciation must not be negative", ErrInvalidInput)
	}
	if r.FinancialData.Amortization.IsNegative() {
		return fmt.Errorf("%w: amortization must not be negative", ErrInvalidInput)
	}
	if r.FinancialData.OneTimeExpenses.IsNegative() {
		return fmt.Errorf("%w: one-time expenses must not be negative", ErrInvalidInput)
	}
	return nil
}

// DSCRResult holds one debt-service-coverage calculation (base or stressed).
// All monetary values are rounded to cents; the ratio to two decimal places.
type DSCRResult struct {
	DSCR              decimal.Decimal `json:"dscr"`
	GlobalCashFlow    decimal.Decimal `json:"global_cash_flow"`
	AnnualDebtService decimal.Decimal `json:"annual_debt_service"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment"`
	BusinessCashFlow  decimal.Decimal `json:"business_cash_flow"`
	PersonalCashFlow  decimal.Decimal `json:"personal_cash_flow"`
	TotalAddbacks     decimal.Decimal `json:"total_addbacks"`
}

// Recommendation is the credit decision. Exactly these four values exist.
type Recommendation string

const (
	RecommendApprove     Recommendation = "APPROVE"
	RecommendApproveWith Recommendation = "APPROVE WITH CONDITIONS"
	RecommendException   Recommendation = "EXCEPTION REQUIRED"
	RecommendDecline     Recommendation = "DECLINE"
)

// RiskRating buckets the 0-100 risk score.
type RiskRating string

const (
	RatingExcellent RiskRating = "Excellent"
	RatingGood      RiskRating = "Good"
	RatingFair      RiskRating = "Fair"
	RatingPoor      RiskRating = "Poor"
)

// Result is the complete underwriting output. It is created once per
// Underwrite call and never mutated afterwards.
type Result struct {
	DSCRBase     decimal.Decimal  `json:"dscr_base"`
	DSCRStressed *decimal.Decimal `json:"dscr_stressed"`
	LTV          decimal.Decimal  `json:"ltv"`
	DebtYield    decimal.Decimal  `json:"debt_yield"`

	GlobalCashFlow    decimal.Decimal `json:"global_cash_flow"`
	AnnualDebtService decimal.Decimal `json:"annual_debt_service"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment"`
	BusinessCashFlow  decimal.Decimal `json:"business_cash_flow"`
	PersonalIncome    decimal.Decimal `json:"personal_income"`
	LiquidityMonths   decimal.Decimal `json:"liquidity_months"`

	Addbacks map[string]decimal.Decimal `json:"addbacks"`

	Flags     []string `json:"flags"`
	Strengths []string `json:"strengths"`
	Risks     []string `json:"risks"`
	Mitigants []string `json:"mitigants"`

	Recommendation Recommendation `json:"recommendation"`
	RiskScore      int            `json:"risk_score"`
	RiskRating     RiskRating     `json:"risk_rating"`

	// CalculationTrace records every intermediate value, including the literal
	// DSCR and LTV division expressions, for audit and examiner review.
	CalculationTrace map[string]interface{} `json:"calculation_trace"`
}
