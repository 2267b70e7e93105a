package underwriting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Calculator performs underwriting math against a single Policy. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	policy Policy
}

// NewCalculator creates a Calculator with the given policy.
func NewCalculator(policy Policy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the policy this calculator evaluates against.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// MonthlyPayment computes the fully-amortizing monthly payment, rounded to
// cents. Zero principal or a zero term yields a zero payment; a zero rate
// yields straight-line principal / months. It never fails.
func (c *Calculator) MonthlyPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	return monthlyPayment(principal, annualRate, months).Round(2)
}

// monthlyPayment is the unrounded amortization payment:
// P * r(1+r)^n / ((1+r)^n - 1), with r the monthly rate.
func monthlyPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months == 0 || principal.IsZero() {
		return decimal.Zero
	}

	monthlyRate := annualRate.Div(twelve)
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(months)))
	}

	factor := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(months)))
	return principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one))
}

// DSCR computes the global debt service coverage ratio: combined business and
// personal cash flow over annual debt service. With zero debt service the
// ratio is reported as zero rather than failing.
func (c *Calculator) DSCR(terms LoanTerms, fin FinancialData, includeAddbacks bool) DSCRResult {
	payment := monthlyPayment(terms.LoanAmount, terms.InterestRate, terms.AmortizationMonths)
	annualDebtService := payment.Mul(twelve)

	totalAddbacks := decimal.Zero
	if includeAddbacks {
		totalAddbacks = fin.Depreciation.Add(fin.Amortization).Add(fin.OneTimeExpenses)
	}

	businessCashFlow := fin.BusinessNetIncome.Add(totalAddbacks)

	personalCashFlow := fin.PersonalAGI.
		Add(fin.K1Income).
		Add(fin.RentalIncome).
		Add(fin.OtherIncome).
		Sub(fin.PersonalDebtAnnual)

	globalCashFlow := businessCashFlow.Add(personalCashFlow)

	dscr := decimal.Zero
	if annualDebtService.IsPositive() {
		dscr = globalCashFlow.Div(annualDebtService)
	}

	return DSCRResult{
		DSCR:              dscr.Round(2),
		GlobalCashFlow:    globalCashFlow.Round(2),
		AnnualDebtService: annualDebtService.Round(2),
		MonthlyPayment:    payment.Round(2),
		BusinessCashFlow:  businessCashFlow.Round(2),
		PersonalCashFlow:  personalCashFlow.Round(2),
		TotalAddbacks:     totalAddbacks.Round(2),
	}
}

// LTV computes loan-to-value as a fraction rounded to four decimal places.
// A zero appraised value yields zero rather than a division error.
func (c *Calculator) LTV(loanAmount, appraisedValue decimal.Decimal) decimal.Decimal {
	if appraisedValue.IsZero() {
		return decimal.Zero
	}
	return loanAmount.Div(appraisedValue).Round(4)
}

// DebtYield computes global cash flow over loan amount, an interest-rate
// independent risk metric. Zero loan amount yields zero.
func (c *Calculator) DebtYield(globalCashFlow, loanAmount decimal.Decimal) decimal.Decimal {
	if loanAmount.IsZero() {
		return decimal.Zero
	}
	return globalCashFlow.Div(loanAmount).Round(4)
}

// StressTest recomputes DSCR under the policy's adverse scenario: rate up by
// StressRateIncrease, business net income and revenue down by
// StressIncomeDecrease.
func (c *Calculator) StressTest(terms LoanTerms, fin FinancialData, includeAddbacks bool) DSCRResult {
	stressedTerms := terms
	stressedTerms.InterestRate = terms.InterestRate.Add(c.policy.StressRateIncrease)

	haircut := one.Sub(c.policy.StressIncomeDecrease)
	stressedFin := fin
	stressedFin.BusinessNetIncome = fin.BusinessNetIncome.Mul(haircut)
	stressedFin.BusinessRevenue = fin.BusinessRevenue.Mul(haircut)

	return c.DSCR(stressedTerms, stressedFin, includeAddbacks)
}

// Flags classifies each of the three core metrics against the policy,
// producing exactly one flag per metric in fixed order: DSCR, LTV, liquidity.
func (c *Calculator) Flags(dscr, ltv, liquidityMonths decimal.Decimal) []string {
	p := c.policy
	flags := make([]string, 0, 3)

	switch {
	case dscr.LessThan(p.DSCRMin):
		flags = append(flags, fmt.Sprintf("DSCR_WEAK: %s below minimum %s", dscr.StringFixed(2), p.DSCRMin.StringFixed(2)))
	case dscr.GreaterThanOrEqual(p.DSCRStrong):
		flags = append(flags, fmt.Sprintf("DSCR_STRONG: %s", dscr.StringFixed(2)))
	default:
		flags = append(flags, fmt.Sprintf("DSCR_ACCEPTABLE: %s", dscr.StringFixed(2)))
	}

	switch {
	case ltv.GreaterThan(p.LTVMax):
		flags = append(flags, fmt.Sprintf("LTV_EXCEPTION: %s exceeds maximum %s", percent(ltv, 2), percent(p.LTVMax, 0)))
	case ltv.LessThanOrEqual(p.LTVConservative):
		flags = append(flags, fmt.Sprintf("LTV_CONSERVATIVE: %s", percent(ltv, 2)))
	default:
		flags = append(flags, fmt.Sprintf("LTV_ACCEPTABLE: %s", percent(ltv, 2)))
	}

	switch {
	case liquidityMonths.LessThan(p.LiquidityMinMonths):
		flags = append(flags, fmt.Sprintf("LIQUIDITY_WEAK: %s months below minimum %s", liquidityMonths.StringFixed(1), p.LiquidityMinMonths.String()))
	case liquidityMonths.GreaterThanOrEqual(p.LiquidityStrongMonths):
		flags = append(flags, fmt.Sprintf("LIQUIDITY_STRONG: %s months", liquidityMonths.StringFixed(1)))
	default:
		flags = append(flags, fmt.Sprintf("LIQUIDITY_ACCEPTABLE: %s months", liquidityMonths.StringFixed(1)))
	}

	return flags
}

// Narrative produces the deterministic strengths / risks / mitigants lists and
// the credit recommendation. The recommendation depends only on how many of
// the three core criteria pass: all three approve, two approve with
// conditions, one requires an exception, none declines.
func (c *Calculator) Narrative(dscrBase decimal.Decimal, dscrStressed *decimal.Decimal, ltv, liquidityMonths decimal.Decimal, fin FinancialData) (strengths, risks, mitigants []string, rec Recommendation) {
	p := c.policy
	strengths = []string{}
	risks = []string{}
	mitigants = []string{}

	if dscrBase.GreaterThanOrEqual(p.DSCRStrong) {
		strengths = append(strengths, fmt.Sprintf("Strong debt service coverage of %sx provides substantial cushion", dscrBase.StringFixed(2)))
	}
	if ltv.LessThanOrEqual(p.LTVConservative) {
		strengths = append(strengths, fmt.Sprintf("Conservative LTV of %s provides significant equity cushion", percent(ltv, 1)))
	}
	if liquidityMonths.GreaterThanOrEqual(p.LiquidityStrongMonths) {
		strengths = append(strengths, fmt.Sprintf("Strong liquidity position with %s months of debt service coverage", liquidityMonths.StringFixed(1)))
	}
	if fin.BusinessRevenue.GreaterThan(decimal.NewFromInt(1000000)) {
		strengths = append(strengths, fmt.Sprintf("Established business with annual revenue of $%s", fin.BusinessRevenue.StringFixed(0)))
	}

	if dscrBase.LessThan(p.DSCRMin) {
		risks = append(risks, fmt.Sprintf("DSCR of %sx below policy minimum of %sx", dscrBase.StringFixed(2), p.DSCRMin.StringFixed(2)))
	}
	if dscrStressed != nil && dscrStressed.LessThan(one) {
		risks = append(risks, fmt.Sprintf("Stressed DSCR of %sx falls below 1.00x under adverse conditions", dscrStressed.StringFixed(2)))
	}
	if ltv.GreaterThan(p.LTVMax) {
		risks = append(risks, fmt.Sprintf("LTV of %s exceeds policy maximum of %s", percent(ltv, 1), percent(p.LTVMax, 0)))
	}
	if liquidityMonths.LessThan(p.LiquidityMinMonths) {
		risks = append(risks, fmt.Sprintf("Liquidity of %s months below minimum %s months", liquidityMonths.StringFixed(1), p.LiquidityMinMonths.String()))
	}

	if ltv.GreaterThan(p.LTVMax) {
		mitigants = append(mitigants, fmt.Sprintf("Require additional equity to bring LTV to %s or below", percent(p.LTVMax, 0)))
	}
	if dscrBase.LessThan(p.DSCRMin) {
		mitigants = append(mitigants,
			"Consider personal guarantee or additional collateral",
			"Require quarterly financial reporting",
		)
	}
	if liquidityMonths.LessThan(p.LiquidityMinMonths) {
		mitigants = append(mitigants, fmt.Sprintf("Require minimum liquidity covenant of %s months debt service", p.LiquidityMinMonths.String()))
	}

	approveCount := 0
	if dscrBase.GreaterThanOrEqual(p.DSCRMin) {
		approveCount++
	}
	if ltv.LessThanOrEqual(p.LTVMax) {
		approveCount++
	}
	if liquidityMonths.GreaterThanOrEqual(p.LiquidityMinMonths) {
		approveCount++
	}

	switch approveCount {
	case 3:
		rec = RecommendApprove
	case 2:
		rec = RecommendApproveWith
	case 1:
		rec = RecommendException
	default:
		rec = RecommendDecline
	}

	return strengths, risks, mitigants, rec
}

// RiskScore produces a 0-100 deduction-based score and rating across DSCR,
// LTV, debt yield, and liquidity. Higher is better.
func (c *Calculator) RiskScore(dscr, ltv, debtYield, liquidityMonths decimal.Decimal) (int, RiskRating) {
	score := 100

	switch {
	case dscr.LessThan(decimal.NewFromFloat(1.00)):
		score -= 40
	case dscr.LessThan(decimal.NewFromFloat(1.15)):
		score -= 30
	case dscr.LessThan(decimal.NewFromFloat(1.25)):
		score -= 15
	case dscr.LessThan(decimal.NewFromFloat(1.35)):
		score -= 5
	}

	switch {
	case ltv.GreaterThan(decimal.NewFromFloat(0.85)):
		score -= 25
	case ltv.GreaterThan(decimal.NewFromFloat(0.80)):
		score -= 15
	case ltv.GreaterThan(decimal.NewFromFloat(0.75)):
		score -= 8
	case ltv.GreaterThan(decimal.NewFromFloat(0.70)):
		score -= 3
	}

	switch {
	case debtYield.LessThan(decimal.NewFromFloat(0.08)):
		score -= 20
	case debtYield.LessThan(decimal.NewFromFloat(0.10)):
		score -= 12
	case debtYield.LessThan(decimal.NewFromFloat(0.12)):
		score -= 5
	}

	switch {
	case liquidityMonths.LessThan(one):
		score -= 15
	case liquidityMonths.LessThan(c.policy.LiquidityMinMonths):
		score -= 10
	case liquidityMonths.LessThan(c.policy.LiquidityStrongMonths):
		score -= 4
	}

	if score < 0 {
		score = 0
	}

	switch {
	case score >= 85:
		return score, RatingExcellent
	case score >= 70:
		return score, RatingGood
	case score >= 55:
		return score, RatingFair
	default:
		return score, RatingPoor
	}
}

// Underwrite runs the complete analysis: base DSCR, optional stressed DSCR,
// LTV, debt yield, flags, narrative, risk score, and an audit trace of every
// intermediate value. It is a pure function of the request; identical inputs
// produce identical results.
func (c *Calculator) Underwrite(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	base := c.DSCR(req.LoanTerms, req.FinancialData, req.IncludeAddbacks)

	var dscrStressed *decimal.Decimal
	if req.StressTest {
		stressed := c.StressTest(req.LoanTerms, req.FinancialData, req.IncludeAddbacks)
		dscrStressed = &stressed.DSCR
	}

	ltv := c.LTV(req.LoanTerms.LoanAmount, req.AppraisedValue)
	debtYield := c.DebtYield(base.GlobalCashFlow, req.LoanTerms.LoanAmount)

	flags := c.Flags(base.DSCR, ltv, req.LiquidityMonths)
	strengths, risks, mitigants, rec := c.Narrative(base.DSCR, dscrStressed, ltv, req.LiquidityMonths, req.FinancialData)
	riskScore, riskRating := c.RiskScore(base.DSCR, ltv, debtYield, req.LiquidityMonths)

	addbacks := map[string]decimal.Decimal{
		"depreciation":      req.FinancialData.Depreciation,
		"amortization":      req.FinancialData.Amortization,
		"one_time_expenses": req.FinancialData.OneTimeExpenses,
		"total":             base.TotalAddbacks,
	}

	trace := map[string]interface{}{
		"loan_amount":         req.LoanTerms.LoanAmount,
		"interest_rate":       req.LoanTerms.InterestRate,
		"amortization_months": req.LoanTerms.AmortizationMonths,
		"monthly_payment":     base.MonthlyPayment,
		"annual_debt_service": base.AnnualDebtService,
		"business_net_income": req.FinancialData.BusinessNetIncome,
		"addbacks":            addbacks,
		"business_cash_flow":  base.BusinessCashFlow,
		"personal_cash_flow":  base.PersonalCashFlow,
		"global_cash_flow":    base.GlobalCashFlow,
		"liquidity_months":    req.LiquidityMonths,
		"dscr_calculation": fmt.Sprintf("%s / %s = %s",
			base.GlobalCashFlow.StringFixed(2), base.AnnualDebtService.StringFixed(2), base.DSCR.StringFixed(2)),
		"ltv_calculation": fmt.Sprintf("%s / %s = %s",
			req.LoanTerms.LoanAmount.StringFixed(2), req.AppraisedValue.StringFixed(2), ltv.StringFixed(4)),
		"debt_yield_calculation": fmt.Sprintf("%s / %s = %s",
			base.GlobalCashFlow.StringFixed(2), req.LoanTerms.LoanAmount.StringFixed(2), debtYield.StringFixed(4)),
	}

	return &Result{
		DSCRBase:          base.DSCR,
		DSCRStressed:      dscrStressed,
		LTV:               ltv,
		DebtYield:         debtYield,
		GlobalCashFlow:    base.GlobalCashFlow,
		AnnualDebtService: base.AnnualDebtService,
		MonthlyPayment:    base.MonthlyPayment,
		BusinessCashFlow:  base.BusinessCashFlow,
		PersonalIncome:    base.PersonalCashFlow,
		LiquidityMonths:   req.LiquidityMonths,
		Addbacks:          addbacks,
		Flags:             flags,
		Strengths:         strengths,
		Risks:             risks,
		Mitigants:         mitigants,
		Recommendation:    rec,
		RiskScore:         riskScore,
		RiskRating:        riskRating,
		CalculationTrace:  trace,
	}, nil
}

// percent renders a fraction as a percentage string, e.g. 0.80 -> "80%".
func percent(d decimal.Decimal, places int32) string {
	return d.Mul(hundred).StringFixed(places) + "%"
}
