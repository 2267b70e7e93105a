package underwriting

import "github.com/shopspring/decimal"

// Policy holds the lender-specific thresholds and stress assumptions used by
// the Calculator. Passing it explicitly (instead of package-level constants)
// lets different lender tenants underwrite with different credit boxes.
type Policy struct {
	DSCRMin         decimal.Decimal `json:"dscr_min"`
	DSCRStrong      decimal.Decimal `json:"dscr_strong"`
	LTVMax          decimal.Decimal `json:"ltv_max"`
	LTVConservative decimal.Decimal `json:"ltv_conservative"`

	// Liquidity thresholds are expressed in months of annual debt service.
	LiquidityMinMonths    decimal.Decimal `json:"liquidity_min_months"`
	LiquidityStrongMonths decimal.Decimal `json:"liquidity_strong_months"`

	// Stress test assumptions.
	StressRateIncrease   decimal.Decimal `json:"stress_rate_increase"`
	StressIncomeDecrease decimal.Decimal `json:"stress_income_decrease"`
}

// DefaultPolicy returns the standard commercial credit box:
// DSCR 1.20x minimum / 1.50x strong, LTV 80% maximum / 70% conservative,
// 3 months liquidity minimum / 6 months strong, and a +200bps / -10% income
// stress scenario.
func DefaultPolicy() Policy {
	return Policy{
		DSCRMin:               decimal.NewFromFloat(1.20),
		DSCRStrong:            decimal.NewFromFloat(1.50),
		LTVMax:                decimal.NewFromFloat(0.80),
		LTVConservative:       decimal.NewFromFloat(0.70),
		LiquidityMinMonths:    decimal.NewFromInt(3),
		LiquidityStrongMonths: decimal.NewFromInt(6),
		StressRateIncrease:    decimal.NewFromFloat(0.02),
		StressIncomeDecrease:  decimal.NewFromFloat(0.10),
	}
}
