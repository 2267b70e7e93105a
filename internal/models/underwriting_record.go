package models

import "github.com/shopspring/decimal"

// UnderwritingRecord persists one underwriting run against a deal. The full
// calculator input and output are stored as JSON for audit replay; the
// headline metrics are denormalized into columns for querying.
type UnderwritingRecord struct {
	Base
	DealID string `gorm:"type:uuid;not null;index" json:"deal_id"`
	UserID string `gorm:"type:uuid;not null" json:"user_id"`

	DSCRBase       decimal.Decimal  `gorm:"type:numeric(10,2)" json:"dscr_base"`
	DSCRStressed   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"dscr_stressed,omitempty"`
	LTV            decimal.Decimal  `gorm:"type:numeric(8,4)" json:"ltv"`
	DebtYield      decimal.Decimal  `gorm:"type:numeric(8,4)" json:"debt_yield"`
	Recommendation string           `gorm:"not null" json:"recommendation"`
	RiskScore      int              `json:"risk_score"`
	RiskRating     string           `json:"risk_rating"`

	// RequestDigest is the SHA-256 of the canonical request JSON; identical
	// requests share a digest, which also keys the result cache.
	RequestDigest string `gorm:"size:64;index" json:"request_digest"`
	RequestJSON   string `gorm:"type:text;not null" json:"-"`
	ResultJSON    string `gorm:"type:text;not null" json:"-"`
}
