package models

import "github.com/shopspring/decimal"

// DealType represents the loan product being originated.
type DealType string

const (
	DealTypeTermLoan             DealType = "term_loan"
	DealTypeCommercialRealEstate DealType = "commercial_real_estate"
	DealTypeLineOfCredit         DealType = "line_of_credit"
	DealTypeSBA7a                DealType = "sba_7a"
	DealTypeSBA504               DealType = "sba_504"
	DealTypeEquipment            DealType = "equipment"
)

// DealStatus tracks a deal through the origination pipeline.
type DealStatus string

const (
	DealStatusDraft    DealStatus = "draft"
	DealStatusIntake   DealStatus = "intake"
	DealStatusParsing  DealStatus = "parsing"
	DealStatusComplete DealStatus = "complete"
	DealStatusDeclined DealStatus = "declined"
)

// Deal represents a loan request being underwritten.
type Deal struct {
	Base
	UserID     string     `gorm:"type:uuid;not null;index" json:"user_id"`
	BorrowerID string     `gorm:"type:uuid;not null;index" json:"borrower_id"`
	Name       string     `gorm:"not null" json:"name"`
	DealType   DealType   `gorm:"not null" json:"deal_type"`
	Status     DealStatus `gorm:"not null;default:'draft'" json:"status"`

	// Loan terms.
	LoanAmount         decimal.Decimal `gorm:"type:numeric(16,2)" json:"loan_amount"`
	InterestRate       decimal.Decimal `gorm:"type:numeric(8,6)" json:"interest_rate"`
	AmortizationMonths int             `json:"amortization_months"`
	BalloonMonths      *int            `json:"balloon_months,omitempty"`
	AppraisedValue     decimal.Decimal `gorm:"type:numeric(16,2)" json:"appraised_value"`

	Borrower            *Borrower            `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Documents           []Document           `gorm:"foreignKey:DealID" json:"documents,omitempty"`
	UnderwritingRecords []UnderwritingRecord `gorm:"foreignKey:DealID" json:"underwriting_records,omitempty"`
}

// CanTransitionTo reports whether the pipeline allows moving to the target
// status. Declined is terminal; draft can only move forward to intake.
func (d *Deal) CanTransitionTo(target DealStatus) bool {
	if d.Status == DealStatusDeclined {
		return false
	}
	switch target {
	case DealStatusIntake:
		return d.Status == DealStatusDraft || d.Status == DealStatusParsing
	case DealStatusParsing:
		return d.Status == DealStatusIntake
	case DealStatusComplete:
		return d.Status == DealStatusIntake || d.Status == DealStatusParsing
	case DealStatusDeclined:
		return true
	default:
		return false
	}
}
