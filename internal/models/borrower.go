package models

import "github.com/shopspring/decimal"

// EntityType represents the borrower's legal structure.
type EntityType string

const (
	EntityTypeLLC         EntityType = "llc"
	EntityTypeSCorp       EntityType = "s_corp"
	EntityTypeCCorp       EntityType = "c_corp"
	EntityTypePartnership EntityType = "partnership"
	EntityTypeSoleProp    EntityType = "sole_prop"
	EntityTypeIndividual  EntityType = "individual"
)

// Borrower represents a borrowing business or individual.
type Borrower struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            string          `gorm:"not null" json:"name"`
	EntityType      EntityType      `gorm:"not null" json:"entity_type"`
	TaxID           string          `json:"tax_id,omitempty"`
	Industry        string          `json:"industry,omitempty"`
	YearsInBusiness int             `json:"years_in_business,omitempty"`
	AnnualRevenue   decimal.Decimal `gorm:"type:numeric(16,2)" json:"annual_revenue"`
	CreditScore     int             `json:"credit_score,omitempty"`

	Deals []Deal `gorm:"foreignKey:BorrowerID" json:"deals,omitempty"`
}
