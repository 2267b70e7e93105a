package models

// DocumentType classifies an uploaded underwriting document.
type DocumentType string

const (
	DocumentTypeTaxReturnBusiness  DocumentType = "tax_return_business"
	DocumentTypeTaxReturnPersonal  DocumentType = "tax_return_personal"
	DocumentTypeFinancialStatement DocumentType = "financial_statement"
	DocumentTypeBankStatement      DocumentType = "bank_statement"
	DocumentTypeRentRoll           DocumentType = "rent_roll"
	DocumentTypeAppraisal          DocumentType = "appraisal"
	DocumentTypeOther              DocumentType = "other"
)

// Document represents a file uploaded against a deal. The file body lives on
// disk under the configured upload directory; only metadata is stored here.
type Document struct {
	Base
	DealID       string       `gorm:"type:uuid;not null;index" json:"deal_id"`
	UserID       string       `gorm:"type:uuid;not null" json:"user_id"`
	DocumentType DocumentType `gorm:"not null" json:"document_type"`
	FileName     string       `gorm:"not null" json:"file_name"`
	StoragePath  string       `gorm:"not null" json:"-"`
	ContentType  string       `json:"content_type"`
	SizeBytes    int64        `json:"size_bytes"`
	TaxYear      *int         `json:"tax_year,omitempty"`
}
