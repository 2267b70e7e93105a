package services

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
	"underwritepro/internal/underwriting"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// BorrowerFields holds optional update parameters for a borrower.
type BorrowerFields struct {
	Name            *string
	EntityType      *models.EntityType
	TaxID           *string
	Industry        *string
	YearsInBusiness *int
	AnnualRevenue   *decimal.Decimal
	CreditScore     *int
}

// BorrowerServicer defines the contract for borrower-related business logic.
type BorrowerServicer interface {
	CreateBorrower(userID, name string, entityType models.EntityType, taxID, industry string, yearsInBusiness int, annualRevenue decimal.Decimal, creditScore int) (*models.Borrower, error)
	GetUserBorrowers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Borrower], error)
	GetBorrowerByID(userID, borrowerID string) (*models.Borrower, error)
	UpdateBorrower(userID, borrowerID string, fields BorrowerFields) (*models.Borrower, error)
}

// DealTerms holds the loan terms captured on a deal.
type DealTerms struct {
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	AmortizationMonths int
	BalloonMonths      *int
	AppraisedValue     decimal.Decimal
}

// DealServicer defines the contract for deal-related business logic.
type DealServicer interface {
	CreateDeal(userID, borrowerID, name string, dealType models.DealType, terms DealTerms) (*models.Deal, error)
	GetUserDeals(userID string, page pagination.PageRequest, status *models.DealStatus) (*pagination.PageResponse[models.Deal], error)
	GetDealByID(userID, dealID string) (*models.Deal, error)
	UpdateDealTerms(userID, dealID string, terms DealTerms) (*models.Deal, error)
	ChangeStatus(userID, dealID string, target models.DealStatus) (*models.Deal, error)
}

// DocumentServicer defines the contract for document upload and retrieval.
type DocumentServicer interface {
	StoreDocument(userID, dealID string, docType models.DocumentType, fileName, contentType string, size int64, body io.Reader, taxYear *int) (*models.Document, error)
	GetDealDocuments(userID, dealID string, page pagination.PageRequest) (*pagination.PageResponse[models.Document], error)
	GetDocumentByID(userID, documentID string) (*models.Document, error)
}

// UnderwritingServicer runs the underwriting calculator against a deal and
// manages persisted results.
type UnderwritingServicer interface {
	UnderwriteDeal(ctx context.Context, userID, dealID string, fin underwriting.FinancialData, liquidityMonths decimal.Decimal, includeAddbacks, stressTest bool) (*underwriting.Result, *models.UnderwritingRecord, error)
	GetLatestResult(userID, dealID string) (*underwriting.Result, *models.UnderwritingRecord, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
