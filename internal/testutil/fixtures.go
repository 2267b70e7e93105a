package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"underwritepro/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBorrower creates a borrower LLC with a unique name.
func CreateTestBorrower(t *testing.T, db *gorm.DB, userID string) *models.Borrower {
	t.Helper()

	borrower := &models.Borrower{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Borrower %d LLC", nextID()),
		EntityType:    models.EntityTypeLLC,
		Industry:      "manufacturing",
		AnnualRevenue: decimal.NewFromInt(1200000),
		CreditScore:   720,
	}
	if err := db.Create(borrower).Error; err != nil {
		t.Fatalf("failed to create test borrower: %v", err)
	}
	return borrower
}

// CreateTestDeal creates a draft term-loan deal with standard test terms:
// $500,000 at 6.5% over 240 months against a $1,000,000 appraisal.
func CreateTestDeal(t *testing.T, db *gorm.DB, userID, borrowerID string) *models.Deal {
	t.Helper()

	deal := &models.Deal{
		UserID:             userID,
		BorrowerID:         borrowerID,
		Name:               fmt.Sprintf("Test Deal %d", nextID()),
		DealType:           models.DealTypeTermLoan,
		Status:             models.DealStatusDraft,
		LoanAmount:         decimal.NewFromInt(500000),
		InterestRate:       decimal.NewFromFloat(0.065),
		AmortizationMonths: 240,
		AppraisedValue:     decimal.NewFromInt(1000000),
	}
	if err := db.Create(deal).Error; err != nil {
		t.Fatalf("failed to create test deal: %v", err)
	}
	return deal
}

// CreateTestDocument records document metadata against a deal without
// touching the filesystem.
func CreateTestDocument(t *testing.T, db *gorm.DB, userID, dealID string) *models.Document {
	t.Helper()

	doc := &models.Document{
		DealID:       dealID,
		UserID:       userID,
		DocumentType: models.DocumentTypeTaxReturnBusiness,
		FileName:     fmt.Sprintf("return-%d.pdf", nextID()),
		StoragePath:  fmt.Sprintf("/tmp/test-doc-%d", nextID()),
		ContentType:  "application/pdf",
		SizeBytes:    1024,
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create test document: %v", err)
	}
	return doc
}
