package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
)

// borrowerService handles borrower-related business logic.
type borrowerService struct {
	db *gorm.DB
}

// NewBorrowerService creates a new BorrowerServicer.
func NewBorrowerService(db *gorm.DB) BorrowerServicer {
	return &borrowerService{db: db}
}

// CreateBorrower creates a new borrower for a user.
func (s *borrowerService) CreateBorrower(userID, name string, entityType models.EntityType, taxID, industry string, yearsInBusiness int, annualRevenue decimal.Decimal, creditScore int) (*models.Borrower, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "borrower name is required")
	}
	if annualRevenue.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "annual revenue must not be negative")
	}

	borrower := &models.Borrower{
		UserID:          userID,
		Name:            name,
		EntityType:      entityType,
		TaxID:           taxID,
		Industry:        industry,
		YearsInBusiness: yearsInBusiness,
		AnnualRevenue:   annualRevenue,
		CreditScore:     creditScore,
	}

	if err := s.db.Create(borrower).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return borrower, nil
}

// GetUserBorrowers retrieves a paginated list of borrowers for a user.
func (s *borrowerService) GetUserBorrowers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Borrower], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Borrower{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var borrowers []models.Borrower
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&borrowers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(borrowers, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBorrowerByID retrieves a borrower by ID for a specific user.
func (s *borrowerService) GetBorrowerByID(userID, borrowerID string) (*models.Borrower, error) {
	var borrower models.Borrower
	if err := s.db.Where("id = ? AND user_id = ?", borrowerID, userID).First(&borrower).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBorrowerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &borrower, nil
}

// UpdateBorrower applies the provided fields to an existing borrower.
func (s *borrowerService) UpdateBorrower(userID, borrowerID string, fields BorrowerFields) (*models.Borrower, error) {
	borrower, err := s.GetBorrowerByID(userID, borrowerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.EntityType != nil {
		updates["entity_type"] = *fields.EntityType
	}
	if fields.TaxID != nil {
		updates["tax_id"] = *fields.TaxID
	}
	if fields.Industry != nil {
		updates["industry"] = *fields.Industry
	}
	if fields.YearsInBusiness != nil {
		updates["years_in_business"] = *fields.YearsInBusiness
	}
	if fields.AnnualRevenue != nil {
		if fields.AnnualRevenue.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "annual revenue must not be negative")
		}
		updates["annual_revenue"] = *fields.AnnualRevenue
	}
	if fields.CreditScore != nil {
		updates["credit_score"] = *fields.CreditScore
	}

	if len(updates) > 0 {
		if err := s.db.Model(borrower).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", borrower.ID).First(borrower).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return borrower, nil
}
