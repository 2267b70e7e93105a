package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/models"
	"underwritepro/internal/pagination"
)

// dealService handles deal-related business logic.
type dealService struct {
	db *gorm.DB
}

// NewDealService creates a new DealServicer.
func NewDealService(db *gorm.DB) DealServicer {
	return &dealService{db: db}
}

// CreateDeal creates a new deal in draft status for one of the user's borrowers.
func (s *dealService) CreateDeal(userID, borrowerID, name string, dealType models.DealType, terms DealTerms) (*models.Deal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deal name is required")
	}
	if terms.LoanAmount.IsNegative() || terms.InterestRate.IsNegative() || terms.AppraisedValue.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "loan terms must not be negative")
	}
	if terms.AmortizationMonths < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amortization months must not be negative")
	}

	// The borrower must belong to the same user.
	var count int64
	s.db.Model(&models.Borrower{}).Where("id = ? AND user_id = ?", borrowerID, userID).Count(&count)
	if count == 0 {
		return nil, apperrors.ErrBorrowerNotFound
	}

	deal := &models.Deal{
		UserID:             userID,
		BorrowerID:         borrowerID,
		Name:               name,
		DealType:           dealType,
		Status:             models.DealStatusDraft,
		LoanAmount:         terms.LoanAmount,
		InterestRate:       terms.InterestRate,
		AmortizationMonths: terms.AmortizationMonths,
		BalloonMonths:      terms.BalloonMonths,
		AppraisedValue:     terms.AppraisedValue,
	}

	if err := s.db.Create(deal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deal, nil
}

// GetUserDeals retrieves a paginated list of the user's deals, optionally
// filtered by status.
func (s *dealService) GetUserDeals(userID string, page pagination.PageRequest, status *models.DealStatus) (*pagination.PageResponse[models.Deal], error) {
	page.Defaults()

	base := s.db.Model(&models.Deal{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var deals []models.Deal
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&deals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(deals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDealByID retrieves a deal with its borrower for a specific user.
func (s *dealService) GetDealByID(userID, dealID string) (*models.Deal, error) {
	var deal models.Deal
	if err := s.db.Preload("Borrower").Where("id = ? AND user_id = ?", dealID, userID).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDealNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &deal, nil
}

// UpdateDealTerms replaces the loan terms on a deal. Terms cannot change once
// a deal is complete or declined.
func (s *dealService) UpdateDealTerms(userID, dealID string, terms DealTerms) (*models.Deal, error) {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return nil, err
	}

	if deal.Status == models.DealStatusComplete || deal.Status == models.DealStatusDeclined {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusChange, "cannot modify terms on a closed deal")
	}
	if terms.LoanAmount.IsNegative() || terms.InterestRate.IsNegative() || terms.AppraisedValue.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "loan terms must not be negative")
	}
	if terms.AmortizationMonths < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amortization months must not be negative")
	}

	updates := map[string]interface{}{
		"loan_amount":         terms.LoanAmount,
		"interest_rate":       terms.InterestRate,
		"amortization_months": terms.AmortizationMonths,
		"balloon_months":      terms.BalloonMonths,
		"appraised_value":     terms.AppraisedValue,
	}
	if err := s.db.Model(deal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Where("id = ?", deal.ID).First(deal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return deal, nil
}

// ChangeStatus moves a deal to the target pipeline status, enforcing the
// allowed transitions.
func (s *dealService) ChangeStatus(userID, dealID string, target models.DealStatus) (*models.Deal, error) {
	deal, err := s.GetDealByID(userID, dealID)
	if err != nil {
		return nil, err
	}

	if !deal.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidStatusChange
	}

	if err := s.db.Model(deal).Update("status", target).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	deal.Status = target

	return deal, nil
}
