package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"underwritepro/internal/cache"
	apperrors "underwritepro/internal/errors"
	"underwritepro/internal/logger"
	"underwritepro/internal/models"
	"underwritepro/internal/underwriting"
)

const resultCacheTTL = 24 * time.Hour

// underwritingService runs the calculator against deals and manages the
// persisted and cached results.
type underwritingService struct {
	db    *gorm.DB
	calc  *underwriting.Calculator
	cache cache.Cache
}

// NewUnderwritingService creates a new UnderwritingServicer.
func NewUnderwritingService(db *gorm.DB, calc *underwriting.Calculator, c cache.Cache) UnderwritingServicer {
	return &underwritingService{db: db, calc: calc, cache: c}
}

// UnderwriteDeal builds a calculator request from the deal's loan terms and
// the posted financial data, runs the analysis, persists an
// UnderwritingRecord, and moves the deal to complete. Identical requests are
// served from cache; a fresh record row is still written so every run is
// auditable.
func (s *underwritingService) UnderwriteDeal(ctx context.Context, userID, dealID string, fin underwriting.FinancialData, liquidityMonths decimal.Decimal, includeAddbacks, stressTest bool) (*underwriting.Result, *models.UnderwritingRecord, error) {
	var deal models.Deal
	if err := s.db.Where("id = ? AND user_id = ?", dealID, userID).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrDealNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if deal.LoanAmount.IsZero() || deal.AmortizationMonths == 0 {
		return nil, nil, apperrors.ErrMissingLoanTerms
	}

	req := underwriting.Request{
		LoanTerms: underwriting.LoanTerms{
			LoanAmount:         deal.LoanAmount,
			InterestRate:       deal.InterestRate,
			AmortizationMonths: deal.AmortizationMonths,
			BalloonMonths:      deal.BalloonMonths,
		},
		FinancialData:   fin,
		AppraisedValue:  deal.AppraisedValue,
		LiquidityMonths: liquidityMonths,
		IncludeAddbacks: includeAddbacks,
		StressTest:      stressTest,
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	digest := requestDigest(reqJSON)

	var result *underwriting.Result
	if cached, ok := s.cache.Get(ctx, digest); ok {
		var r underwriting.Result
		if err := json.Unmarshal([]byte(cached), &r); err == nil {
			result = &r
		} else {
			logger.Get().Warnw("discarding undecodable cached underwriting result", "digest", digest, "error", err)
		}
	}

	if result == nil {
		result, err = s.calc.Underwrite(req)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	record := &models.UnderwritingRecord{
		DealID:         deal.ID,
		UserID:         userID,
		DSCRBase:       result.DSCRBase,
		DSCRStressed:   result.DSCRStressed,
		LTV:            result.LTV,
		DebtYield:      result.DebtYield,
		Recommendation: string(result.Recommendation),
		RiskScore:      result.RiskScore,
		RiskRating:     string(result.RiskRating),
		RequestDigest:  digest,
		RequestJSON:    string(reqJSON),
		ResultJSON:     string(resultJSON),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if deal.CanTransitionTo(models.DealStatusComplete) {
			if err := tx.Model(&deal).Update("status", models.DealStatusComplete).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.cache.Set(ctx, digest, string(resultJSON), resultCacheTTL); err != nil {
		logger.Get().Warnw("failed to cache underwriting result", "digest", digest, "error", err)
	}

	return result, record, nil
}

// GetLatestResult returns the most recent persisted underwriting run for a deal.
func (s *underwritingService) GetLatestResult(userID, dealID string) (*underwriting.Result, *models.UnderwritingRecord, error) {
	var count int64
	s.db.Model(&models.Deal{}).Where("id = ? AND user_id = ?", dealID, userID).Count(&count)
	if count == 0 {
		return nil, nil, apperrors.ErrDealNotFound
	}

	var record models.UnderwritingRecord
	if err := s.db.Where("deal_id = ?", dealID).Order("created_at DESC").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrNoUnderwritingResult
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var result underwriting.Result
	if err := json.Unmarshal([]byte(record.ResultJSON), &result); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &result, &record, nil
}

// requestDigest returns the SHA-256 hex digest of the canonical request JSON.
func requestDigest(reqJSON []byte) string {
	h := sha256.Sum256(reqJSON)
	return hex.EncodeToString(h[:])
}
