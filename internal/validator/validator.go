// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("deal_type", validateDealType)
		_ = v.RegisterValidation("deal_status", validateDealStatus)
		_ = v.RegisterValidation("document_type", validateDocumentType)
		_ = v.RegisterValidation("entity_type", validateEntityType)
	}
}

func validateDealType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "term_loan", "commercial_real_estate", "line_of_credit", "sba_7a", "sba_504", "equipment":
		return true
	}
	return false
}

func validateDealStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "intake", "parsing", "complete", "declined":
		return true
	}
	return false
}

func validateDocumentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "tax_return_business", "tax_return_personal", "financial_statement", "bank_statement", "rent_roll", "appraisal", "other":
		return true
	}
	return false
}

func validateEntityType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "llc", "s_corp", "c_corp", "partnership", "sole_prop", "individual":
		return true
	}
	return false
}
