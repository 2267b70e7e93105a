package models

import "time"

// User represents a lender-side user (loan officer, underwriter, admin).
type User struct {
	Base
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Role             string     `gorm:"default:'loan_officer'" json:"role"`
	OrganizationID   string     `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Borrowers []Borrower `gorm:"foreignKey:UserID" json:"borrowers,omitempty"`
	Deals     []Deal     `gorm:"foreignKey:UserID" json:"deals,omitempty"`
}
