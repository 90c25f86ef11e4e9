package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserType is the pricing classification of a customer
type UserType string

const (
	UserTypeInternal UserType = "internal"
	UserTypeAcademic UserType = "academic"
	UserTypeIndustry UserType = "industry"
)

// AccountStatus is the verification state of a user account
type AccountStatus string

const (
	AccountStatusPendingVerification AccountStatus = "pending_verification"
	AccountStatusActive              AccountStatus = "active"
	AccountStatusSuspended           AccountStatus = "suspended"
)

// User represents the centralized authentication table
type User struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID        int           `gorm:"not null;index" json:"role_id"`
	Email         string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password      string        `gorm:"type:text;not null" json:"-"`
	FullName      string        `gorm:"type:varchar(255);not null" json:"full_name"`
	Institution   string        `gorm:"type:varchar(255)" json:"institution,omitempty"`
	PhoneNumber   string        `gorm:"type:varchar(30)" json:"phone_number,omitempty"`
	UserType      UserType      `gorm:"type:varchar(30);not null;default:'industry'" json:"user_type"`
	AccountStatus AccountStatus `gorm:"type:varchar(30);not null;default:'pending_verification';index" json:"account_status"`
	VerifiedAt    *time.Time    `json:"verified_at,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account has been verified and not suspended
func (u *User) IsActive() bool {
	return u.AccountStatus == AccountStatusActive
}

// IsAdmin checks if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}

// IsValidUserType reports whether t is a known pricing classification
func IsValidUserType(t UserType) bool {
	switch t {
	case UserTypeInternal, UserTypeAcademic, UserTypeIndustry:
		return true
	}
	return false
}
