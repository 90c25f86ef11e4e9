package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FullName    string `json:"full_name" validate:"required,min=2"`
	Institution string `json:"institution" validate:"omitempty,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=8,max=20"`
	UserType    string `json:"user_type" validate:"required,oneof=internal academic industry"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Role          string     `json:"role"`
	Institution   string     `json:"institution,omitempty"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	UserType      string     `json:"user_type"`
	AccountStatus string     `json:"account_status"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// VerifyUserResponse reports the verified account and how many of its
// waiting bookings moved into the approval queue
type VerifyUserResponse struct {
	User             UserResponse `json:"user"`
	ReleasedBookings int          `json:"released_bookings"`
}
