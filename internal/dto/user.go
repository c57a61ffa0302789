package dto

import (
	"time"

	"github.com/restockr/auth-service/internal/model"
)

type SignupRequest struct {
	FullName    string `json:"full_name" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required,phone_number"`
	Password    string `json:"password" binding:"required,password_strength"`
	Role        string `json:"role" binding:"required,user_role"`
	City        string `json:"city" binding:"omitempty,max=100"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"full_name" binding:"omitempty,min=2,max=255"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone_number"`
	City        string `json:"city" binding:"omitempty,max=100"`
}

type UserResponse struct {
	ID             uint           `json:"id"`
	FullName       string         `json:"full_name"`
	Email          string         `json:"email"`
	PhoneNumber    string         `json:"phone_number"`
	Role           model.UserRole `json:"role"`
	City           string         `json:"city"`
	IsActive       bool           `json:"is_active"`
	EmailConfirmed bool           `json:"email_confirmed"`
	CreatedAt      time.Time      `json:"created_at"`
	LastLogin      *time.Time     `json:"last_login,omitempty"`
}

// NewUserResponse maps a user record to its public representation
func NewUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		PhoneNumber:    user.PhoneNumber,
		Role:           user.Role,
		City:           user.City,
		IsActive:       user.IsActive,
		EmailConfirmed: user.EmailConfirmed,
		CreatedAt:      user.CreatedAt,
		LastLogin:      user.LastLogin,
	}
}
