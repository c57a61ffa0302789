package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRole enumerates the platform roles
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleVendor   UserRole = "vendor"
	RoleRider    UserRole = "rider"
)

// IsValid reports whether the role is one of the known platform roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleRider:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	FullName    string   `gorm:"type:varchar(255);not null" json:"full_name"`
	Email       string   `gorm:"type:varchar(255);uniqueIndex:idx_users_email;not null" json:"email"`
	PhoneNumber string   `gorm:"type:varchar(50);uniqueIndex:idx_users_phone_number;not null" json:"phone_number"`
	Role        UserRole `gorm:"type:varchar(20);not null;index:idx_users_role;check:role IN ('customer', 'vendor', 'rider')" json:"role"`

	// Authentication. Password is null for pure social accounts; a social
	// account may later gain a password (hybrid auth).
	Password *string `gorm:"type:varchar(255)" json:"-"`
	IsActive bool    `gorm:"default:false;not null;index:idx_users_is_active" json:"is_active"`

	// Social linkage
	AuthProvider   *string `gorm:"type:varchar(50)" json:"auth_provider,omitempty"`
	ProviderUserID *string `gorm:"type:varchar(255);index:idx_users_provider_user_id" json:"-"`

	// Activation state, cleared on consume
	ActivationToken       *string    `gorm:"type:varchar(255);index:idx_users_activation_token" json:"-"`
	ActivationTokenExpiry *time.Time `gorm:"type:timestamptz" json:"-"`

	// Session state. RefreshToken is single-slot: only the most recently
	// stored value is accepted on refresh.
	RefreshToken *string    `gorm:"type:text" json:"-"`
	LastLogin    *time.Time `gorm:"type:timestamptz" json:"last_login,omitempty"`

	// Location information
	City     string         `gorm:"type:varchar(100);default:'Abuja';not null" json:"city"`
	Location datatypes.JSON `gorm:"type:jsonb" json:"location,omitempty"`

	EmailConfirmed bool `gorm:"default:false;not null" json:"email_confirmed"`
}

// HasPassword reports whether the account carries a local password credential
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}
