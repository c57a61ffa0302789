package service

import (
	"context"
	"time"

	"github.com/restockr/auth-service/internal/model"
)

// UserStore is the persistence surface the account and session services
// depend on. Lookup methods return (nil, nil) when no row matches; errors
// are reserved for storage failures. Create and Update map unique-constraint
// violations to conflict domain errors naming the offending field.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByEmailOrProvider matches on either the email or the provider's
	// user ID, so a social sign-in finds the account even when the provider
	// reports a different email.
	FindByEmailOrProvider(ctx context.Context, email, providerUserID string) (*model.User, error)

	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uint, user *model.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error

	// StoreRefreshToken overwrites the single stored refresh token slot.
	StoreRefreshToken(ctx context.Context, id uint, refreshToken string) error
	ClearRefreshToken(ctx context.Context, id uint) error
	UpdateLastLogin(ctx context.Context, id uint) error

	SetActivationToken(ctx context.Context, id uint, token string, expiry time.Time) error
	// ConsumeActivation atomically activates the account and clears the
	// activation token, provided the stored token still matches. Returns
	// false when another consume won the race.
	ConsumeActivation(ctx context.Context, id uint, token string) (bool, error)

	// LinkProvider attaches a social identity to an existing account and
	// activates it. The password hash is set only when non-nil.
	LinkProvider(ctx context.Context, id uint, provider, providerUserID string, passwordHash *string) error

	// Deactivate disables the account and clears its refresh token.
	Deactivate(ctx context.Context, id uint) error
}
