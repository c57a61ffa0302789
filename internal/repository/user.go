package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/restockr/auth-service/internal/errors"
	"github.com/restockr/auth-service/internal/model"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
	"gorm.io/gorm"
)

// UserRepository is the gorm-backed user store. Lookup methods return
// (nil, nil) when no row matches.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID finds a user by primary key
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Getting user by ID").
		Uint("user_id", id).
		Log()

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.DebugWithContext(ctx, "User not found by ID").
				Uint("user_id", id).
				Duration(duration).
				Log()
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindByEmail")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Getting user by email").
		String("email", email).
		Log()

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.DebugWithContext(ctx, "User not found by email").
				String("email", email).
				Duration(duration).
				Log()
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// FindByEmailOrProvider finds a user by email or by the identity provider's
// user ID, whichever matches first
func (r *UserRepository) FindByEmailOrProvider(ctx context.Context, email, providerUserID string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindByEmailOrProvider")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Getting user by email or provider ID").
		String("email", email).
		Log()

	start := time.Now()
	var user model.User

	query := r.db.WithContext(ctx)
	if providerUserID != "" {
		query = query.Where("email = ? OR provider_user_id = ?", email, providerUserID)
	} else {
		query = query.Where("email = ?", email)
	}

	result := query.First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.DebugWithContext(ctx, "User not found by email or provider ID").
				String("email", email).
				Duration(duration).
				Log()
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get user by email or provider ID").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// Create inserts a new user. Unique-constraint violations come back as
// conflict domain errors naming the offending field.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Create")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Creating new user").
		String("email", user.Email).
		String("role", string(user.Role)).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			field := conflictField(result.Error)
			logger.WarnWithContext(ctx, "Unique constraint violated on create").
				String("email", user.Email).
				String("field", field).
				Duration(duration).
				Log()
			return apperrors.NewConflictError(field)
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

// Update applies the non-zero profile fields of user to the row
func (r *UserRepository) Update(ctx context.Context, id uint, user *model.User) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Update")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	updates := map[string]interface{}{}
	if user.FullName != "" {
		updates["full_name"] = user.FullName
	}
	if user.PhoneNumber != "" {
		updates["phone_number"] = user.PhoneNumber
	}
	if user.City != "" {
		updates["city"] = user.City
	}

	if len(updates) == 0 {
		logger.DebugWithContext(ctx, "No fields to update").
			Uint("user_id", id).
			Log()
		return nil
	}

	logger.DebugWithContext(ctx, "Updating user").
		Uint("user_id", id).
		Int("field_count", len(updates)).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	duration := time.Since(start)

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			field := conflictField(result.Error)
			logger.WarnWithContext(ctx, "Unique constraint violated on update").
				Uint("user_id", id).
				String("field", field).
				Duration(duration).
				Log()
			return apperrors.NewConflictError(field)
		}
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User updated successfully").
		Uint("user_id", id).
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()

	return nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdatePassword")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Updating user password").
		Uint("user_id", id).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", passwordHash)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update user password").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update password").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User password updated successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// StoreRefreshToken overwrites the single stored refresh token slot
func (r *UserRepository) StoreRefreshToken(ctx context.Context, id uint, refreshToken string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "StoreRefreshToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Storing refresh token").
		Uint("user_id", id).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", refreshToken)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to store refresh token").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Refresh token stored successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// ClearRefreshToken removes the stored refresh token, ending the session
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ClearRefreshToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Clearing refresh token").
		Uint("user_id", id).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("refresh_token", nil)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to clear refresh token").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Refresh token cleared successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateLastLogin")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", time.Now())
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "Last login updated successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// SetActivationToken stores a fresh activation token, superseding any
// previous one
func (r *UserRepository) SetActivationToken(ctx context.Context, id uint, token string, expiry time.Time) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SetActivationToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Setting activation token").
		Uint("user_id", id).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"activation_token":        token,
		"activation_token_expiry": expiry,
	})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to set activation token").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to set activation token").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.DebugWithContext(ctx, "Activation token set successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// ConsumeActivation activates the account and clears the activation fields
// in one conditional update. Returns false when the stored token no longer
// matches, meaning another request consumed it first.
func (r *UserRepository) ConsumeActivation(ctx context.Context, id uint, token string) (bool, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ConsumeActivation")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Consuming activation token").
		Uint("user_id", id).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND activation_token = ? AND is_active = ?", id, token, false).
		Updates(map[string]interface{}{
			"is_active":               true,
			"activation_token":        nil,
			"activation_token_expiry": nil,
		})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to consume activation token").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	consumed := result.RowsAffected > 0

	logger.DebugWithContext(ctx, "Activation consume finished").
		Uint("user_id", id).
		Bool("consumed", consumed).
		Duration(duration).
		Log()

	return consumed, nil
}

// LinkProvider attaches a social identity to an existing account and
// activates it. The password hash is written only when non-nil.
func (r *UserRepository) LinkProvider(ctx context.Context, id uint, provider, providerUserID string, passwordHash *string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "LinkProvider")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Linking identity provider").
		Uint("user_id", id).
		String("provider", provider).
		Bool("sets_password", passwordHash != nil).
		Log()

	updates := map[string]interface{}{
		"auth_provider":    provider,
		"provider_user_id": providerUserID,
		"is_active":        true,
	}
	if passwordHash != nil {
		updates["password"] = *passwordHash
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to link identity provider").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to link provider").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Identity provider linked successfully").
		Uint("user_id", id).
		String("provider", provider).
		Duration(duration).
		Log()

	return nil
}

// Deactivate disables the account and clears its refresh token
func (r *UserRepository) Deactivate(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Deactivate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	logger.DebugWithContext(ctx, "Deactivating user").
		Uint("user_id", id).
		Log()

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":     false,
		"refresh_token": nil,
	})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate user").
			Uint("user_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to deactivate").
			Uint("user_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "User deactivated successfully").
		Uint("user_id", id).
		Duration(duration).
		Log()

	return nil
}

// isUniqueViolation reports whether err is a unique-constraint violation
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}

// conflictField extracts which unique column a duplicate-key error hit.
// Postgres includes the constraint name in the message.
func conflictField(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "phone"):
		return "phone_number"
	}
	return "field"
}
