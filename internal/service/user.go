package service

import (
	"context"
	"strings"

	"github.com/restockr/auth-service/internal/dto"
	apperrors "github.com/restockr/auth-service/internal/errors"
	"github.com/restockr/auth-service/internal/model"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/pool"
)

// UserService owns account registration and profile management.
type UserService struct {
	store      UserStore
	hasher     *PasswordHasher
	activation *ActivationService
	notifier   Notifier
	tasks      *pool.WorkerPool
}

func NewUserService(store UserStore, hasher *PasswordHasher, activation *ActivationService, notifier Notifier, tasks *pool.WorkerPool) *UserService {
	return &UserService{
		store:      store,
		hasher:     hasher,
		activation: activation,
		notifier:   notifier,
		tasks:      tasks,
	}
}

// Signup registers a new account. The account starts inactive and cannot log
// in until the emailed activation token is consumed.
func (s *UserService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Signup")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email := normalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Creating new account").
		String("email", email).
		String("role", req.Role).
		Log()

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	token, expiry, err := s.activation.Generate()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate activation token").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		FullName:              strings.TrimSpace(req.FullName),
		Email:                 email,
		PhoneNumber:           strings.TrimSpace(req.PhoneNumber),
		Role:                  model.UserRole(req.Role),
		Password:              &hash,
		IsActive:              false,
		ActivationToken:       &token,
		ActivationTokenExpiry: &expiry,
		City:                  strings.TrimSpace(req.City),
	}

	if err := s.store.Create(ctx, user); err != nil {
		if apperrors.IsDomainError(err) {
			logger.WarnWithContext(ctx, "Signup rejected: duplicate account field").
				String("email", email).
				Err(err).
				Log()
			return nil, err
		}
		logger.ErrorWithContext(ctx, "Failed to create account").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	notifyAsync(ctx, s.tasks, s.notifier, "activation email", func(ctx context.Context) error {
		return s.notifier.SendActivationEmail(ctx, user, token)
	})

	logger.InfoWithContext(ctx, "Account created, awaiting activation").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return dto.NewUserResponse(user), nil
}

// GetProfile returns the account profile for the authenticated user.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetProfile")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get user profile").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		logger.WarnWithContext(ctx, "Profile not found").
			Uint("user_id", userID).
			Log()
		return nil, apperrors.ErrUserNotFound
	}

	return dto.NewUserResponse(user), nil
}

// UpdateProfile applies the non-empty fields of the request to the account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateProfile")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	logger.InfoWithContext(ctx, "Updating user profile").
		Uint("user_id", userID).
		Log()

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get user for profile update").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		logger.WarnWithContext(ctx, "Profile update failed: user not found").
			Uint("user_id", userID).
			Log()
		return nil, apperrors.ErrUserNotFound
	}

	// Update only non-empty fields
	updateUser := &model.User{}
	if req.FullName != "" {
		updateUser.FullName = strings.TrimSpace(req.FullName)
	}
	if req.PhoneNumber != "" {
		updateUser.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	}
	if req.City != "" {
		updateUser.City = strings.TrimSpace(req.City)
	}

	if err := s.store.Update(ctx, userID, updateUser); err != nil {
		if apperrors.IsDomainError(err) {
			logger.WarnWithContext(ctx, "Profile update rejected: duplicate field").
				Uint("user_id", userID).
				Err(err).
				Log()
			return nil, err
		}
		logger.ErrorWithContext(ctx, "Failed to update profile").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	updated, err := s.store.FindByID(ctx, userID)
	if err != nil || updated == nil {
		logger.ErrorWithContext(ctx, "Failed to reload updated profile").
			Uint("user_id", userID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Profile updated successfully").
		Uint("user_id", userID).
		Log()

	return dto.NewUserResponse(updated), nil
}

// Deactivate disables the account and clears its stored refresh token. The
// access guard rejects deactivated accounts on the next request, so any
// outstanding access token stops working immediately.
func (s *UserService) Deactivate(ctx context.Context, userID uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Deactivate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	logger.InfoWithContext(ctx, "Deactivating account").
		Uint("user_id", userID).
		Log()

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get user for deactivation").
			Uint("user_id", userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		logger.WarnWithContext(ctx, "Deactivation failed: user not found").
			Uint("user_id", userID).
			Log()
		return apperrors.ErrUserNotFound
	}

	if err := s.store.Deactivate(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to deactivate account").
			Uint("user_id", userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Account deactivated successfully").
		Uint("user_id", userID).
		String("email", user.Email).
		Log()

	return nil
}
