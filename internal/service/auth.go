package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/restockr/auth-service/internal/dto"
	apperrors "github.com/restockr/auth-service/internal/errors"
	"github.com/restockr/auth-service/internal/model"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/pool"
)

// AuthService owns the session lifecycle: login, refresh, logout, account
// activation and social sign-in.
type AuthService struct {
	store      UserStore
	hasher     *PasswordHasher
	tokens     *TokenService
	activation *ActivationService
	ledger     RevocationLedger
	notifier   Notifier
	tasks      *pool.WorkerPool
}

func NewAuthService(store UserStore, hasher *PasswordHasher, tokens *TokenService, activation *ActivationService, ledger RevocationLedger, notifier Notifier, tasks *pool.WorkerPool) *AuthService {
	return &AuthService{
		store:      store,
		hasher:     hasher,
		tokens:     tokens,
		activation: activation,
		ledger:     ledger,
		notifier:   notifier,
		tasks:      tasks,
	}
}

// Login verifies an email/password pair and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Login")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email = normalizeEmail(email)

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", email).
		Log()

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up user for login").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Unknown email, a passwordless social account and a wrong password all
	// take this one branch, so the response never reveals whether the
	// account exists.
	if user == nil || !user.HasPassword() || !s.hasher.Verify(*user.Password, password) {
		logger.WarnWithContext(ctx, "Login rejected: invalid credentials").
			String("email", email).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.WarnWithContext(ctx, "Login rejected: account not activated").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrAccountNotActivated
	}

	response, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login timestamp").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		// Continue even if update fails
	}

	logger.InfoWithContext(ctx, "User logged in successfully").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return response, nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented
// token must match the single stored slot exactly and is rotated out by the
// exchange, so each refresh token works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Refresh")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	logger.InfoWithContext(ctx, "Token refresh attempt").Log()

	claims, err := s.tokens.VerifyType(refreshToken, TokenTypeRefresh)
	if err != nil {
		logger.WarnWithContext(ctx, "Refresh rejected: invalid token").
			Log()
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.store.FindByEmail(ctx, claims.Subject)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up user for refresh").
			String("email", claims.Subject).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// An unknown subject and a superseded token are both reported as the
	// same invalid-token outcome.
	if user == nil || user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		logger.WarnWithContext(ctx, "Refresh rejected: token does not match stored session").
			String("email", claims.Subject).
			Log()
		return nil, apperrors.ErrInvalidToken
	}

	if !user.IsActive {
		logger.WarnWithContext(ctx, "Refresh rejected: account deactivated").
			String("email", claims.Subject).
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrAccountDeactivated
	}

	response, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login timestamp").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		// Continue even if update fails
	}

	logger.InfoWithContext(ctx, "Token refreshed successfully").
		String("email", claims.Subject).
		Uint("user_id", user.ID).
		Log()

	return response, nil
}

// Logout revokes the presented access token for its remaining life and
// clears the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uint, accessToken string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Logout")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	logger.InfoWithContext(ctx, "User logout attempt").
		Uint("user_id", userID).
		Log()

	if claims, err := s.tokens.VerifyType(accessToken, TokenTypeAccess); err == nil {
		if err := s.ledger.Blacklist(ctx, accessToken, time.Until(claims.ExpiresAt)); err != nil {
			logger.WarnWithContext(ctx, "Failed to blacklist access token on logout").
				Uint("user_id", userID).
				Err(err).
				Log()
			// Continue; clearing the refresh token still ends the session
		}
	}

	if err := s.store.ClearRefreshToken(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to clear refresh token on logout").
			Uint("user_id", userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out successfully").
		Uint("user_id", userID).
		Log()

	return nil
}

// Activate consumes an activation token and marks the account active. The
// token is single use; the activating update is conditional on the stored
// token so concurrent consumes cannot both succeed.
func (s *AuthService) Activate(ctx context.Context, email, token string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "Activate")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email = normalizeEmail(email)

	logger.InfoWithContext(ctx, "Account activation attempt").
		String("email", email).
		Log()

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up user for activation").
			String("email", email).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		logger.WarnWithContext(ctx, "Activation failed: user not found").
			String("email", email).
			Log()
		return apperrors.ErrUserNotFound
	}

	if user.IsActive {
		logger.InfoWithContext(ctx, "Activation skipped: account already active").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrAlreadyActive
	}

	if user.ActivationToken == nil || *user.ActivationToken != token {
		logger.WarnWithContext(ctx, "Activation failed: token mismatch").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrActivationInvalid
	}

	if user.ActivationTokenExpiry != nil && user.ActivationTokenExpiry.Before(time.Now()) {
		logger.WarnWithContext(ctx, "Activation failed: token expired").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrActivationExpired
	}

	consumed, err := s.store.ConsumeActivation(ctx, user.ID, token)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to consume activation token").
			String("email", email).
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !consumed {
		// Lost the race against another consume of the same token
		logger.WarnWithContext(ctx, "Activation failed: token already consumed").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrActivationInvalid
	}

	notifyAsync(ctx, s.tasks, s.notifier, "welcome email", func(ctx context.Context) error {
		return s.notifier.SendWelcomeEmail(ctx, user)
	})

	logger.InfoWithContext(ctx, "Account activated successfully").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ResendActivation rotates the activation token and re-sends the activation
// email. The previous token stops working as soon as the new one is stored.
func (s *AuthService) ResendActivation(ctx context.Context, email string) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "ResendActivation")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email = normalizeEmail(email)

	logger.InfoWithContext(ctx, "Activation resend requested").
		String("email", email).
		Log()

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up user for activation resend").
			String("email", email).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		logger.WarnWithContext(ctx, "Activation resend failed: user not found").
			String("email", email).
			Log()
		return apperrors.ErrUserNotFound
	}

	if user.IsActive {
		logger.InfoWithContext(ctx, "Activation resend skipped: account already active").
			String("email", email).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrAlreadyActive
	}

	token, expiry, err := s.activation.Generate()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate activation token").
			String("email", email).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.SetActivationToken(ctx, user.ID, token, expiry); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store activation token").
			String("email", email).
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	notifyAsync(ctx, s.tasks, s.notifier, "activation email", func(ctx context.Context) error {
		return s.notifier.SendActivationEmail(ctx, user, token)
	})

	logger.InfoWithContext(ctx, "Activation email resent").
		String("email", email).
		Uint("user_id", user.ID).
		Log()

	return nil
}

// SocialAuth signs a user in through an identity provider, creating or
// linking the account as needed. Returns created=true when a new account was
// provisioned by this call.
func (s *AuthService) SocialAuth(ctx context.Context, req *dto.SocialSignupRequest) (*dto.TokenResponse, bool, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "SocialAuth")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "service")

	email := normalizeEmail(req.Email)

	logger.InfoWithContext(ctx, "Social sign-in attempt").
		String("email", email).
		String("provider", req.Provider).
		Log()

	user, err := s.store.FindByEmailOrProvider(ctx, email, req.ProviderUserID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up user for social sign-in").
			String("email", email).
			Err(err).
			Log()
		return nil, false, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	created := false
	switch {
	case user == nil:
		user, err = s.createSocialAccount(ctx, req, email)
		if err != nil {
			return nil, false, err
		}
		created = true

	default:
		// Hybrid auth: a password supplied alongside the provider assertion
		// is stored only when the account has none. An existing hash is
		// never overwritten.
		var passwordHash *string
		if req.Password != "" && !user.HasPassword() {
			hash, err := s.hasher.Hash(req.Password)
			if err != nil {
				logger.ErrorWithContext(ctx, "Failed to hash password for social account").
					String("email", email).
					Err(err).
					Log()
				return nil, false, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			passwordHash = &hash
		}

		if user.AuthProvider == nil {
			// First social sign-in on an existing local account: link the
			// provider and activate.
			if err := s.store.LinkProvider(ctx, user.ID, req.Provider, req.ProviderUserID, passwordHash); err != nil {
				logger.ErrorWithContext(ctx, "Failed to link identity provider").
					String("email", email).
					Uint("user_id", user.ID).
					Err(err).
					Log()
				return nil, false, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			user.IsActive = true

			logger.InfoWithContext(ctx, "Linked identity provider to existing account").
				String("email", email).
				String("provider", req.Provider).
				Uint("user_id", user.ID).
				Log()
		} else if passwordHash != nil {
			if err := s.store.UpdatePassword(ctx, user.ID, *passwordHash); err != nil {
				logger.ErrorWithContext(ctx, "Failed to store password for social account").
					String("email", email).
					Uint("user_id", user.ID).
					Err(err).
					Log()
				return nil, false, apperrors.WrapError(apperrors.ErrInternal, err)
			}

			logger.InfoWithContext(ctx, "Password credential added to social account").
				String("email", email).
				Uint("user_id", user.ID).
				Log()
		}
	}

	response, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, false, err
	}

	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login timestamp").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		// Continue even if update fails
	}

	logger.InfoWithContext(ctx, "Social sign-in succeeded").
		String("email", email).
		String("provider", req.Provider).
		Uint("user_id", user.ID).
		Bool("created", created).
		Log()

	return response, created, nil
}

// createSocialAccount provisions a pre-activated account from provider data.
func (s *AuthService) createSocialAccount(ctx context.Context, req *dto.SocialSignupRequest, email string) (*model.User, error) {
	user := &model.User{
		FullName:       strings.TrimSpace(req.FullName),
		Email:          email,
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		Role:           model.UserRole(req.Role),
		IsActive:       true,
		EmailConfirmed: true,
		AuthProvider:   &req.Provider,
		ProviderUserID: &req.ProviderUserID,
		City:           strings.TrimSpace(req.City),
	}

	// Providers rarely share phone numbers; fill the unique column with a
	// placeholder the user can overwrite from their profile.
	if user.PhoneNumber == "" {
		user.PhoneNumber = placeholderPhone()
	}

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			logger.ErrorWithContext(ctx, "Failed to hash password for social account").
				String("email", email).
				Err(err).
				Log()
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		user.Password = &hash
	}

	if err := s.store.Create(ctx, user); err != nil {
		if apperrors.IsDomainError(err) {
			logger.WarnWithContext(ctx, "Social account creation rejected: duplicate field").
				String("email", email).
				Err(err).
				Log()
			return nil, err
		}
		logger.ErrorWithContext(ctx, "Failed to create social account").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Social account created").
		String("email", email).
		String("provider", req.Provider).
		Uint("user_id", user.ID).
		Log()

	return user, nil
}

// issueSession mints an access/refresh pair and persists the refresh token
// as the account's single session slot.
func (s *AuthService) issueSession(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.Email, user.Role)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue access token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.Email)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to issue refresh token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.StoreRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store refresh token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// normalizeEmail lowercases and trims an email before any lookup or insert.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// placeholderPhone derives a throwaway unique phone number for social
// accounts created without one.
func placeholderPhone() string {
	return fmt.Sprintf("+234%d", time.Now().Unix())
}
