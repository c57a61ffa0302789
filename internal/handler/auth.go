package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restockr/auth-service/internal/constants"
	"github.com/restockr/auth-service/internal/dto"
	apperrors "github.com/restockr/auth-service/internal/errors"
	"github.com/restockr/auth-service/internal/service"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
	"github.com/restockr/auth-service/pkg/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles password authentication and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", req.Email).
		Log()

	response, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		logger.LogAuth(req.Email, "login", false)
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Authentication failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.LogAuth(req.Email, "login", true)
	c.JSON(http.StatusOK, response)
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Refresh")

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid refresh request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	logger.InfoWithContext(ctx, "Token refresh attempt").
		Log()

	response, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Token refresh failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.InfoWithContext(ctx, "Token refreshed successfully").
		Log()
	c.JSON(http.StatusOK, response)
}

// Logout revokes the presented access token and clears the stored refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Logout")

	userID, ok := currentUserID(c)
	if !ok {
		logger.WarnWithContext(ctx, "User not found in context during logout").
			Log()
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.GetErrorMessage(apperrors.ErrInvalidToken)))
		return
	}
	accessToken := c.GetString("access_token")

	if err := h.authService.Logout(ctx, userID, accessToken); err != nil {
		logger.ErrorWithContext(ctx, "Logout failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Logout failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.LogAuth(c.GetString("email"), "logout", true)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLogoutSuccess))
}

// Activate consumes an emailed activation token and enables the account
func (h *AuthHandler) Activate(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Activate")

	var req dto.ActivateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid activation request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	logger.InfoWithContext(ctx, "Account activation attempt").
		String("email", req.Email).
		Log()

	if err := h.authService.Activate(ctx, req.Email, req.ActivationToken); err != nil {
		logger.LogAuth(req.Email, "activate", false)
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Activation failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.LogAuth(req.Email, "activate", true)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgActivationSuccess))
}

// ResendActivation issues a fresh activation token for a not-yet-active account
func (h *AuthHandler) ResendActivation(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "ResendActivation")

	var req dto.ResendActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid resend activation request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	logger.InfoWithContext(ctx, "Activation token resend attempt").
		String("email", req.Email).
		Log()

	if err := h.authService.ResendActivation(ctx, req.Email); err != nil {
		logger.WarnWithContext(ctx, "Activation token resend failed").
			String("email", req.Email).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Resend failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgActivationResent))
}

// SocialAuth signs a provider-verified user in, creating and linking accounts
// as needed. Responds 201 when a new account was created, 200 otherwise.
func (h *AuthHandler) SocialAuth(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "SocialAuth")

	var req dto.SocialSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid social auth request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	logger.InfoWithContext(ctx, "Social auth attempt").
		String("email", req.Email).
		String("provider", req.Provider).
		Log()

	response, created, err := h.authService.SocialAuth(ctx, &req)
	if err != nil {
		logger.LogAuth(req.Email, "social_auth", false)
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Social authentication failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.LogAuth(req.Email, "social_auth", true)
	if created {
		c.JSON(http.StatusCreated, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// currentUserID reads the principal's ID placed in the gin context by the
// auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
