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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Signup registers a new account. The account starts inactive; the activation
// token is delivered by email, never in the response.
func (h *UserHandler) Signup(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "Signup")

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid signup request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	logger.InfoWithContext(ctx, "Signup attempt").
		String("email", req.Email).
		String("role", req.Role).
		Log()

	user, err := h.userService.Signup(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Signup failed").
			String("email", req.Email).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Signup failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.InfoWithContext(ctx, "User registered").
		String("email", user.Email).
		Uint("user_id", user.ID).
		Log()

	c.JSON(http.StatusCreated, user)
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "GetMe")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.GetErrorMessage(apperrors.ErrInvalidToken)))
		return
	}

	user, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch profile").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Failed to fetch profile", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial profile update to the authenticated user
func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "UpdateMe")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.GetErrorMessage(apperrors.ErrInvalidToken)))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid profile update request").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Messages(err)))
		return
	}

	user, err := h.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Profile update failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Profile update failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.InfoWithContext(ctx, "Profile updated").
		Uint("user_id", userID).
		Log()

	c.JSON(http.StatusOK, user)
}

// DeactivateMe soft-disables the authenticated account. Existing access
// tokens stop working on their next request.
func (h *UserHandler) DeactivateMe(c *gin.Context) {
	ctx := ctxutil.NewContext(c.Request.Context(), "handler", "DeactivateMe")

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.GetErrorMessage(apperrors.ErrInvalidToken)))
		return
	}

	if err := h.userService.Deactivate(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "Account deactivation failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse("Deactivation failed", apperrors.GetErrorMessage(err)))
		return
	}

	logger.InfoWithContext(ctx, "Account deactivated").
		Uint("user_id", userID).
		Log()

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgAccountDeleted))
}
