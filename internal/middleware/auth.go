package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/restockr/auth-service/internal/constants"
	apperrors "github.com/restockr/auth-service/internal/errors"
	"github.com/restockr/auth-service/internal/service"
	ctxutil "github.com/restockr/auth-service/pkg/context"
	"github.com/restockr/auth-service/pkg/logger"
)

// AuthMiddleware guards routes that require an authenticated principal.
type AuthMiddleware struct {
	tokens *service.TokenService
	ledger service.RevocationLedger
	store  service.UserStore
}

func NewAuthMiddleware(tokens *service.TokenService, ledger service.RevocationLedger, store service.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		ledger: ledger,
		store:  store,
	}
}

// RequireAuth validates the bearer token on every request: decode, access
// type tag, revocation ledger, then a fresh subject lookup so deactivation
// and deletion take effect immediately rather than at token expiry.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContext(c.Request.Context(), "middleware", "RequireAuth")

		tokenString, ok := bearerToken(c)
		if !ok {
			logger.WarnWithContext(ctx, "Missing or malformed Authorization header").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Log()
			unauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		claims, err := m.tokens.VerifyType(tokenString, service.TokenTypeAccess)
		if err != nil {
			logger.WarnWithContext(ctx, "Access token rejected").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Err(err).
				Log()
			unauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		if m.ledger.IsBlacklisted(ctx, tokenString) {
			logger.WarnWithContext(ctx, "Revoked access token presented").
				String("email", claims.Subject).
				Log()
			unauthorized(c, apperrors.ErrTokenRevoked)
			return
		}

		user, err := m.store.FindByEmail(ctx, claims.Subject)
		if err != nil {
			logger.ErrorWithContext(ctx, "Failed to load token subject").
				String("email", claims.Subject).
				Err(err).
				Log()
			c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, apperrors.GetErrorMessage(apperrors.ErrInternal)))
			c.Abort()
			return
		}
		if user == nil {
			// The subject was deleted after the token was issued. Indistinguishable
			// from any other bad token on purpose.
			logger.WarnWithContext(ctx, "Token subject no longer exists").
				String("email", claims.Subject).
				Log()
			unauthorized(c, apperrors.ErrInvalidToken)
			return
		}

		if !user.IsActive {
			logger.WarnWithContext(ctx, "Deactivated account attempted access").
				Uint("user_id", user.ID).
				String("email", user.Email).
				Log()
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgForbidden, apperrors.GetErrorMessage(apperrors.ErrAccountDeactivated)))
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("role", string(user.Role))
		c.Set("access_token", tokenString)
		c.Request = c.Request.WithContext(ctxutil.WithUser(c.Request.Context(), user.ID, user.Email, string(user.Role)))

		logger.DebugWithContext(ctx, "Request authenticated").
			Uint("user_id", user.ID).
			String("email", user.Email).
			String("role", string(user.Role)).
			Log()

		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != constants.AuthSchemeBearer || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context, err error) {
	c.Header(constants.HeaderWWWAuthenticate, constants.AuthSchemeBearer)
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, apperrors.GetErrorMessage(err)))
	c.Abort()
}
