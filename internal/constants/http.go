package constants

// HTTP header names used across middleware and handlers.
const (
	HeaderAuthorization      = "Authorization"
	HeaderUserAgent          = "User-Agent"
	HeaderXRequestID         = "X-Request-ID"
	HeaderWWWAuthenticate    = "WWW-Authenticate"
	HeaderXContentTypeOpts   = "X-Content-Type-Options"
	HeaderXFrameOptions      = "X-Frame-Options"
	HeaderXXSSProtection     = "X-XSS-Protection"
	HeaderStrictTransportSec = "Strict-Transport-Security"
)

// AuthSchemeBearer is both the expected Authorization prefix and the
// WWW-Authenticate challenge value on 401 responses.
const AuthSchemeBearer = "Bearer"

// Generic error messages. Endpoint-specific failures carry their own text.
const (
	MsgUnauthorized  = "Unauthorized access"
	MsgForbidden     = "Access forbidden"
	MsgInternalError = "Internal server error"
)

// Acknowledgement messages for operations whose success body is only a message.
const (
	MsgActivationSuccess = "Account activated successfully"
	MsgActivationResent  = "Activation token resent. Check your email."
	MsgLogoutSuccess     = "Logged out successfully"
	MsgAccountDeleted    = "Account deactivated successfully"
)
