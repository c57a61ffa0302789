package ctxutil

import (
	"context"
	"time"

	"github.com/restockr/auth-service/internal/constants"
)

// ContextKey aliases the shared typed key so values set here can never
// collide with other packages' context values.
type ContextKey = constants.ContextKey

const (
	RequestIDKey = constants.CtxKeyRequestID
	UserIDKey    = constants.CtxKeyUserID
	UserEmailKey = constants.CtxKeyUserEmail
	UserRoleKey  = constants.CtxKeyUserRole
	ClientIPKey  = constants.CtxKeyClientIP
	UserAgentKey = constants.CtxKeyUserAgent
	ModuleKey    = constants.CtxKeyModule
	FunctionKey  = constants.CtxKeyFunction
)

// WithValue attaches one tracking value to the context.
func WithValue(ctx context.Context, key ContextKey, value interface{}) context.Context {
	return context.WithValue(ctx, key, value)
}

// WithRequestID attaches the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUser attaches the authenticated principal's identifiers.
func WithUser(ctx context.Context, userID uint, email, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	return context.WithValue(ctx, UserRoleKey, role)
}

// WithTimeout bounds the context.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// NewContext marks the context with the module and function about to run, so
// every log line below carries its origin.
func NewContext(ctx context.Context, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ModuleKey, module)
	return context.WithValue(ctx, FunctionKey, function)
}

func stringValue(ctx context.Context, key ContextKey) string {
	if val, ok := ctx.Value(key).(string); ok {
		return val
	}
	return ""
}

func GetRequestID(ctx context.Context) string { return stringValue(ctx, RequestIDKey) }
func GetClientIP(ctx context.Context) string  { return stringValue(ctx, ClientIPKey) }
func GetUserAgent(ctx context.Context) string { return stringValue(ctx, UserAgentKey) }
func GetUserEmail(ctx context.Context) string { return stringValue(ctx, UserEmailKey) }
func GetUserRole(ctx context.Context) string  { return stringValue(ctx, UserRoleKey) }
func GetModule(ctx context.Context) string    { return stringValue(ctx, ModuleKey) }
func GetFunction(ctx context.Context) string  { return stringValue(ctx, FunctionKey) }

// GetUserID returns the authenticated user ID, if any.
func GetUserID(ctx context.Context) (uint, bool) {
	if val, ok := ctx.Value(UserIDKey).(uint); ok {
		return val, true
	}
	return 0, false
}
