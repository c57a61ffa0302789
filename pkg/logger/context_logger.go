package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	ctxutil "github.com/restockr/auth-service/pkg/context"
)

// LogBuilder accumulates fields for one log entry. Entries created through
// the *WithContext helpers start out carrying whatever request-scoped fields
// the context holds, so call sites only add what is specific to them.
type LogBuilder struct {
	level     zapcore.Level
	message   string
	fields    []zap.Field
	shouldLog bool
}

func newLogBuilder(ctx context.Context, level zapcore.Level, message string) *LogBuilder {
	b := &LogBuilder{
		level:     level,
		message:   message,
		shouldLog: levelEnabled(level),
	}
	if b.shouldLog {
		b.fields = contextFields(ctx)
	}
	return b
}

// levelEnabled consults the core before any fields are built, so entries
// below the configured level cost almost nothing.
func levelEnabled(level zapcore.Level) bool {
	if Logger == nil {
		return false
	}
	return Logger.Core().Enabled(level)
}

func contextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 12)
	if ctx == nil {
		return fields
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(ctx); clientIP != "" {
		fields = append(fields, zap.String("client_ip", clientIP))
	}
	if userAgent := ctxutil.GetUserAgent(ctx); userAgent != "" {
		fields = append(fields, zap.String("user_agent", userAgent))
	}
	if userID, ok := ctxutil.GetUserID(ctx); ok {
		fields = append(fields, zap.Uint("user_id", userID))
	}
	if email := ctxutil.GetUserEmail(ctx); email != "" {
		fields = append(fields, zap.String("user_email", email))
	}
	if role := ctxutil.GetUserRole(ctx); role != "" {
		fields = append(fields, zap.String("user_role", role))
	}
	if module := ctxutil.GetModule(ctx); module != "" {
		fields = append(fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(ctx); function != "" {
		fields = append(fields, zap.String("function", function))
	}
	return fields
}

func (b *LogBuilder) add(field zap.Field) *LogBuilder {
	if b.shouldLog {
		b.fields = append(b.fields, field)
	}
	return b
}

func (b *LogBuilder) String(key, value string) *LogBuilder {
	return b.add(zap.String(key, value))
}

func (b *LogBuilder) Int(key string, value int) *LogBuilder {
	return b.add(zap.Int(key, value))
}

func (b *LogBuilder) Int64(key string, value int64) *LogBuilder {
	return b.add(zap.Int64(key, value))
}

func (b *LogBuilder) Uint(key string, value uint) *LogBuilder {
	return b.add(zap.Uint(key, value))
}

func (b *LogBuilder) Bool(key string, value bool) *LogBuilder {
	return b.add(zap.Bool(key, value))
}

func (b *LogBuilder) Duration(value time.Duration) *LogBuilder {
	return b.add(zap.Duration("duration", value))
}

func (b *LogBuilder) Method(method string) *LogBuilder {
	return b.add(zap.String("method", method))
}

func (b *LogBuilder) Path(path string) *LogBuilder {
	return b.add(zap.String("path", path))
}

// Err attaches an error field. Nil errors add nothing.
func (b *LogBuilder) Err(err error) *LogBuilder {
	if err == nil {
		return b
	}
	return b.add(zap.Error(err))
}

// Log writes the built entry.
func (b *LogBuilder) Log() {
	if !b.shouldLog {
		return
	}

	switch b.level {
	case zapcore.DebugLevel:
		Logger.Debug(b.message, b.fields...)
	case zapcore.InfoLevel:
		Logger.Info(b.message, b.fields...)
	case zapcore.WarnLevel:
		Logger.Warn(b.message, b.fields...)
	case zapcore.ErrorLevel:
		Logger.Error(b.message, b.fields...)
	}
}

func DebugWithContext(ctx context.Context, message string) *LogBuilder {
	return newLogBuilder(ctx, zapcore.DebugLevel, message)
}

func InfoWithContext(ctx context.Context, message string) *LogBuilder {
	return newLogBuilder(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *LogBuilder {
	return newLogBuilder(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *LogBuilder {
	return newLogBuilder(ctx, zapcore.ErrorLevel, message)
}
