package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/restockr/auth-service/config"
	"github.com/restockr/auth-service/internal/constants"
)

var Logger *zap.Logger

// InitLogger builds the process-wide zap logger. Entries always land as JSON
// in files under the configured logs directory; stdout mirrors them, human
// readable in development and JSON in production.
func InitLogger(cfg *config.Config) error {
	logsPath := cfg.App.LogsPath
	if logsPath == "" {
		logsPath = "./logs"
	}
	if err := os.MkdirAll(logsPath, 0755); err != nil {
		return err
	}

	production := cfg.App.Environment == constants.EnvProduction

	level := zapcore.DebugLevel
	if production {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	appFile, err := openLogFile(filepath.Join(logsPath, "app.log"))
	if err != nil {
		return err
	}
	errorFile, err := openLogFile(filepath.Join(logsPath, "error.log"))
	if err != nil {
		appFile.Close()
		return err
	}

	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	consoleEncoder := zapcore.Encoder(jsonEncoder)
	if !production {
		devConfig := encoderConfig
		devConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(devConfig)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(jsonEncoder, zapcore.AddSync(appFile), level),
		zapcore.NewCore(jsonEncoder, zapcore.AddSync(errorFile), zapcore.ErrorLevel),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	)

	Logger = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", cfg.App.Name)),
	)

	return nil
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// GetLogger returns the structured logger
func GetLogger() *zap.Logger {
	return Logger
}

// Sync flushes buffered log entries. Call before the process exits.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogPanic records a recovered panic with its stack.
func LogPanic(recovered interface{}) {
	Logger.Error("Panic recovered",
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	)
}

// LogAuth records an authentication event. Failures log at warn so they
// stand out when scanning for abuse.
func LogAuth(subject, action string, success bool, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("subject", subject),
		zap.String("action", action),
		zap.Bool("success", success),
	}, fields...)

	if success {
		Logger.Info("Authentication event", allFields...)
	} else {
		Logger.Warn("Authentication event", allFields...)
	}
}
