package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with risk-engine specific functionality
type Logger struct {
	*zap.Logger
	serviceName string
}

// New creates a new logger instance
func New(serviceName, environment string, debug bool) (*Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	// Add service metadata
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
		"env":     environment,
		"pid":     os.Getpid(),
	}

	zapLogger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger:      zapLogger,
		serviceName: serviceName,
	}, nil
}

// Named returns a named sub-logger
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		Logger:      l.Logger.Named(name),
		serviceName: l.serviceName,
	}
}

// NewNop returns a no-op logger for tests
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), serviceName: "test"}
}

// WithUser returns a logger with user context
func (l *Logger) WithUser(userID string) *Logger {
	return &Logger{
		Logger:      l.With(zap.String("user_id", userID)),
		serviceName: l.serviceName,
	}
}

// ProfileComputed logs the completion of a user risk profile computation
func (l *Logger) ProfileComputed(userID string, level string, score, signalCount int, durationMs int64) {
	l.Info("risk profile computed",
		zap.String("user_id", userID),
		zap.String("risk_level", level),
		zap.Int("overall_score", score),
		zap.Int("active_signals", signalCount),
		zap.Int64("duration_ms", durationMs),
	)
}

// ScanStarted logs the start of a platform-wide scan
func (l *Logger) ScanStarted(operation string, userCount int) {
	l.Info("platform scan started",
		zap.String("operation", operation),
		zap.Int("user_count", userCount),
	)
}

// ScanCompleted logs the completion of a platform-wide scan
func (l *Logger) ScanCompleted(operation string, analyzed, skipped int, durationMs int64) {
	l.Info("platform scan completed",
		zap.String("operation", operation),
		zap.Int("users_analyzed", analyzed),
		zap.Int("users_skipped", skipped),
		zap.Int64("duration_ms", durationMs),
	)
}

// ScanUserSkipped logs a per-user failure excluded from a platform scan
func (l *Logger) ScanUserSkipped(userID string, err error) {
	l.Warn("user excluded from platform scan",
		zap.String("user_id", userID),
		zap.Error(err),
	)
}

// HighRiskUserFound logs a user crossing the high-risk threshold
func (l *Logger) HighRiskUserFound(userID string, score int) {
	l.Warn("high risk user detected",
		zap.String("user_id", userID),
		zap.Int("overall_score", score),
	)
}

// Helper field functions

// ErrorField creates an error field
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}

// DurationField creates a duration field
func DurationField(name string, d time.Duration) zap.Field {
	return zap.Duration(name, d)
}

// StringField creates a string field
func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

// IntField creates an int field
func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}
