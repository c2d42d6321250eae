package obs

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.Mutex
	logger   *zap.Logger
)

// InitLogger builds the process-wide logger. Development mode uses the
// human-readable console encoder; anything else emits JSON lines.
func InitLogger(env, level string) *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	built, err := cfg.Build()
	if err != nil {
		built = zap.NewNop()
	}
	logger = built
	return logger
}

// SetLogger swaps the shared logger and returns the previous one. Tests
// use this to capture output with an observer core.
func SetLogger(l *zap.Logger) *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	prev := logger
	logger = l
	return prev
}

// Logger returns the shared logger, falling back to a no-op logger when
// InitLogger has not run (tests, helper binaries).
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}
