// Package logging provides config-driven categorized logging for mailtriage.
// Every subsystem logs through a named child of one zap logger; categories can
// be switched off individually in mailtriage.yaml.
package logging

import (
	"fmt"
	"strings"

	"mailtriage/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config, capability detection
	CategoryPerception Category = "perception" // Model reply reconciliation
	CategoryExtract    Category = "extract"    // Rule-based extraction
	CategoryBatch      Category = "batch"      // Batch orchestration
	CategoryIO         Category = "io"         // CSV input/output, sample data
)

// Logger hands out category loggers from a single root.
type Logger struct {
	root *zap.Logger
	cfg  config.LoggingConfig
}

// New builds the root zap logger from config.
func New(cfg config.LoggingConfig) (*Logger, error) {
	zc := zap.NewProductionConfig()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	// A batch run is short; keep every line.
	zc.Sampling = nil
	zc.DisableStacktrace = level > zapcore.DebugLevel

	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
	}

	root, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{root: root, cfg: cfg}, nil
}

// Wrap adopts an existing zap logger (tests use zaptest/observer cores).
func Wrap(root *zap.Logger, cfg config.LoggingConfig) *Logger {
	if root == nil {
		root = zap.NewNop()
	}
	return &Logger{root: root, cfg: cfg}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return Wrap(zap.NewNop(), config.LoggingConfig{})
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", s)
	}
}

// Get returns the logger for a category, or a no-op logger when the
// category is disabled.
func (l *Logger) Get(category Category) *zap.Logger {
	if l == nil || l.root == nil {
		return zap.NewNop()
	}
	if !l.cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return l.root.Named(string(category))
}

// WithRun returns a copy whose entries all carry run_id.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{root: l.root.With(zap.String("run_id", runID)), cfg: l.cfg}
}

// NewRunID returns a fresh identifier for one batch run.
func NewRunID() string {
	return uuid.NewString()
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func (l *Logger) Sync() {
	if l != nil && l.root != nil {
		_ = l.root.Sync()
	}
}
