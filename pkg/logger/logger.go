// Package logger wraps log/slog with a process-wide instance and
// optional size/age based file rotation.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config defines logger initialization options.
// Level supports debug/info/warn/error; Environment selects the handler
// format (prod -> JSON, anything else -> text). When File is set, output
// is duplicated to a rotating log file.
type Config struct {
	Level       string
	Environment string
	WithSource  bool

	// Rotating file sink. Zero values fall back to lumberjack defaults.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	global *slog.Logger
	once   sync.Once
)

func levelFromString(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid log level: " + level)
	}
}

// New creates a slog.Logger from the config without touching the global
// instance.
func New(cfg Config) (*slog.Logger, error) {
	lvl, err := levelFromString(cfg.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl, AddSource: cfg.WithSource}
	var handler slog.Handler
	if strings.ToLower(cfg.Environment) == "prod" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(handler), nil
}

// Init initializes the global logger; repeated calls return the logger
// created by the first call.
func Init(cfg Config) (*slog.Logger, error) {
	var initErr error
	once.Do(func() {
		global, initErr = New(cfg)
	})
	return global, initErr
}

// L returns the initialized global logger and panics when Init has not
// run yet.
func L() *slog.Logger {
	if global == nil {
		panic("logger.Init must be called before logger.L")
	}
	return global
}

// LogDetection records one classification outcome as a structured event.
// combination is empty when the per-module scoring path produced the
// selection.
func LogDetection(logger *slog.Logger, workspace, confidence, combination string, external bool, modules int, durationMs int64) {
	attrs := []slog.Attr{
		slog.String("workspace", workspace),
		slog.String("confidence", confidence),
		slog.Bool("external", external),
		slog.Int("modules", modules),
		slog.Int64("duration_ms", durationMs),
	}
	if combination != "" {
		attrs = append(attrs, slog.String("combination", combination))
	}
	logger.LogAttrs(context.Background(), slog.LevelInfo, "meeting detection", attrs...)
}
