// Package logger provides a zap-backed implementation of ports.Logger.
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tradejournal/internal/ports"
)

// ZapLogger implements ports.Logger on top of a zap.Logger.
type ZapLogger struct {
	log *zap.Logger
}

var _ ports.Logger = (*ZapLogger)(nil)

// New builds a production-configured zap logger at the given level.
// Unrecognized level strings fall back to info.
func New(level string) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{log: log}, nil
}

// NewNop returns a logger that discards everything. Useful in tests.
func NewNop() *ZapLogger {
	return &ZapLogger{log: zap.NewNop()}
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.log.Debug(msg, zapFields(nil, fields)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.log.Info(msg, zapFields(nil, fields)...)
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	l.log.Warn(msg, zapFields(nil, fields)...)
}

func (l *ZapLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	l.log.Error(msg, zapFields(err, fields)...)
}

// zapFields flattens the variadic field maps into zap fields, with the
// error (if any) first.
func zapFields(err error, maps []map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, 8)
	if err != nil {
		out = append(out, zap.Error(err))
	}
	for _, m := range maps {
		for k, v := range m {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
