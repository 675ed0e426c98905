// Package logging provides the structured-logging interface used
// throughout the engine. The interface shape (Logger, Field, F,
// NoopLogger) is kept from the teacher's hand-rolled logger; the
// default backend is swapped from a bare *log.Logger to
// go.uber.org/zap.
package logging

import "go.uber.org/zap"

// Level represents the severity of a log message, used to map a
// minimum-level configuration onto zap's AtomicLevel.
type Level int

const (
	// LevelDebug for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo for informational messages.
	LevelInfo
	// LevelWarn for warning messages.
	LevelWarn
	// LevelError for error messages.
	LevelError
)

func (l Level) zapLevel() zap.AtomicLevel {
	switch l {
	case LevelDebug:
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case LevelWarn:
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case LevelError:
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

// Field is a structured logging key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F is a convenience constructor for a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is the interface the engine logs through. Users can supply
// their own implementation via fsqueue.WithLogger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// NoopLogger discards everything. It is the default when no logger is
// configured.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}

// ZapLogger adapts a zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	l *zap.SugaredLogger
}

// NewZapLogger builds a production JSON zap logger at minLevel and
// wraps it. Callers should defer Sync on the returned logger.
func NewZapLogger(minLevel Level) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = minLevel.zapLevel()
	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{l: z.Sugar()}, nil
}

// NewZapLoggerFrom wraps an already-constructed zap logger, for callers
// who configure their own zap.Config (encoding, sinks, sampling).
func NewZapLoggerFrom(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

func toArgs(fields []Field) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}

func (z *ZapLogger) Debug(msg string, fields ...Field) { z.l.Debugw(msg, toArgs(fields)...) }
func (z *ZapLogger) Info(msg string, fields ...Field)  { z.l.Infow(msg, toArgs(fields)...) }
func (z *ZapLogger) Warn(msg string, fields ...Field)  { z.l.Warnw(msg, toArgs(fields)...) }
func (z *ZapLogger) Error(msg string, fields ...Field) { z.l.Errorw(msg, toArgs(fields)...) }

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() error { return z.l.Sync() }

var (
	_ Logger = NoopLogger{}
	_ Logger = (*ZapLogger)(nil)
)
