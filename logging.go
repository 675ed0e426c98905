package fsqueue

import "github.com/vnykmshr/fsqueue/internal/logging"

// Field is a structured logging key/value pair, mirroring the
// internal logging package's shape so callers of WithLogger never
// need to import an internal package.
type Field struct {
	Key   string
	Value interface{}
}

// F is a convenience constructor for a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is the interface fsqueue logs through. Implement this to
// route fsqueue's logs into your application's own logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

func toInternalFields(fields []Field) []logging.Field {
	out := make([]logging.Field, len(fields))
	for i, f := range fields {
		out[i] = logging.F(f.Key, f.Value)
	}
	return out
}

// internalLoggerAdapter satisfies the engine's internal logging.Logger
// interface by delegating to a public-facing Logger supplied via
// WithLogger.
type internalLoggerAdapter struct {
	l Logger
}

func (a internalLoggerAdapter) Debug(msg string, fields ...logging.Field) {
	a.l.Debug(msg, fromInternalFields(fields)...)
}
func (a internalLoggerAdapter) Info(msg string, fields ...logging.Field) {
	a.l.Info(msg, fromInternalFields(fields)...)
}
func (a internalLoggerAdapter) Warn(msg string, fields ...logging.Field) {
	a.l.Warn(msg, fromInternalFields(fields)...)
}
func (a internalLoggerAdapter) Error(msg string, fields ...logging.Field) {
	a.l.Error(msg, fromInternalFields(fields)...)
}

func fromInternalFields(fields []logging.Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = F(f.Key, f.Value)
	}
	return out
}

func adaptLogger(l Logger) logging.Logger {
	if l == nil {
		return logging.NoopLogger{}
	}
	return internalLoggerAdapter{l: l}
}

// queueIDLogger prepends a queue_id field to every call, so logs from
// a process running several queues can be attributed to the one that
// emitted them.
type queueIDLogger struct {
	inner logging.Logger
	id    logging.Field
}

func tagWithQueueID(inner logging.Logger, id string) logging.Logger {
	return queueIDLogger{inner: inner, id: logging.F("queue_id", id)}
}

func (q queueIDLogger) prepend(fields []logging.Field) []logging.Field {
	return append([]logging.Field{q.id}, fields...)
}

func (q queueIDLogger) Debug(msg string, fields ...logging.Field) { q.inner.Debug(msg, q.prepend(fields)...) }
func (q queueIDLogger) Info(msg string, fields ...logging.Field)  { q.inner.Info(msg, q.prepend(fields)...) }
func (q queueIDLogger) Warn(msg string, fields ...logging.Field)  { q.inner.Warn(msg, q.prepend(fields)...) }
func (q queueIDLogger) Error(msg string, fields ...logging.Field) { q.inner.Error(msg, q.prepend(fields)...) }

// NewZapLogger returns a Logger backed by go.uber.org/zap at the
// given minimum level (logging.LevelDebug, LevelInfo, LevelWarn, or
// LevelError), for passing to WithLogger. Without WithLogger, a Queue
// discards its logs.
func NewZapLogger(minLevel logging.Level) (Logger, error) {
	z, err := logging.NewZapLogger(minLevel)
	if err != nil {
		return nil, err
	}
	return zapLoggerWrapper{z}, nil
}

type zapLoggerWrapper struct {
	z *logging.ZapLogger
}

func (w zapLoggerWrapper) Debug(msg string, fields ...Field) { w.z.Debug(msg, toInternalFields(fields)...) }
func (w zapLoggerWrapper) Info(msg string, fields ...Field)  { w.z.Info(msg, toInternalFields(fields)...) }
func (w zapLoggerWrapper) Warn(msg string, fields ...Field)  { w.z.Warn(msg, toInternalFields(fields)...) }
func (w zapLoggerWrapper) Error(msg string, fields ...Field) { w.z.Error(msg, toInternalFields(fields)...) }

// Sync flushes the underlying zap logger's buffer.
func (w zapLoggerWrapper) Sync() error { return w.z.Sync() }
