package fsqueue

import (
	"errors"

	"github.com/vnykmshr/fsqueue/internal/engine"
	"github.com/vnykmshr/fsqueue/internal/fs"
)

// ErrShutdown is returned by Push once Close has been called.
var ErrShutdown = engine.ErrShutdown

// ErrProcessorRequired is returned by Open when no Processor is given.
var ErrProcessorRequired = errors.New("fsqueue: a Processor is required")

// IoErrorKind classifies an IoError, mirroring the internal fs
// package's classification.
type IoErrorKind int

const (
	IoErrorOther IoErrorKind = iota
	IoErrorNotFound
	IoErrorExists
	IoErrorPermission
	IoErrorFull
)

// IoError is returned by Push, ForceProcessing, and RemoveAllFiles for
// filesystem failures, classified so callers can distinguish transient
// conditions (IoErrorFull) from programming errors (IoErrorPermission).
type IoError struct {
	Kind IoErrorKind
	Path string
	Err  error
}

func (e *IoError) Error() string { return e.Err.Error() }
func (e *IoError) Unwrap() error { return e.Err }

// asIoError converts an internal fs.IoError into the public IoError,
// or returns err unchanged if it isn't one.
func asIoError(err error) error {
	var inner *fs.IoError
	if !errors.As(err, &inner) {
		return err
	}
	kind := IoErrorOther
	switch inner.Kind {
	case fs.KindNotFound:
		kind = IoErrorNotFound
	case fs.KindExists:
		kind = IoErrorExists
	case fs.KindPermission:
		kind = IoErrorPermission
	case fs.KindFull:
		kind = IoErrorFull
	}
	return &IoError{Kind: kind, Path: inner.Path, Err: inner}
}
