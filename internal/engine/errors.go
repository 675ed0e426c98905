package engine

import "errors"

// errShutdown is returned by Push once Close has been called. The
// check is best-effort (no lock is held across the whole Push call),
// matching the original's NoThrowOnPushMessageWhileShuttingDown
// config hook rather than providing a hard real-time guarantee.
var errShutdown = errors.New("fsqueue: push rejected, queue is shutting down")

// ErrShutdown is the exported sentinel for errShutdown.
var ErrShutdown = errShutdown
