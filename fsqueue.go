// Package fsqueue implements a durable, filesystem-backed message
// queue: producers Push messages into an append-only current file; once
// it crosses a size or age threshold it is atomically sealed into the
// finalized family and handed, in order, to a user-supplied Processor.
// Failed and unavailable files are retried or suspended without losing
// their place in line, and a purge controller keeps total disk usage
// bounded. See SPEC_FULL.md for the full design.
package fsqueue

import (
	"github.com/google/uuid"

	"github.com/vnykmshr/fsqueue/internal/engine"
	"github.com/vnykmshr/fsqueue/internal/policy"
)

// Queue is a durable, single-directory FIFO of append-sealed files.
// A Queue is safe for concurrent use by multiple goroutines calling
// Push, ForceProcessing, Resume, GetQueueStatus, and Close.
type Queue struct {
	id  uuid.UUID
	eng *engine.Queue
}

// Open opens (or creates) a queue rooted at dir and starts its worker
// goroutine, which immediately begins recovering any state left by a
// prior run (spec.md §4.F). processor is required; it is invoked for
// each sealed file (again for a file that is retried or re-dispatched
// after Unavailable), never concurrently with itself.
func Open(dir string, processor Processor, opts ...Option) (*Queue, error) {
	if processor == nil {
		return nil, ErrProcessorRequired
	}

	o := DefaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	if err := o.fs.MkdirAll(dir); err != nil {
		return nil, asIoError(err)
	}

	id := uuid.New()

	eng, err := engine.Open(engine.Options{
		Dir:       dir,
		Processor: &processorAdapter{p: processor},
		Clock:     o.clock,
		FS:        o.fs,
		Append:    policy.NewSeparatorAppend(o.appendSeparator),
		Finalize: &policy.SizeAndAge{
			MaxSize:        o.maxCurrentFileSize,
			MaxAge:         o.maxCurrentFileAge,
			BacklogMaxSize: o.backlogMaxCurrentFileSize,
			BacklogMaxAge:  o.backlogMaxCurrentFileAge,
		},
		Purge: &policy.BoundedTotal{
			MaxTotalBytes: o.maxTotalBytes,
			MaxCount:      o.maxFileCount,
		},
		Retry:                   policy.NewExponentialBackoff(o.retryBase, o.retryMax, o.retryMaxAttempts, o.giveUp),
		QuarantineDir:           o.quarantineDir,
		DetachWorkerOnTerminate: o.detachWorkerOnTerminate,
		Logger:                  tagWithQueueID(adaptLogger(o.logger), id.String()),
		Metrics:                 o.metrics,
	})
	if err != nil {
		return nil, asIoError(err)
	}

	return &Queue{id: id, eng: eng}, nil
}

// ID is a random identifier assigned when the Queue was opened, useful
// for tagging logs or metrics when multiple queues run in one process.
func (q *Queue) ID() string { return q.id.String() }

// Push appends msg to the current file and then seals that file before
// returning if it is now over its size or age threshold. It returns
// ErrShutdown once Close has been called, or an *IoError on a
// filesystem failure.
func (q *Queue) Push(msg []byte) error {
	return asIoError(q.eng.Push(msg))
}

// GetQueueStatus blocks until the initial recovery scan completes and
// returns a snapshot of the current file and the sealed FIFO.
func (q *Queue) GetQueueStatus() QueueStatus {
	return statusToPublic(q.eng.GetQueueStatus())
}

// ForceProcessing clears any Suspended state and wakes the worker
// immediately rather than waiting for the next natural trigger. If
// forceSealCurrent is true, or the sealed FIFO is currently empty, the
// current file is sealed first so the worker has something to dispatch.
func (q *Queue) ForceProcessing(forceSealCurrent bool) error {
	return asIoError(q.eng.ForceProcessing(forceSealCurrent))
}

// Resume is ForceProcessing(false): it un-suspends the worker without
// demanding the current file be sealed.
func (q *Queue) Resume() error {
	return asIoError(q.eng.Resume())
}

// RemoveAllFiles deletes every file this queue owns, current and
// sealed, and resets in-memory state. USE CAREFULLY: this is
// destructive and intended for tests and administrative recovery, not
// normal operation.
func (q *Queue) RemoveAllFiles() error {
	return asIoError(q.eng.RemoveAllFiles())
}

// Close requests the worker to stop. Unless WithDetachWorkerOnTerminate
// was set, it blocks until the worker goroutine exits. The current
// file is flushed and closed, but left unsealed under its current name
// so the next Open recovers it.
func (q *Queue) Close() error {
	return asIoError(q.eng.Close())
}
