// Package engine implements the durable file-storage queue: the
// appender that writes and seals the current file, the worker that
// recovers state on startup and dispatches sealed files to a
// Processor, and the purge controller that keeps disk usage bounded.
// It is the Go rendition of the original's FSQ template class,
// generalized from compile-time strategy template parameters to
// runtime-injected interfaces.
package engine

import (
	"sync"
	"time"

	"github.com/vnykmshr/fsqueue/internal/clock"
	"github.com/vnykmshr/fsqueue/internal/fs"
	"github.com/vnykmshr/fsqueue/internal/logging"
	"github.com/vnykmshr/fsqueue/internal/metrics"
	"github.com/vnykmshr/fsqueue/internal/naming"
	"github.com/vnykmshr/fsqueue/internal/policy"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// Result is the outcome a Processor reports for one sealed file,
// matching spec.md §4.C's four-way OnFileReady contract.
type Result int

const (
	// Success means the file was fully consumed; the engine removes it.
	Success Result = iota
	// SuccessAndMoved means the processor itself relocated or deleted the
	// file; the engine does not touch it on disk, only pops the FIFO.
	SuccessAndMoved
	// Unavailable means the downstream sink is temporarily down; the
	// engine suspends dispatch without touching retry state.
	Unavailable
	// FailureNeedRetry means this specific file failed; the engine
	// consults the RetryPolicy.
	FailureNeedRetry
)

// Processor is the user-supplied sink. OnFileReady is never called
// concurrently with itself, and never while the status mutex is held.
type Processor interface {
	OnFileReady(f status.SealedFile, now time.Time) Result
}

// Options configures a Queue. All fields except Dir and Processor have
// sane defaults applied by fsqueue.Open before reaching here.
type Options struct {
	Dir       string
	Processor Processor

	Clock clock.Clock
	FS    fs.FileSystem

	Append   policy.AppendPolicy
	Finalize policy.FinalizePolicy
	Purge    policy.PurgePolicy
	Retry    policy.RetryPolicy

	// QuarantineDir, if non-empty, receives files dropped by
	// policy.GiveUpDrop instead of deleting them outright.
	QuarantineDir string

	DetachWorkerOnTerminate bool

	Logger  logging.Logger
	Metrics metrics.Recorder
}

// Queue is the engine's concurrency-guarded state: one status mutex
// and condition variable shared by the appender and the worker
// (spec.md §5), plus a separate mutex serializing access to the
// current file's handle.
type Queue struct {
	opts Options
	st   *status.Status

	fileMu  sync.Mutex
	current fs.OutputFile
	curMeta *status.CurrentFile

	wg sync.WaitGroup
}

// Open constructs a Queue and starts its worker goroutine. The worker
// immediately begins the recovery scan; callers that need to block
// until recovery completes should call GetQueueStatus, which blocks
// until status_ready.
func Open(opts Options) (*Queue, error) {
	if opts.QuarantineDir != "" {
		if err := opts.FS.MkdirAll(opts.QuarantineDir); err != nil {
			return nil, err
		}
	}
	q := &Queue{opts: opts, st: status.New()}
	q.wg.Add(1)
	go q.workerLoop()
	return q, nil
}

// GetQueueStatus blocks until the initial recovery scan has completed
// and returns a snapshot (invariant 6).
func (q *Queue) GetQueueStatus() status.QueueStatus {
	return q.st.WaitUntilReadyAndSnapshot()
}

// ForceProcessing implements the two force-processing modes of
// spec.md §4.E/§6: sealing the current file (if forceSealCurrent or
// the FIFO is currently empty) and clearing any suspension so the
// worker re-attempts the front file immediately.
func (q *Queue) ForceProcessing(forceSealCurrent bool) error {
	q.fileMu.Lock()
	q.st.Lock()
	empty := q.st.Len() == 0
	q.st.Unlock()

	var sealErr error
	if (forceSealCurrent || empty) && q.curMeta != nil {
		sealErr = q.sealLocked(q.opts.Clock.Now())
	}
	q.fileMu.Unlock()

	q.st.Lock()
	q.st.SetForceProcessing(true)
	q.st.Broadcast()
	q.st.Unlock()

	return sealErr
}

// Resume is ForceProcessing(false): it clears a Suspended worker
// without demanding the current file be sealed first.
func (q *Queue) Resume() error { return q.ForceProcessing(false) }

// RemoveAllFiles deletes every current and finalized file this queue
// owns and resets in-memory state. USE CAREFULLY! This is destructive
// and not safe to call while the worker may be mid-dispatch; callers
// should stop pushing and call Close first in production use.
func (q *Queue) RemoveAllFiles() error {
	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	if q.current != nil {
		_ = q.current.Close()
		q.current = nil
	}

	var names []string
	if err := q.opts.FS.ScanDir(q.opts.Dir, func(name string) {
		if _, _, ok := naming.ParseAny(name); ok {
			names = append(names, name)
		}
	}); err != nil {
		return err
	}
	for _, n := range names {
		if err := q.opts.FS.RemoveFile(q.opts.FS.JoinPath(q.opts.Dir, n)); err != nil {
			q.logger().Warn("failed to remove file during RemoveAllFiles", logging.F("name", n), logging.F("error", err.Error()))
		}
	}

	q.curMeta = nil
	q.st.Lock()
	q.st.AssignSealed(nil)
	q.st.ClearAppended()
	q.st.ClearRetry()
	q.st.Broadcast()
	q.st.Unlock()
	return nil
}

// Close requests the worker to stop and, unless DetachWorkerOnTerminate
// is set, waits for it to exit. The current file's handle is closed
// (not sealed) so no partially-written data is lost, but the file is
// left under its current name for the next Open to recover.
func (q *Queue) Close() error {
	q.st.Lock()
	already := q.st.ShutdownRequested()
	if !already {
		q.st.RequestShutdown()
	}
	q.st.Broadcast()
	q.st.Unlock()

	q.fileMu.Lock()
	if q.current != nil {
		_ = q.current.Flush()
		_ = q.current.Close()
		q.current = nil
	}
	q.fileMu.Unlock()

	if !q.opts.DetachWorkerOnTerminate {
		q.wg.Wait()
	}
	return nil
}

func (q *Queue) logger() logging.Logger {
	if q.opts.Logger == nil {
		return logging.NoopLogger{}
	}
	return q.opts.Logger
}

func (q *Queue) metrics() metrics.Recorder {
	if q.opts.Metrics == nil {
		return metrics.NoopCollector{}
	}
	return q.opts.Metrics
}
