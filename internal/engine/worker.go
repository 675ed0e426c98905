package engine

import (
	"time"

	"github.com/vnykmshr/fsqueue/internal/logging"
	"github.com/vnykmshr/fsqueue/internal/policy"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// workerLoop is the worker thread's entire lifetime: recovery, then
// dispatch until shutdown (spec.md §4.F).
func (q *Queue) workerLoop() {
	defer q.wg.Done()

	if err := q.recover(); err != nil {
		q.logger().Error("recovery scan failed", logging.F("error", err.Error()))
		q.st.Lock()
		q.st.MarkReady()
		q.st.SetWorkerState(status.ShuttingDown)
		q.st.Broadcast()
		q.st.Unlock()
		return
	}

	q.st.Lock()
	q.st.SetWorkerState(status.Idle)
	q.st.Unlock()

	for {
		shutdown, forced := q.waitForWork()
		if shutdown {
			q.st.Lock()
			q.st.SetWorkerState(status.ShuttingDown)
			q.st.Unlock()
			return
		}
		if forced {
			q.st.Lock()
			q.st.SetForceProcessing(false)
			if q.st.GetWorkerState() == status.Suspended || q.st.GetWorkerState() == status.AwaitingRetry {
				q.st.SetWorkerState(status.Idle)
			}
			q.st.Unlock()
		}

		q.st.Lock()
		front, ok := q.st.Front()
		q.st.Unlock()
		if !ok {
			continue
		}

		q.dispatch(front)
	}
}

// waitForWork blocks until one of: shutdown requested, force
// processing latched, or the front of the FIFO is eligible to dispatch
// (non-empty, not suspended, and any armed retry deadline has passed).
// It returns which condition woke it; shutdown takes priority.
func (q *Queue) waitForWork() (shutdown, forced bool) {
	q.st.Lock()
	defer q.st.Unlock()

	for {
		if q.st.ShutdownRequested() {
			return true, false
		}
		if q.st.ForceProcessing() {
			return false, true
		}
		if q.readyToDispatchLocked() {
			return false, false
		}
		q.st.Wait()
	}
}

func (q *Queue) readyToDispatchLocked() bool {
	if q.st.Len() == 0 {
		return false
	}
	if q.st.GetWorkerState() == status.Suspended {
		return false
	}
	attempts, deadline, armed := q.st.RetryState()
	_ = attempts
	if !armed {
		return true
	}
	return !q.opts.Clock.Now().Before(time.Unix(0, deadline))
}

// armRetryTimer schedules a real-time wakeup at deadline. Go's
// sync.Cond has no timed wait, so a one-shot timer broadcasting on
// fire is the idiom used here in place of spec.md §5's native
// condition-variable timed wait.
func (q *Queue) armRetryTimer(deadline time.Time) {
	delay := deadline.Sub(q.opts.Clock.Now())
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		q.st.Lock()
		q.st.Broadcast()
		q.st.Unlock()
	})
}

// dispatch invokes the processor for one sealed file, outside the
// status mutex, and applies the resulting state transition.
func (q *Queue) dispatch(f status.SealedFile) {
	q.st.Lock()
	q.st.SetWorkerState(status.Dispatching)
	q.st.Unlock()

	now := q.opts.Clock.Now()
	start := time.Now()
	result := q.opts.Processor.OnFileReady(f, now)
	q.metrics().ObserveDispatchLatency(time.Since(start).Seconds())

	switch result {
	case Success:
		if err := q.opts.FS.RemoveFile(f.FullPath); err != nil {
			q.logger().Warn("failed to remove processed file", logging.F("path", f.FullPath), logging.F("error", err.Error()))
		}
		q.finishDispatch()
		q.metrics().RecordSuccess()

	case SuccessAndMoved:
		q.finishDispatch()
		q.metrics().RecordSuccess()

	case Unavailable:
		q.st.Lock()
		q.st.SetWorkerState(status.Suspended)
		q.st.Unlock()
		q.metrics().RecordUnavailable()
		return

	case FailureNeedRetry:
		q.handleRetry(f)
		q.metrics().RecordRetry()
		return
	}

	q.runPurge()
}

// finishDispatch pops the front file and clears retry tracking,
// called after a successful (or processor-relocated) dispatch.
func (q *Queue) finishDispatch() {
	q.st.Lock()
	q.st.PopFront()
	q.st.ClearRetry()
	q.st.SetWorkerState(status.Idle)
	depth := q.st.Len()
	total := q.st.Snapshot().TotalSize
	q.st.Broadcast()
	q.st.Unlock()
	q.metrics().SetQueueDepth(depth, total)
}

func (q *Queue) handleRetry(f status.SealedFile) {
	q.st.Lock()
	attempts, _, _ := q.st.RetryState()
	q.st.Unlock()

	now := q.opts.Clock.Now()
	outcome := q.opts.Retry.NextRetry(attempts+1, now)

	switch outcome.Decision {
	case policy.RetryAt:
		q.st.Lock()
		q.st.ArmRetry(outcome.Deadline.UnixNano())
		q.st.SetWorkerState(status.AwaitingRetry)
		q.st.Unlock()
		q.armRetryTimer(outcome.Deadline)

	case policy.GiveUpDrop:
		q.dropFront(f)
		q.st.Lock()
		q.st.SetWorkerState(status.Idle)
		q.st.Unlock()
		q.runPurge()

	case policy.GiveUpKeep:
		q.st.Lock()
		q.st.SetWorkerState(status.Suspended)
		q.st.Unlock()
	}
}
