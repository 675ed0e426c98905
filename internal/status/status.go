// Package status holds the engine's shared QueueStatus behind a single
// mutex and condition variable, exactly the concurrency contract of
// spec.md §5: one lock guards QueueStatus, statusReady, forceProcessing,
// shutdownRequested, and retry/suspend state, and every mutation that
// could unblock a waiter broadcasts the condition.
package status

import (
	"sort"
	"sync"
)

// SealedFile describes one immutable, renamed file awaiting dispatch.
// Ordered by CreatedAt then BaseName (tie-break), per spec.md §3.
type SealedFile struct {
	BaseName  string
	FullPath  string
	CreatedAt int64 // Unix nanoseconds, the opening timestamp of the originating current file
	Size      uint64
}

// Less implements the FIFO ordering spec.md §3 requires.
func (s SealedFile) Less(o SealedFile) bool {
	if s.CreatedAt != o.CreatedAt {
		return s.CreatedAt < o.CreatedAt
	}
	return s.BaseName < o.BaseName
}

// CurrentFile describes the single in-progress append-only file. At most
// one exists per queue instance at any instant (invariant 1).
type CurrentFile struct {
	BaseName      string
	FullPath      string
	OpenedAt      int64
	AppendedBytes uint64
}

// WorkerState is the worker's internal state machine (spec.md §3).
type WorkerState int

const (
	// Scanning is the initial state, before recovery completes.
	Scanning WorkerState = iota
	// Idle means the worker is waiting for dispatch conditions.
	Idle
	// Dispatching means a processor call is in flight.
	Dispatching
	// AwaitingRetry means the front file is waiting on a retry deadline.
	AwaitingRetry
	// Suspended means dispatch is halted until ForceProcessing/Resume.
	Suspended
	// ShuttingDown is the terminal state.
	ShuttingDown
)

// QueueStatus is the observable snapshot defined by spec.md §3.
type QueueStatus struct {
	AppendedFileSize      uint64
	AppendedFileTimestamp int64 // 0 when no current file is open
	Finalized             []SealedFile
	TotalSize             uint64
}

// Status is the mutex/condition-guarded status model (component 4.D).
type Status struct {
	mu   sync.Mutex
	cond *sync.Cond

	status QueueStatus

	ready             bool
	forceProcessing   bool
	shutdownRequested bool

	worker WorkerState

	retryAttempts  uint32
	retryDeadline  int64 // Unix nanoseconds; valid only while worker == AwaitingRetry
	hasRetryFile   bool
}

// New returns a Status with no files and status not yet ready.
func New() *Status {
	s := &Status{worker: Scanning}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Lock/Unlock expose the single mutex so callers (appender, worker,
// purge) can perform multi-step mutations atomically, matching
// spec.md §3 invariant 7 ("only the worker pops... only the appender
// pushes... both under the status mutex").
func (s *Status) Lock()   { s.mu.Lock() }
func (s *Status) Unlock() { s.mu.Unlock() }

// Broadcast wakes all waiters. Must be called with the lock held, after
// any mutation that could unblock GetQueueStatus or the worker's wait.
func (s *Status) Broadcast() { s.cond.Broadcast() }

// Wait blocks on the condition. Must be called with the lock held.
func (s *Status) Wait() { s.cond.Wait() }

// Snapshot returns a defensive copy of the current QueueStatus. Caller
// must hold the lock, or use WaitUntilReadyAndSnapshot for the common
// unlocked case.
func (s *Status) Snapshot() QueueStatus {
	cp := s.status
	cp.Finalized = append([]SealedFile(nil), s.status.Finalized...)
	return cp
}

// WaitUntilReadyAndSnapshot blocks until the initial recovery scan has
// completed (invariant 6: "status_ready is true iff initial recovery
// scan has completed"), then returns a copy of the status. Safe to call
// from any goroutine; never blocks once ready.
func (s *Status) WaitUntilReadyAndSnapshot() QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.ready {
		s.cond.Wait()
	}
	return s.Snapshot()
}

// MarkReady sets status_ready. Caller must hold the lock and broadcast
// afterwards.
func (s *Status) MarkReady() {
	s.ready = true
}

// Ready reports whether the recovery scan has completed. Caller must
// hold the lock.
func (s *Status) Ready() bool { return s.ready }

// SetForceProcessing latches or clears the force-processing flag. Caller
// must hold the lock.
func (s *Status) SetForceProcessing(v bool) { s.forceProcessing = v }

// ForceProcessing reports the latch's current value. Caller must hold
// the lock.
func (s *Status) ForceProcessing() bool { return s.forceProcessing }

// RequestShutdown sets the cooperative shutdown flag. Caller must hold
// the lock.
func (s *Status) RequestShutdown() { s.shutdownRequested = true }

// ShutdownRequested reports the shutdown flag. Caller must hold the
// lock.
func (s *Status) ShutdownRequested() bool { return s.shutdownRequested }

// SetWorkerState records the worker's current state. Caller must hold
// the lock.
func (s *Status) SetWorkerState(ws WorkerState) { s.worker = ws }

// GetWorkerState returns the worker's current state. Caller must hold the
// lock.
func (s *Status) GetWorkerState() WorkerState { return s.worker }

// AppendedSize returns the current file's appended byte count. Caller
// must hold the lock.
func (s *Status) AppendedSize() uint64 { return s.status.AppendedFileSize }

// AppendedTimestamp returns the current file's opening timestamp, or 0
// if none is open. Caller must hold the lock.
func (s *Status) AppendedTimestamp() int64 { return s.status.AppendedFileTimestamp }

// SetAppended sets the appended-file counters, called when a new
// current file is opened or after each successful append. Caller must
// hold the lock.
func (s *Status) SetAppended(size uint64, ts int64) {
	s.status.AppendedFileSize = size
	s.status.AppendedFileTimestamp = ts
}

// AddAppended increments the appended size by delta. Caller must hold
// the lock.
func (s *Status) AddAppended(delta uint64) {
	s.status.AppendedFileSize += delta
}

// ClearAppended resets the appended-file counters after a seal. Caller
// must hold the lock.
func (s *Status) ClearAppended() {
	s.status.AppendedFileSize = 0
	s.status.AppendedFileTimestamp = 0
}

// PushSealed appends a newly sealed file to the back of the FIFO and
// adds its size to the running total (invariant 4). Caller must hold
// the lock. Only the appender and recovery scan call this.
func (s *Status) PushSealed(f SealedFile) {
	s.status.Finalized = append(s.status.Finalized, f)
	s.status.TotalSize += f.Size
}

// AssignSealed replaces the FIFO wholesale and recomputes TotalSize,
// sorted by the spec.md §3 ordering. Used by the recovery scan
// (spec.md §4.F phase 1), which populates the FIFO from a directory
// listing rather than incrementally, and by RemoveAllFiles to empty it.
func (s *Status) AssignSealed(files []SealedFile) {
	sort.Slice(files, func(i, j int) bool { return files[i].Less(files[j]) })
	var total uint64
	for _, f := range files {
		total += f.Size
	}
	s.status.Finalized = files
	s.status.TotalSize = total
}

// Front returns the FIFO's front element and true, or the zero value and
// false if empty. Caller must hold the lock.
func (s *Status) Front() (SealedFile, bool) {
	if len(s.status.Finalized) == 0 {
		return SealedFile{}, false
	}
	return s.status.Finalized[0], true
}

// PopFront removes the front element after the worker has finished with
// it (invariant 7: only the worker pops). Caller must hold the lock.
func (s *Status) PopFront() {
	if len(s.status.Finalized) == 0 {
		return
	}
	s.status.TotalSize -= s.status.Finalized[0].Size
	s.status.Finalized = s.status.Finalized[1:]
}

// Len returns the number of sealed files currently queued. Caller must
// hold the lock.
func (s *Status) Len() int { return len(s.status.Finalized) }

// RemoveByPath removes a specific sealed file (by full path) from
// anywhere in the FIFO and adjusts TotalSize — used by the purge
// controller, which removes from the oldest end but addresses files by
// identity rather than always popping the front. Caller must hold the
// lock.
func (s *Status) RemoveByPath(path string) bool {
	for i, f := range s.status.Finalized {
		if f.FullPath == path {
			s.status.TotalSize -= f.Size
			s.status.Finalized = append(s.status.Finalized[:i], s.status.Finalized[i+1:]...)
			return true
		}
	}
	return false
}

// RetryState returns the attempts-so-far and retry deadline for the
// front file, and whether a retry deadline is currently armed. Caller
// must hold the lock.
func (s *Status) RetryState() (attempts uint32, deadline int64, armed bool) {
	return s.retryAttempts, s.retryDeadline, s.hasRetryFile
}

// ArmRetry records a retry deadline for the front file and increments
// its attempt counter. Caller must hold the lock.
func (s *Status) ArmRetry(deadline int64) {
	s.retryAttempts++
	s.retryDeadline = deadline
	s.hasRetryFile = true
}

// ClearRetry resets retry tracking, called on success, drop, or when the
// front file changes. Caller must hold the lock.
func (s *Status) ClearRetry() {
	s.retryAttempts = 0
	s.retryDeadline = 0
	s.hasRetryFile = false
}
