package engine

import (
	"github.com/vnykmshr/fsqueue/internal/fs"
	"github.com/vnykmshr/fsqueue/internal/logging"
	"github.com/vnykmshr/fsqueue/internal/policy"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// runPurge is the purge controller, spec.md §4.G: invoked after every
// FIFO mutation, it removes the oldest sealed files until the
// PurgePolicy is satisfied, never touching the file currently being
// dispatched.
func (q *Queue) runPurge() {
	for {
		q.st.Lock()
		snap := q.st.Snapshot()
		q.st.Unlock()

		in := policy.PurgeInput{TotalSize: snap.TotalSize, Count: len(snap.Finalized), AppendedSize: snap.AppendedFileSize}
		if !q.opts.Purge.ShouldPurge(in) {
			return
		}
		victims := q.opts.Purge.SelectVictims(in, snap.Finalized)
		if len(victims) == 0 {
			return
		}

		removed := 0
		var reclaimed uint64
		for _, v := range victims {
			if q.isDispatching(v.FullPath) {
				continue
			}
			if err := q.opts.FS.RemoveFile(v.FullPath); err != nil {
				q.logger().Warn("purge failed to remove file", logging.F("path", v.FullPath), logging.F("error", err.Error()))
				continue
			}

			q.st.Lock()
			q.st.RemoveByPath(v.FullPath)
			depth := q.st.Len()
			bytes := q.st.Snapshot().TotalSize
			q.st.Broadcast()
			q.st.Unlock()

			q.metrics().SetQueueDepth(depth, bytes)
			removed++
			reclaimed += v.Size
		}

		if removed == 0 {
			// Everything left over is the in-flight file; nothing more
			// can be purged this pass.
			return
		}
		q.metrics().RecordPurge(removed, reclaimed)
	}
}

func (q *Queue) isDispatching(path string) bool {
	q.st.Lock()
	defer q.st.Unlock()
	if q.st.GetWorkerState() != status.Dispatching {
		return false
	}
	front, ok := q.st.Front()
	return ok && front.FullPath == path
}

// dropFront handles policy.GiveUpDrop: it either quarantines the front
// file (if QuarantineDir is configured) or deletes it, then pops the
// FIFO and clears retry state.
func (q *Queue) dropFront(f status.SealedFile) {
	var err error
	if q.opts.QuarantineDir != "" {
		dest := q.opts.FS.JoinPath(q.opts.QuarantineDir, f.BaseName)
		err = q.opts.FS.RenameFile(f.FullPath, dest)
		if err != nil && !fs.IsExists(err) {
			q.logger().Warn("failed to quarantine dropped file, deleting instead", logging.F("path", f.FullPath), logging.F("error", err.Error()))
			err = q.opts.FS.RemoveFile(f.FullPath)
		}
	} else {
		err = q.opts.FS.RemoveFile(f.FullPath)
	}
	if err != nil {
		q.logger().Error("failed to drop poisoned file", logging.F("path", f.FullPath), logging.F("error", err.Error()))
	}

	q.st.Lock()
	q.st.PopFront()
	q.st.ClearRetry()
	q.st.Broadcast()
	q.st.Unlock()

	q.metrics().RecordDropped()
}
