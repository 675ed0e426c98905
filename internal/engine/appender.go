package engine

import (
	"time"

	"github.com/vnykmshr/fsqueue/internal/fs"
	"github.com/vnykmshr/fsqueue/internal/logging"
	"github.com/vnykmshr/fsqueue/internal/naming"
	"github.com/vnykmshr/fsqueue/internal/policy"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// Push appends one message to the current file, opening it if
// necessary, then checks the FinalizePolicy and seals the current file
// if it says so. Push from multiple goroutines is serialized on
// fileMu; spec.md §5 assumes a single producer but does not forbid
// more, so the mutex makes concurrent Push calls safe rather than
// merely documented-unsafe.
func (q *Queue) Push(msg []byte) error {
	q.st.Lock()
	shuttingDown := q.st.ShutdownRequested()
	q.st.Unlock()
	if shuttingDown {
		return errShutdown
	}

	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	if err := q.ensureCurrentOpenLocked(); err != nil {
		q.metrics().RecordPushError()
		return err
	}

	if err := q.opts.Append.AppendToFile(q.current, msg); err != nil {
		q.metrics().RecordPushError()
		return err
	}
	if err := q.current.Flush(); err != nil {
		q.metrics().RecordPushError()
		return err
	}

	size := q.opts.Append.MessageSizeInBytes(msg)
	q.st.Lock()
	q.st.AddAppended(size)
	appendedSize := q.st.AppendedSize()
	appendedTs := q.st.AppendedTimestamp()
	hasBacklog := q.st.Len() > 0
	q.st.Unlock()

	q.metrics().RecordPush()

	now := q.opts.Clock.Now()
	in := policy.FinalizeInput{AppendedSize: appendedSize, AppendedTimestamp: appendedTs, HasBacklog: hasBacklog}
	if q.opts.Finalize.ShouldFinalize(in, now) {
		return q.sealLocked(now)
	}
	return nil
}

// ensureCurrentOpenLocked makes sure q.current is a writable handle,
// called with fileMu held. If curMeta already names a file (a prior
// seal attempt failed to rename, or recovery adopted an existing
// file), it reopens that file for append rather than creating a new
// one, preserving invariant 1 (at most one current file).
func (q *Queue) ensureCurrentOpenLocked() error {
	if q.current != nil {
		return nil
	}
	if q.curMeta != nil {
		out, err := q.opts.FS.OpenOutputFileAppend(q.curMeta.FullPath)
		if err != nil {
			return err
		}
		q.current = out
		return nil
	}

	now := q.opts.Clock.Now()
	ts := naming.ToTimestamp(now)
	name := naming.Generate(naming.Current, ts)
	path := q.opts.FS.JoinPath(q.opts.Dir, name)
	out, err := q.opts.FS.CreateOutputFile(path)
	if err != nil {
		return err
	}
	q.current = out
	q.curMeta = &status.CurrentFile{BaseName: name, FullPath: path, OpenedAt: ts}

	q.st.Lock()
	q.st.SetAppended(0, ts)
	q.st.Unlock()
	return nil
}

// sealLocked closes the current file and atomically renames it into
// the finalized family, retrying once with a bumped timestamp on a
// name collision (spec.md §4.E step 5). Called with fileMu held.
func (q *Queue) sealLocked(now time.Time) error {
	if q.curMeta == nil {
		return nil
	}

	if q.current != nil {
		if err := q.current.Flush(); err != nil {
			return err
		}
		if err := q.current.Close(); err != nil {
			return err
		}
		q.current = nil
	}

	ts := q.curMeta.OpenedAt
	name := naming.Generate(naming.Finalized, ts)
	path := q.opts.FS.JoinPath(q.opts.Dir, name)
	err := q.opts.FS.RenameFile(q.curMeta.FullPath, path)
	if fs.IsExists(err) {
		ts = naming.Bump(ts)
		name = naming.Generate(naming.Finalized, ts)
		path = q.opts.FS.JoinPath(q.opts.Dir, name)
		err = q.opts.FS.RenameFile(q.curMeta.FullPath, path)
	}
	if err != nil {
		// Leave curMeta as-is: the file stays under its current name,
		// Push reopens it via ensureCurrentOpenLocked, and a future seal
		// or recovery scan will try again.
		q.logger().Error("seal rename failed", logging.F("path", q.curMeta.FullPath), logging.F("error", err.Error()))
		return err
	}

	q.st.Lock()
	size := q.st.AppendedSize()
	q.st.PushSealed(status.SealedFile{BaseName: name, FullPath: path, CreatedAt: ts, Size: size})
	q.st.ClearAppended()
	q.st.Broadcast()
	q.st.Unlock()

	q.metrics().RecordFinalize()
	q.curMeta = nil
	q.runPurge()
	return nil
}
