package engine

import (
	"sort"

	"github.com/vnykmshr/fsqueue/internal/fs"
	"github.com/vnykmshr/fsqueue/internal/logging"
	"github.com/vnykmshr/fsqueue/internal/naming"
	"github.com/vnykmshr/fsqueue/internal/policy"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// recover runs the worker's startup scan, spec.md §4.F phases 1-3:
// catalog sealed files, resolve current files (seal orphans, adopt or
// seal the newest), then mark status ready.
func (q *Queue) recover() error {
	if err := q.recoverSealed(); err != nil {
		return err
	}
	if err := q.recoverCurrent(); err != nil {
		return err
	}

	q.st.Lock()
	q.st.MarkReady()
	q.st.Broadcast()
	q.st.Unlock()
	return nil
}

// recoverSealed is phase 1: scan the directory for finalized-*.bin
// files and populate the FIFO from them, ordered by embedded
// timestamp then basename.
func (q *Queue) recoverSealed() error {
	var sealed []status.SealedFile
	err := q.opts.FS.ScanDir(q.opts.Dir, func(name string) {
		ts, ok := naming.Parse(naming.Finalized, name)
		if !ok {
			return
		}
		path := q.opts.FS.JoinPath(q.opts.Dir, name)
		size, serr := q.opts.FS.GetFileSize(path)
		if serr != nil {
			q.logger().Warn("skipping unreadable finalized file", logging.F("name", name), logging.F("error", serr.Error()))
			return
		}
		sealed = append(sealed, status.SealedFile{BaseName: name, FullPath: path, CreatedAt: ts, Size: size})
	})
	if err != nil {
		return err
	}

	q.st.Lock()
	q.st.AssignSealed(sealed)
	q.st.Unlock()
	return nil
}

type currentCandidate struct {
	name string
	ts   int64
	path string
}

// recoverCurrent is phase 2: find every current-*.bin file. If more
// than one exists (a prior crash between closing one and renaming the
// next open call never happens, but a crash after adoption followed by
// an external write could), seal all but the newest immediately
// (invariant 1 must hold again before the worker starts dispatching).
// The newest is either adopted for further appends or sealed outright,
// by consulting the FinalizePolicy exactly as a live Push would.
func (q *Queue) recoverCurrent() error {
	var currents []currentCandidate
	err := q.opts.FS.ScanDir(q.opts.Dir, func(name string) {
		ts, ok := naming.Parse(naming.Current, name)
		if !ok {
			return
		}
		currents = append(currents, currentCandidate{name: name, ts: ts, path: q.opts.FS.JoinPath(q.opts.Dir, name)})
	})
	if err != nil {
		return err
	}
	if len(currents) == 0 {
		return nil
	}

	sort.Slice(currents, func(i, j int) bool {
		if currents[i].ts != currents[j].ts {
			return currents[i].ts < currents[j].ts
		}
		return currents[i].name < currents[j].name
	})

	newest := currents[len(currents)-1]
	for _, c := range currents[:len(currents)-1] {
		if err := q.sealOrphanCurrent(c); err != nil {
			q.logger().Error("failed to seal orphaned current file during recovery", logging.F("name", c.name), logging.F("error", err.Error()))
		}
	}

	size, err := q.opts.FS.GetFileSize(newest.path)
	if err != nil {
		q.logger().Error("failed to stat newest current file during recovery", logging.F("name", newest.name), logging.F("error", err.Error()))
		return nil
	}

	q.st.Lock()
	hasBacklog := q.st.Len() > 0
	q.st.Unlock()

	in := policy.FinalizeInput{AppendedSize: size, AppendedTimestamp: newest.ts, HasBacklog: hasBacklog}
	if q.opts.Finalize.ShouldFinalize(in, q.opts.Clock.Now()) {
		if err := q.sealOrphanCurrent(newest); err != nil {
			q.logger().Error("failed to seal newest current file during recovery", logging.F("name", newest.name), logging.F("error", err.Error()))
		}
		return nil
	}

	q.fileMu.Lock()
	q.curMeta = &status.CurrentFile{BaseName: newest.name, FullPath: newest.path, OpenedAt: newest.ts, AppendedBytes: size}
	q.fileMu.Unlock()

	q.st.Lock()
	q.st.SetAppended(size, newest.ts)
	q.st.Unlock()
	return nil
}

// sealOrphanCurrent renames a current-*.bin file found during recovery
// directly into the finalized family and pushes it onto the FIFO. It
// does not touch q.current/q.curMeta: these files are not the adopted
// live file.
func (q *Queue) sealOrphanCurrent(c currentCandidate) error {
	size, err := q.opts.FS.GetFileSize(c.path)
	if err != nil {
		return err
	}

	ts := c.ts
	name := naming.Generate(naming.Finalized, ts)
	dest := q.opts.FS.JoinPath(q.opts.Dir, name)
	err = q.opts.FS.RenameFile(c.path, dest)
	if fs.IsExists(err) {
		ts = naming.Bump(ts)
		name = naming.Generate(naming.Finalized, ts)
		dest = q.opts.FS.JoinPath(q.opts.Dir, name)
		err = q.opts.FS.RenameFile(c.path, dest)
	}
	if err != nil {
		return err
	}

	q.st.Lock()
	q.st.PushSealed(status.SealedFile{BaseName: name, FullPath: dest, CreatedAt: ts, Size: size})
	q.st.Broadcast()
	q.st.Unlock()

	q.metrics().RecordFinalize()
	return nil
}
