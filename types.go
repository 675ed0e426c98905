package fsqueue

import (
	"time"

	"github.com/vnykmshr/fsqueue/internal/status"
)

// SealedFile describes one immutable file handed to a Processor: it
// was written to disk as a current file, then atomically renamed into
// the finalized family once its FinalizePolicy fired.
type SealedFile struct {
	// BaseName is the file's name within the queue directory.
	BaseName string
	// FullPath is BaseName joined with the queue directory.
	FullPath string
	// CreatedAt is the time embedded in the file's name: normally the
	// moment the originating current file was opened, except in the
	// rare case where a naming collision forced the embedded timestamp
	// to be bumped past the true opening time.
	CreatedAt time.Time
	// Size is the file's size in bytes at the moment it was sealed.
	Size uint64
}

// QueueStatus is a point-in-time snapshot of the queue, safe to read
// without affecting the appender or worker.
type QueueStatus struct {
	// AppendedFileSize is the current file's size in bytes, or 0 if no
	// current file is open.
	AppendedFileSize uint64
	// AppendedFileTimestamp is the current file's opening time, or the
	// zero time if no current file is open.
	AppendedFileTimestamp time.Time
	// Finalized is the FIFO of sealed files awaiting dispatch, oldest
	// first.
	Finalized []SealedFile
	// TotalSize is the sum of Size across Finalized.
	TotalSize uint64
}

func sealedToPublic(f status.SealedFile) SealedFile {
	return SealedFile{
		BaseName:  f.BaseName,
		FullPath:  f.FullPath,
		CreatedAt: time.Unix(0, f.CreatedAt),
		Size:      f.Size,
	}
}

func statusToPublic(s status.QueueStatus) QueueStatus {
	out := QueueStatus{
		AppendedFileSize: s.AppendedFileSize,
		TotalSize:        s.TotalSize,
		Finalized:        make([]SealedFile, len(s.Finalized)),
	}
	if s.AppendedFileTimestamp != 0 {
		out.AppendedFileTimestamp = time.Unix(0, s.AppendedFileTimestamp)
	}
	for i, f := range s.Finalized {
		out.Finalized[i] = sealedToPublic(f)
	}
	return out
}
