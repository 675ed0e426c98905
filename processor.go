package fsqueue

import (
	"time"

	"github.com/vnykmshr/fsqueue/internal/engine"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// FileProcessingResult is what a Processor reports for one sealed
// file. Exactly one of these four outcomes is returned per call.
type FileProcessingResult int

const (
	// Success means the file was fully consumed; fsqueue deletes it.
	Success FileProcessingResult = iota
	// SuccessAndMoved means the Processor itself relocated or deleted
	// the file; fsqueue only removes it from its own bookkeeping.
	SuccessAndMoved
	// Unavailable means the downstream sink is temporarily down.
	// Dispatch suspends until ForceProcessing or Resume is called.
	Unavailable
	// FailureNeedRetry means this file failed; fsqueue consults its
	// retry policy to decide when (or whether) to try again.
	FailureNeedRetry
)

// Processor consumes sealed files. OnFileReady is never called
// concurrently with itself for the same Queue, and never while the
// queue's internal status lock is held, so it may safely call back
// into the Queue (e.g. GetQueueStatus).
type Processor interface {
	OnFileReady(f SealedFile, now time.Time) FileProcessingResult
}

type processorAdapter struct {
	p Processor
}

func (a *processorAdapter) OnFileReady(f status.SealedFile, now time.Time) engine.Result {
	switch a.p.OnFileReady(sealedToPublic(f), now) {
	case Success:
		return engine.Success
	case SuccessAndMoved:
		return engine.SuccessAndMoved
	case Unavailable:
		return engine.Unavailable
	default:
		return engine.FailureNeedRetry
	}
}
