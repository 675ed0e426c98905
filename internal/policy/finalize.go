package policy

import "time"

// FinalizeInput is the minimal view of QueueStatus a FinalizePolicy
// needs, decoupling policy from the status package's locking.
type FinalizeInput struct {
	AppendedSize      uint64
	AppendedTimestamp int64 // Unix nanoseconds
	HasBacklog        bool  // true iff the finalized FIFO is non-empty
}

// FinalizePolicy decides whether the current file should be sealed,
// called after every successful append (spec.md §4.C).
type FinalizePolicy interface {
	ShouldFinalize(in FinalizeInput, now time.Time) bool
}

// SizeAndAge finalizes on max size or max age, with optionally wider
// "backlog" thresholds applied while the FIFO is non-empty — the
// downstream consumer is already busy, so the engine can afford to
// accumulate more before handing it another file. This is the Go
// rendition of the original's SimpleFinalizationPolicy.
type SizeAndAge struct {
	MaxSize uint64
	MaxAge  time.Duration

	// BacklogMaxSize and BacklogMaxAge, if non-zero, are used instead of
	// MaxSize/MaxAge while HasBacklog is true. Zero means "use the
	// non-backlog threshold unconditionally".
	BacklogMaxSize uint64
	BacklogMaxAge  time.Duration
}

// ShouldFinalize implements FinalizePolicy.
func (p *SizeAndAge) ShouldFinalize(in FinalizeInput, now time.Time) bool {
	if in.AppendedTimestamp == 0 {
		return false // no current file open
	}

	maxSize, maxAge := p.MaxSize, p.MaxAge
	if in.HasBacklog {
		if p.BacklogMaxSize > 0 {
			maxSize = p.BacklogMaxSize
		}
		if p.BacklogMaxAge > 0 {
			maxAge = p.BacklogMaxAge
		}
	}

	age := now.Sub(time.Unix(0, in.AppendedTimestamp))
	if maxSize > 0 && in.AppendedSize >= maxSize {
		return true
	}
	if maxAge > 0 && age > maxAge {
		return true
	}
	return false
}
