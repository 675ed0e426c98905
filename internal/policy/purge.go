package policy

import "github.com/vnykmshr/fsqueue/internal/status"

// PurgeInput is the minimal view of QueueStatus a PurgePolicy needs.
type PurgeInput struct {
	TotalSize    uint64
	Count        int
	AppendedSize uint64
}

// PurgePolicy decides whether bounded disk usage has been exceeded and,
// if so, which sealed files to remove first (spec.md §4.C).
type PurgePolicy interface {
	ShouldPurge(in PurgeInput) bool
	// SelectVictims returns, oldest first, the files from queue that
	// should be removed. queue may include the file currently being
	// dispatched; the caller skips that one when removing victims.
	SelectVictims(in PurgeInput, queue []status.SealedFile) []status.SealedFile
}

// BoundedTotal purges the oldest sealed files once total bytes or total
// count exceeds a configured bound, stopping as soon as both are back
// under bound — the Go rendition of the original's SimplePurgePolicy.
type BoundedTotal struct {
	MaxTotalBytes uint64
	MaxCount      int
}

// ShouldPurge implements PurgePolicy.
func (p *BoundedTotal) ShouldPurge(in PurgeInput) bool {
	if p.MaxTotalBytes > 0 && in.TotalSize > p.MaxTotalBytes {
		return true
	}
	if p.MaxCount > 0 && in.Count > p.MaxCount {
		return true
	}
	return false
}

// SelectVictims removes from the oldest end until both bounds are
// satisfied or the candidate list is exhausted.
func (p *BoundedTotal) SelectVictims(in PurgeInput, queue []status.SealedFile) []status.SealedFile {
	var victims []status.SealedFile
	total := in.TotalSize
	count := in.Count

	for _, f := range queue {
		overBytes := p.MaxTotalBytes > 0 && total > p.MaxTotalBytes
		overCount := p.MaxCount > 0 && count > p.MaxCount
		if !overBytes && !overCount {
			break
		}
		victims = append(victims, f)
		total -= f.Size
		count--
	}
	return victims
}
