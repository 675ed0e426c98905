package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vnykmshr/fsqueue/internal/status"
)

func files(sizes ...uint64) []status.SealedFile {
	out := make([]status.SealedFile, len(sizes))
	for i, s := range sizes {
		out[i] = status.SealedFile{BaseName: string(rune('a' + i)), Size: s}
	}
	return out
}

func TestBoundedTotalShouldPurgeOnBytes(t *testing.T) {
	p := &BoundedTotal{MaxTotalBytes: 100}
	assert.True(t, p.ShouldPurge(PurgeInput{TotalSize: 101}))
	assert.False(t, p.ShouldPurge(PurgeInput{TotalSize: 100}))
}

func TestBoundedTotalShouldPurgeOnCount(t *testing.T) {
	p := &BoundedTotal{MaxCount: 2}
	assert.True(t, p.ShouldPurge(PurgeInput{Count: 3}))
	assert.False(t, p.ShouldPurge(PurgeInput{Count: 2}))
}

func TestBoundedTotalSelectVictimsOldestFirst(t *testing.T) {
	p := &BoundedTotal{MaxTotalBytes: 10}
	queue := files(5, 5, 5)
	in := PurgeInput{TotalSize: 15}
	victims := p.SelectVictims(in, queue)
	assert.Equal(t, queue[:1], victims, "should remove exactly one oldest file to get back under the bound")
}

func TestBoundedTotalSelectVictimsStopsOnceSatisfied(t *testing.T) {
	p := &BoundedTotal{MaxCount: 1}
	queue := files(1, 1, 1)
	in := PurgeInput{Count: 3}
	victims := p.SelectVictims(in, queue)
	assert.Len(t, victims, 2)
}
