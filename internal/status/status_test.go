package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendedLifecycle(t *testing.T) {
	s := New()
	s.Lock()
	s.SetAppended(0, 100)
	s.AddAppended(10)
	assert.EqualValues(t, 10, s.AppendedSize())
	assert.EqualValues(t, 100, s.AppendedTimestamp())
	s.ClearAppended()
	assert.EqualValues(t, 0, s.AppendedSize())
	assert.EqualValues(t, 0, s.AppendedTimestamp())
	s.Unlock()
}

func TestPushFrontPopOrdering(t *testing.T) {
	s := New()
	s.Lock()
	s.PushSealed(SealedFile{BaseName: "b", CreatedAt: 2, Size: 5})
	s.PushSealed(SealedFile{BaseName: "a", CreatedAt: 1, Size: 3})
	require.Equal(t, 2, s.Len())

	front, ok := s.Front()
	require.True(t, ok)
	assert.Equal(t, "b", front.BaseName, "PushSealed appends; ordering by CreatedAt is AssignSealed's job, not PushSealed's")

	s.PopFront()
	assert.EqualValues(t, 3, s.Snapshot().TotalSize)
	s.Unlock()
}

func TestAssignSealedSortsByCreatedAtThenName(t *testing.T) {
	s := New()
	s.Lock()
	s.AssignSealed([]SealedFile{
		{BaseName: "z", CreatedAt: 5, Size: 1},
		{BaseName: "a", CreatedAt: 5, Size: 2},
		{BaseName: "m", CreatedAt: 1, Size: 3},
	})
	snap := s.Snapshot()
	s.Unlock()

	require.Len(t, snap.Finalized, 3)
	assert.Equal(t, "m", snap.Finalized[0].BaseName)
	assert.Equal(t, "a", snap.Finalized[1].BaseName)
	assert.Equal(t, "z", snap.Finalized[2].BaseName)
	assert.EqualValues(t, 6, snap.TotalSize)
}

func TestRemoveByPath(t *testing.T) {
	s := New()
	s.Lock()
	s.PushSealed(SealedFile{BaseName: "a", FullPath: "/q/a", Size: 4})
	s.PushSealed(SealedFile{BaseName: "b", FullPath: "/q/b", Size: 6})
	removed := s.RemoveByPath("/q/a")
	s.Unlock()

	assert.True(t, removed)
	snap := s.Snapshot()
	assert.Len(t, snap.Finalized, 1)
	assert.EqualValues(t, 6, snap.TotalSize)
}

func TestRetryArmAndClear(t *testing.T) {
	s := New()
	s.Lock()
	s.ArmRetry(500)
	attempts, deadline, armed := s.RetryState()
	assert.EqualValues(t, 1, attempts)
	assert.EqualValues(t, 500, deadline)
	assert.True(t, armed)

	s.ClearRetry()
	attempts, _, armed = s.RetryState()
	assert.EqualValues(t, 0, attempts)
	assert.False(t, armed)
	s.Unlock()
}

func TestWaitUntilReadyAndSnapshotBlocksUntilReady(t *testing.T) {
	s := New()
	done := make(chan QueueStatus, 1)
	go func() {
		done <- s.WaitUntilReadyAndSnapshot()
	}()

	s.Lock()
	s.MarkReady()
	s.Broadcast()
	s.Unlock()

	snap := <-done
	assert.Empty(t, snap.Finalized)
}
