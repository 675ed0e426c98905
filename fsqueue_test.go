package fsqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/fsqueue/internal/clock"
	"github.com/vnykmshr/fsqueue/internal/fs"
)

type scriptedProcessor struct {
	mu      sync.Mutex
	results []FileProcessingResult
	calls   []SealedFile
}

func newScriptedProcessor(results ...FileProcessingResult) *scriptedProcessor {
	return &scriptedProcessor{results: results}
}

func (p *scriptedProcessor) OnFileReady(f SealedFile, now time.Time) FileProcessingResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, f)
	if len(p.results) == 0 {
		return Success
	}
	r := p.results[0]
	p.results = p.results[1:]
	return r
}

func (p *scriptedProcessor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func waitForCalls(t *testing.T, p *scriptedProcessor, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.callCount() >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d processor call(s), got %d", n, p.callCount())
}

func TestOpenRejectsNilProcessor(t *testing.T) {
	mem := fs.NewMemory()
	_, err := Open("/q", nil, withFileSystem(mem), withClock(clock.NewManual(time.Unix(0, 0))))
	assert.ErrorIs(t, err, ErrProcessorRequired)
}

func TestPushForceProcessingAndClose(t *testing.T) {
	mem := fs.NewMemory()
	mc := clock.NewManual(time.Unix(1000, 0))
	proc := newScriptedProcessor(Unavailable)

	q, err := Open("/q", proc,
		withFileSystem(mem),
		withClock(mc),
		WithMaxCurrentFileSize(1<<20),
		WithMaxCurrentFileAge(time.Hour),
	)
	require.NoError(t, err)
	defer q.Close()

	require.NoError(t, q.Push([]byte("hello")))

	st := q.GetQueueStatus()
	assert.Equal(t, uint64(len("hello")+1), st.AppendedFileSize) // default separator is one newline

	require.NoError(t, q.ForceProcessing(true))
	waitForCalls(t, proc, 1)

	st = q.GetQueueStatus()
	require.Len(t, st.Finalized, 1)
	assert.Equal(t, uint64(len("hello")+1), st.Finalized[0].Size)

	require.NoError(t, q.Resume())
	waitForCalls(t, proc, 2)

	st = q.GetQueueStatus()
	assert.Empty(t, st.Finalized)
}

func TestPushAfterCloseReturnsErrShutdown(t *testing.T) {
	mem := fs.NewMemory()
	mc := clock.NewManual(time.Unix(1000, 0))
	proc := newScriptedProcessor()

	q, err := Open("/q", proc, withFileSystem(mem), withClock(mc))
	require.NoError(t, err)

	require.NoError(t, q.Close())
	err = q.Push([]byte("too late"))
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestRemoveAllFilesClearsBacklog(t *testing.T) {
	mem := fs.NewMemory()
	mc := clock.NewManual(time.Unix(1000, 0))
	proc := newScriptedProcessor(Unavailable)

	q, err := Open("/q", proc,
		withFileSystem(mem),
		withClock(mc),
		WithMaxCurrentFileSize(1),
	)
	require.NoError(t, err)
	defer q.Close()

	require.NoError(t, q.Push([]byte("x")))
	waitForCalls(t, proc, 1)
	require.Len(t, q.GetQueueStatus().Finalized, 1)

	require.NoError(t, q.RemoveAllFiles())
	assert.Empty(t, q.GetQueueStatus().Finalized)
}

func TestIDIsStableAndNonEmpty(t *testing.T) {
	mem := fs.NewMemory()
	mc := clock.NewManual(time.Unix(1000, 0))
	q, err := Open("/q", newScriptedProcessor(), withFileSystem(mem), withClock(mc))
	require.NoError(t, err)
	defer q.Close()

	id := q.ID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, q.ID())
}
