package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/fsqueue/internal/clock"
	"github.com/vnykmshr/fsqueue/internal/fs"
	"github.com/vnykmshr/fsqueue/internal/naming"
	"github.com/vnykmshr/fsqueue/internal/policy"
	"github.com/vnykmshr/fsqueue/internal/status"
)

// scriptedProcessor returns results from a queue of scripted outcomes,
// recording every call it receives for assertions.
type scriptedProcessor struct {
	mu       sync.Mutex
	script   []Result
	calls    []status.SealedFile
	released chan struct{}
}

func newScriptedProcessor(script ...Result) *scriptedProcessor {
	return &scriptedProcessor{script: script, released: make(chan struct{}, 64)}
}

func (p *scriptedProcessor) OnFileReady(f status.SealedFile, now time.Time) Result {
	p.mu.Lock()
	p.calls = append(p.calls, f)
	var r Result
	if len(p.script) > 0 {
		r = p.script[0]
		p.script = p.script[1:]
	} else {
		r = Success
	}
	p.mu.Unlock()
	p.released <- struct{}{}
	return r
}

func (p *scriptedProcessor) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func waitForCalls(t *testing.T, p *scriptedProcessor, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if p.callCount() >= n {
			return
		}
		select {
		case <-p.released:
		case <-deadline:
			t.Fatalf("timed out waiting for %d processor calls, got %d", n, p.callCount())
		}
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func newTestQueue(t *testing.T, mc *clock.Manual, mem *fs.Memory, proc Processor) *Queue {
	t.Helper()
	opts := Options{
		Dir:       "/q",
		Processor: proc,
		Clock:     mc,
		FS:        mem,
		Append:    policy.NewSeparatorAppend([]byte("\n")),
		Finalize:  &policy.SizeAndAge{MaxSize: 64, MaxAge: time.Hour},
		Purge:     &policy.BoundedTotal{MaxTotalBytes: 1 << 20, MaxCount: 1000},
		Retry:     policy.NewExponentialBackoff(5*time.Millisecond, 20*time.Millisecond, 0, policy.Drop),
	}
	q, err := Open(opts)
	require.NoError(t, err)
	return q
}

func TestSmokePushAndDispatch(t *testing.T) {
	mc := clock.NewManual(time.Unix(1000, 0))
	mem := fs.NewMemory()
	proc := newScriptedProcessor(Success)
	q := newTestQueue(t, mc, mem, proc)
	defer q.Close()

	st := q.GetQueueStatus()
	assert.Len(t, st.Finalized, 0)

	require.NoError(t, q.Push([]byte("hello")))
	require.NoError(t, q.ForceProcessing(true))

	waitForCalls(t, proc, 1)
	waitUntil(t, func() bool { return len(q.GetQueueStatus().Finalized) == 0 })
}

func TestSizeTriggeredSeal(t *testing.T) {
	mc := clock.NewManual(time.Unix(2000, 0))
	mem := fs.NewMemory()
	// Unavailable keeps the sealed file parked at the front instead of
	// being immediately consumed, so the assertion below isn't racing
	// the worker's own automatic dispatch.
	proc := newScriptedProcessor(Unavailable)
	q := newTestQueue(t, mc, mem, proc)
	defer q.Close()

	big := make([]byte, 80)
	for i := range big {
		big[i] = 'a'
	}
	require.NoError(t, q.Push(big))

	waitForCalls(t, proc, 1)
	st := q.GetQueueStatus()
	require.Len(t, st.Finalized, 1)
}

func TestAgeTriggeredSeal(t *testing.T) {
	mc := clock.NewManual(time.Unix(3000, 0))
	mem := fs.NewMemory()
	proc := newScriptedProcessor(Unavailable)
	opts := Options{
		Dir:       "/q",
		Processor: proc,
		Clock:     mc,
		FS:        mem,
		Append:    policy.NewSeparatorAppend([]byte("\n")),
		Finalize:  &policy.SizeAndAge{MaxSize: 1 << 20, MaxAge: 10 * time.Second},
		Purge:     &policy.BoundedTotal{MaxTotalBytes: 1 << 20, MaxCount: 1000},
		Retry:     policy.NewExponentialBackoff(5*time.Millisecond, 20*time.Millisecond, 0, policy.Drop),
	}
	q, err := Open(opts)
	require.NoError(t, err)
	defer q.Close()

	require.NoError(t, q.Push([]byte("short")))
	mc.Advance(11 * time.Second)
	require.NoError(t, q.Push([]byte("more")))

	waitForCalls(t, proc, 1)
	st := q.GetQueueStatus()
	require.Len(t, st.Finalized, 1)
}

func TestRecoveryAdoptsNewestAndSealsOrphans(t *testing.T) {
	mc := clock.NewManual(time.Unix(4000, 0))
	mem := fs.NewMemory()

	orphanPath := mem.JoinPath("/q", naming.Generate(naming.Current, 1000000))
	f1, err := mem.CreateOutputFile(orphanPath)
	require.NoError(t, err)
	_, _ = f1.Write([]byte("orphan\n"))
	require.NoError(t, f1.Close())

	newestPath := mem.JoinPath("/q", naming.Generate(naming.Current, 2000000))
	f2, err := mem.CreateOutputFile(newestPath)
	require.NoError(t, err)
	_, _ = f2.Write([]byte("newest\n"))
	require.NoError(t, f2.Close())

	proc := newScriptedProcessor(Unavailable)
	// Both candidates were opened about 4000s before the clock's start, so
	// MaxAge must exceed that for the newest to be adopted rather than sealed.
	opts := Options{
		Dir:       "/q",
		Processor: proc,
		Clock:     mc,
		FS:        mem,
		Append:    policy.NewSeparatorAppend([]byte("\n")),
		Finalize:  &policy.SizeAndAge{MaxSize: 1 << 20, MaxAge: 2 * time.Hour},
		Purge:     &policy.BoundedTotal{MaxTotalBytes: 1 << 20, MaxCount: 1000},
		Retry:     policy.NewExponentialBackoff(5*time.Millisecond, 20*time.Millisecond, 0, policy.Drop),
	}
	q, err := Open(opts)
	require.NoError(t, err)
	defer q.Close()

	waitForCalls(t, proc, 1)
	st := q.GetQueueStatus()
	require.Len(t, st.Finalized, 1)
	assert.Equal(t, int64(1000000), st.Finalized[0].CreatedAt)
	assert.EqualValues(t, 2000000, st.AppendedFileTimestamp)
}

func TestUnavailableThenResume(t *testing.T) {
	mc := clock.NewManual(time.Unix(5000, 0))
	mem := fs.NewMemory()
	proc := newScriptedProcessor(Unavailable, Success)
	q := newTestQueue(t, mc, mem, proc)
	defer q.Close()

	require.NoError(t, q.Push([]byte("msg")))
	require.NoError(t, q.ForceProcessing(true))

	waitForCalls(t, proc, 1)
	require.NoError(t, q.Resume())
	waitForCalls(t, proc, 2)
	waitUntil(t, func() bool { return len(q.GetQueueStatus().Finalized) == 0 })
}

func TestRetryWithBackoffEventuallyDrops(t *testing.T) {
	// A retry is due only once the injected clock reaches its deadline, so
	// this test runs on the system clock with millisecond backoff.
	mem := fs.NewMemory()
	proc := newScriptedProcessor(FailureNeedRetry, FailureNeedRetry, FailureNeedRetry)
	opts := Options{
		Dir:       "/q",
		Processor: proc,
		Clock:     clock.System{},
		FS:        mem,
		Append:    policy.NewSeparatorAppend([]byte("\n")),
		Finalize:  &policy.SizeAndAge{MaxSize: 1 << 20, MaxAge: time.Hour},
		Purge:     &policy.BoundedTotal{MaxTotalBytes: 1 << 20, MaxCount: 1000},
		Retry:     policy.NewExponentialBackoff(2*time.Millisecond, 10*time.Millisecond, 2, policy.Drop),
	}
	q, err := Open(opts)
	require.NoError(t, err)
	defer q.Close()

	require.NoError(t, q.Push([]byte("poison")))
	require.NoError(t, q.ForceProcessing(true))

	waitForCalls(t, proc, 2)
	waitUntil(t, func() bool { return len(q.GetQueueStatus().Finalized) == 0 })
}
