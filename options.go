package fsqueue

import (
	"time"

	"github.com/vnykmshr/fsqueue/internal/clock"
	"github.com/vnykmshr/fsqueue/internal/fs"
	"github.com/vnykmshr/fsqueue/internal/metrics"
	"github.com/vnykmshr/fsqueue/internal/policy"
)

// GiveUpAction selects what happens once a file exhausts its retries.
type GiveUpAction = policy.GiveUpAction

const (
	// Drop gives up by deleting (or quarantining) the poisoned file.
	Drop = policy.Drop
	// KeepAndSuspend gives up by suspending dispatch with the file
	// retained at the front of the queue.
	KeepAndSuspend = policy.KeepAndSuspend
)

// Options configures a Queue. Use DefaultOptions and the With*
// functions rather than constructing this directly.
type Options struct {
	maxCurrentFileSize uint64
	maxCurrentFileAge  time.Duration

	backlogMaxCurrentFileSize uint64
	backlogMaxCurrentFileAge  time.Duration

	maxTotalBytes uint64
	maxFileCount  int

	retryBase        time.Duration
	retryMax         time.Duration
	retryMaxAttempts uint32
	giveUp           GiveUpAction

	appendSeparator []byte
	quarantineDir   string

	detachWorkerOnTerminate bool

	logger  Logger
	metrics metrics.Recorder

	clock clock.Clock
	fs    fs.FileSystem
}

// Option configures a Queue at Open time.
type Option func(*Options)

// DefaultOptions returns the production defaults: seal at 16MiB or 1
// minute, widen to 64MiB/10 minutes while a backlog exists, purge
// above 1GiB or 10000 sealed files, retry failures exponentially from
// 1 second up to 5 minutes with no attempt limit, separate messages by
// newline, and do not quarantine dropped files.
func DefaultOptions() Options {
	return Options{
		maxCurrentFileSize:        16 << 20,
		maxCurrentFileAge:         time.Minute,
		backlogMaxCurrentFileSize: 64 << 20,
		backlogMaxCurrentFileAge:  10 * time.Minute,
		maxTotalBytes:             1 << 30,
		maxFileCount:              10000,
		retryBase:                 time.Second,
		retryMax:                  5 * time.Minute,
		retryMaxAttempts:          0,
		giveUp:                    Drop,
		appendSeparator:           []byte("\n"),
		detachWorkerOnTerminate:   false,
		metrics:                   metrics.NoopCollector{},
		clock:                     clock.System{},
		fs:                        fs.OS{},
	}
}

// WithMaxCurrentFileSize sets the size, in bytes, at which the current
// file is sealed.
func WithMaxCurrentFileSize(n uint64) Option {
	return func(o *Options) { o.maxCurrentFileSize = n }
}

// WithMaxCurrentFileAge sets the age at which the current file is
// sealed even if still under its size threshold.
func WithMaxCurrentFileAge(d time.Duration) Option {
	return func(o *Options) { o.maxCurrentFileAge = d }
}

// WithBacklogThresholds sets wider size/age thresholds applied while
// the sealed FIFO is non-empty, letting the engine accumulate more
// before handing the downstream consumer another file. A zero value
// for either leaves the corresponding non-backlog threshold in force.
func WithBacklogThresholds(maxSize uint64, maxAge time.Duration) Option {
	return func(o *Options) {
		o.backlogMaxCurrentFileSize = maxSize
		o.backlogMaxCurrentFileAge = maxAge
	}
}

// WithPurgeBounds sets the bounded-total purge policy: once the sum of
// sealed-file bytes exceeds maxTotalBytes, or their count exceeds
// maxFileCount, the oldest files are deleted until both are satisfied
// again. A zero value disables that bound.
func WithPurgeBounds(maxTotalBytes uint64, maxFileCount int) Option {
	return func(o *Options) {
		o.maxTotalBytes = maxTotalBytes
		o.maxFileCount = maxFileCount
	}
}

// WithRetry configures the exponential backoff retry policy: base is
// the first retry's delay, max caps it, maxAttempts is the number of
// FailureNeedRetry results tolerated before giveUp takes effect (0
// means unlimited retries).
func WithRetry(base, max time.Duration, maxAttempts uint32, giveUp GiveUpAction) Option {
	return func(o *Options) {
		o.retryBase = base
		o.retryMax = max
		o.retryMaxAttempts = maxAttempts
		o.giveUp = giveUp
	}
}

// WithAppendSeparator sets the bytes written after every message. The
// default is a single newline; pass nil for raw, unseparated appends.
func WithAppendSeparator(sep []byte) Option {
	return func(o *Options) { o.appendSeparator = sep }
}

// WithQuarantineDir directs files dropped by GiveUpAction Drop into
// dir instead of deleting them outright.
func WithQuarantineDir(dir string) Option {
	return func(o *Options) { o.quarantineDir = dir }
}

// WithDetachWorkerOnTerminate makes Close return immediately without
// waiting for the worker goroutine to exit, mirroring the original's
// DetachProcessingThreadOnTermination config hook.
func WithDetachWorkerOnTerminate(v bool) Option {
	return func(o *Options) { o.detachWorkerOnTerminate = v }
}

// WithLogger routes the queue's internal logging through l.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithMetrics routes the queue's operational counters into c, typically
// constructed with NewMetricsCollector.
func WithMetrics(c metrics.Recorder) Option {
	return func(o *Options) { o.metrics = c }
}

// NewMetricsCollector returns a Prometheus-backed metrics.Recorder
// registered under queueName, suitable for passing to WithMetrics.
// Callers can fetch its Registry() to expose it over HTTP.
func NewMetricsCollector(queueName string) *metrics.Collector {
	return metrics.NewCollector(queueName)
}

// withClock and withFileSystem are unexported: they exist for this
// module's own tests, which need deterministic time and an in-memory
// filesystem, not for production callers.
func withClock(c clock.Clock) Option {
	return func(o *Options) { o.clock = c }
}

func withFileSystem(f fs.FileSystem) Option {
	return func(o *Options) { o.fs = f }
}
