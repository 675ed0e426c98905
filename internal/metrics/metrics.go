// Package metrics exposes the engine's Prometheus-backed counters and
// gauges. The Collector shape (method names, Snapshot, NoopCollector)
// is kept from the teacher's hand-rolled metrics package; the backend
// is swapped from atomic counters to real prometheus.Collector types
// registered against a private registry per queue instance.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is a point-in-time read of the counters, for callers that
// want values without reaching into the Prometheus registry.
type Snapshot struct {
	PushTotal      uint64
	PushErrors     uint64
	FinalizeTotal  uint64
	PurgeTotal     uint64
	PurgeBytes     uint64
	ProcessSuccess uint64
	ProcessUnavail uint64
	ProcessRetry   uint64
	ProcessDropped uint64
	SealedFiles    float64
	SealedBytes    float64
}

// Collector records the engine's operational counters. A nil
// *Collector is not valid; use NoopCollector when metrics are
// disabled.
type Collector struct {
	registry *prometheus.Registry

	pushTotal     prometheus.Counter
	pushErrors    prometheus.Counter
	finalizeTotal prometheus.Counter
	purgeTotal    prometheus.Counter
	purgeBytes    prometheus.Counter

	processSuccess prometheus.Counter
	processUnavail prometheus.Counter
	processRetry   prometheus.Counter
	processDropped prometheus.Counter

	sealedFiles prometheus.Gauge
	sealedBytes prometheus.Gauge

	dispatchLatency prometheus.Histogram
}

// NewCollector builds a Collector registered under the given queue
// name (used as a constant label so multiple queue instances in one
// process don't collide), backed by a fresh private registry.
func NewCollector(queueName string) *Collector {
	labels := prometheus.Labels{"queue": queueName}
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		pushTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_push_total", Help: "Messages pushed.", ConstLabels: labels,
		}),
		pushErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_push_errors_total", Help: "Push calls that returned an error.", ConstLabels: labels,
		}),
		finalizeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_finalize_total", Help: "Current files sealed.", ConstLabels: labels,
		}),
		purgeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_purge_total", Help: "Sealed files removed by the purge controller.", ConstLabels: labels,
		}),
		purgeBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_purge_bytes_total", Help: "Bytes reclaimed by the purge controller.", ConstLabels: labels,
		}),
		processSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_process_success_total", Help: "Processor calls that returned Success or SuccessAndMoved.", ConstLabels: labels,
		}),
		processUnavail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_process_unavailable_total", Help: "Processor calls that returned Unavailable.", ConstLabels: labels,
		}),
		processRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_process_retry_total", Help: "Processor calls that returned FailureNeedRetry.", ConstLabels: labels,
		}),
		processDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsqueue_process_dropped_total", Help: "Files dropped after exhausting retries.", ConstLabels: labels,
		}),
		sealedFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fsqueue_sealed_files", Help: "Sealed files currently queued.", ConstLabels: labels,
		}),
		sealedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fsqueue_sealed_bytes", Help: "Total bytes held by sealed files currently queued.", ConstLabels: labels,
		}),
		dispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "fsqueue_dispatch_latency_seconds", Help: "Time spent in a single processor call.", ConstLabels: labels,
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.pushTotal, c.pushErrors, c.finalizeTotal, c.purgeTotal, c.purgeBytes,
		c.processSuccess, c.processUnavail, c.processRetry, c.processDropped,
		c.sealedFiles, c.sealedBytes, c.dispatchLatency)
	return c
}

// Registry returns the private registry this Collector registered
// itself against, for callers who want to expose it via an HTTP
// handler (promhttp.HandlerFor) or merge it into a parent registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) RecordPush()      { c.pushTotal.Inc() }
func (c *Collector) RecordPushError() { c.pushErrors.Inc() }
func (c *Collector) RecordFinalize()  { c.finalizeTotal.Inc() }
func (c *Collector) RecordPurge(n int, bytes uint64) {
	c.purgeTotal.Add(float64(n))
	c.purgeBytes.Add(float64(bytes))
}
func (c *Collector) RecordSuccess()     { c.processSuccess.Inc() }
func (c *Collector) RecordUnavailable() { c.processUnavail.Inc() }
func (c *Collector) RecordRetry()       { c.processRetry.Inc() }
func (c *Collector) RecordDropped()     { c.processDropped.Inc() }

// ObserveDispatchLatency records the duration of one processor call,
// in seconds, matching Prometheus convention.
func (c *Collector) ObserveDispatchLatency(seconds float64) { c.dispatchLatency.Observe(seconds) }

// SetQueueDepth updates the sealed-file gauges. The engine calls it after
// a dispatched file leaves the FIFO and after each purge removal; seals
// and dropped files do not update it.
func (c *Collector) SetQueueDepth(files int, bytes uint64) {
	c.sealedFiles.Set(float64(files))
	c.sealedBytes.Set(float64(bytes))
}

// GetSnapshot gathers the registry and reduces it to a Snapshot. It is
// comparatively expensive (a full Gather call) and intended for tests
// and diagnostics, not the hot path.
func (c *Collector) GetSnapshot() Snapshot {
	families, err := c.registry.Gather()
	if err != nil {
		return Snapshot{}
	}
	var snap Snapshot
	for _, fam := range families {
		m := fam.GetMetric()
		if len(m) == 0 {
			continue
		}
		switch fam.GetName() {
		case "fsqueue_push_total":
			snap.PushTotal = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_push_errors_total":
			snap.PushErrors = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_finalize_total":
			snap.FinalizeTotal = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_purge_total":
			snap.PurgeTotal = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_purge_bytes_total":
			snap.PurgeBytes = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_process_success_total":
			snap.ProcessSuccess = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_process_unavailable_total":
			snap.ProcessUnavail = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_process_retry_total":
			snap.ProcessRetry = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_process_dropped_total":
			snap.ProcessDropped = uint64(m[0].GetCounter().GetValue())
		case "fsqueue_sealed_files":
			snap.SealedFiles = m[0].GetGauge().GetValue()
		case "fsqueue_sealed_bytes":
			snap.SealedBytes = m[0].GetGauge().GetValue()
		}
	}
	return snap
}

// NoopCollector discards everything. It is the default when metrics
// are disabled.
type NoopCollector struct{}

func (NoopCollector) RecordPush()                    {}
func (NoopCollector) RecordPushError()               {}
func (NoopCollector) RecordFinalize()                {}
func (NoopCollector) RecordPurge(int, uint64)         {}
func (NoopCollector) RecordSuccess()                 {}
func (NoopCollector) RecordUnavailable()             {}
func (NoopCollector) RecordRetry()                   {}
func (NoopCollector) RecordDropped()                 {}
func (NoopCollector) ObserveDispatchLatency(float64)  {}
func (NoopCollector) SetQueueDepth(int, uint64)       {}
func (NoopCollector) GetSnapshot() Snapshot           { return Snapshot{} }

// Recorder is the interface the engine depends on, satisfied by both
// *Collector and NoopCollector.
type Recorder interface {
	RecordPush()
	RecordPushError()
	RecordFinalize()
	RecordPurge(n int, bytes uint64)
	RecordSuccess()
	RecordUnavailable()
	RecordRetry()
	RecordDropped()
	ObserveDispatchLatency(seconds float64)
	SetQueueDepth(files int, bytes uint64)
	GetSnapshot() Snapshot
}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = NoopCollector{}
)
