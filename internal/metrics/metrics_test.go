package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecordsPushAndErrors(t *testing.T) {
	c := NewCollector("test_queue")

	c.RecordPush()
	c.RecordPush()
	c.RecordPushError()

	snap := c.GetSnapshot()
	assert.Equal(t, uint64(2), snap.PushTotal)
	assert.Equal(t, uint64(1), snap.PushErrors)
}

func TestCollectorRecordsProcessOutcomes(t *testing.T) {
	c := NewCollector("test_queue_outcomes")

	c.RecordSuccess()
	c.RecordSuccess()
	c.RecordUnavailable()
	c.RecordRetry()
	c.RecordDropped()

	snap := c.GetSnapshot()
	assert.Equal(t, uint64(2), snap.ProcessSuccess)
	assert.Equal(t, uint64(1), snap.ProcessUnavail)
	assert.Equal(t, uint64(1), snap.ProcessRetry)
	assert.Equal(t, uint64(1), snap.ProcessDropped)
}

func TestCollectorQueueDepthGauges(t *testing.T) {
	c := NewCollector("test_queue_depth")

	c.SetQueueDepth(3, 1024)
	snap := c.GetSnapshot()
	assert.Equal(t, float64(3), snap.SealedFiles)
	assert.Equal(t, float64(1024), snap.SealedBytes)

	c.SetQueueDepth(1, 256)
	snap = c.GetSnapshot()
	assert.Equal(t, float64(1), snap.SealedFiles)
	assert.Equal(t, float64(256), snap.SealedBytes)
}

func TestCollectorRecordsPurge(t *testing.T) {
	c := NewCollector("test_queue_purge")

	c.RecordPurge(2, 512)
	c.RecordPurge(1, 128)

	snap := c.GetSnapshot()
	assert.Equal(t, uint64(3), snap.PurgeTotal)
	assert.Equal(t, uint64(640), snap.PurgeBytes)
}

func TestNoopCollectorIsHarmless(t *testing.T) {
	var c NoopCollector
	c.RecordPush()
	c.RecordPushError()
	c.RecordFinalize()
	c.RecordPurge(1, 1)
	c.RecordSuccess()
	c.RecordUnavailable()
	c.RecordRetry()
	c.RecordDropped()
	c.ObserveDispatchLatency(0.01)
	c.SetQueueDepth(0, 0)
	assert.Equal(t, Snapshot{}, c.GetSnapshot())
}
