package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSizeAndAgeNoCurrentFile(t *testing.T) {
	p := &SizeAndAge{MaxSize: 10, MaxAge: time.Second}
	assert.False(t, p.ShouldFinalize(FinalizeInput{}, time.Now()))
}

func TestSizeAndAgeTriggersOnSize(t *testing.T) {
	p := &SizeAndAge{MaxSize: 100}
	in := FinalizeInput{AppendedSize: 100, AppendedTimestamp: time.Now().UnixNano()}
	assert.True(t, p.ShouldFinalize(in, time.Now()))
}

func TestSizeAndAgeTriggersOnAge(t *testing.T) {
	p := &SizeAndAge{MaxAge: time.Minute}
	opened := time.Unix(1000, 0)
	in := FinalizeInput{AppendedSize: 1, AppendedTimestamp: opened.UnixNano()}
	assert.True(t, p.ShouldFinalize(in, opened.Add(2*time.Minute)))
	assert.False(t, p.ShouldFinalize(in, opened.Add(10*time.Second)))
}

func TestSizeAndAgeBacklogWidensThresholds(t *testing.T) {
	p := &SizeAndAge{
		MaxSize:        10,
		BacklogMaxSize: 1000,
	}
	opened := time.Unix(1000, 0)
	in := FinalizeInput{AppendedSize: 50, AppendedTimestamp: opened.UnixNano(), HasBacklog: true}
	assert.False(t, p.ShouldFinalize(in, opened), "backlog threshold should not trigger below its own larger bound")

	in.AppendedSize = 10
	in.HasBacklog = false
	assert.True(t, p.ShouldFinalize(in, opened), "non-backlog threshold still applies when FIFO is empty")
}
