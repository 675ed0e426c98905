package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	m := NewManual(start)
	assert.Equal(t, start, m.Now())

	m.Advance(5 * time.Second)
	assert.Equal(t, start.Add(5*time.Second), m.Now())
}

func TestManualAdvanceNegativeSimulatesSkew(t *testing.T) {
	start := time.Unix(1000, 0)
	m := NewManual(start)
	m.Advance(-10 * time.Second)
	assert.Equal(t, start.Add(-10*time.Second), m.Now())
}

func TestManualSet(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	target := time.Unix(12345, 0)
	m.Set(target)
	assert.Equal(t, target, m.Now())
}

func TestSystemNowAdvances(t *testing.T) {
	var s System
	a := s.Now()
	time.Sleep(time.Millisecond)
	b := s.Now()
	assert.True(t, b.After(a))
}
