package reembed

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Add(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)

	tracker.Start()
	tracker.Add(25, 5)
	tracker.Add(75, 10)

	output := buf.String()
	assert.Contains(t, output, "25/100")
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "15 unchanged")
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 50)

	tracker.Start()
	tracker.Add(20, 0)
	assert.Empty(t, buf.String(), "below the interval nothing is printed")

	tracker.Add(30, 0)
	assert.Contains(t, buf.String(), "50/100")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 1000)

	tracker.Start()
	tracker.Add(75, 0)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
	assert.Contains(t, output, "\n")
}

func TestProgressTracker_Clamp(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Start()
	tracker.Add(25, 0)
	assert.Contains(t, buf.String(), "10/10")
	assert.NotContains(t, buf.String(), "25/10")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Add(5, 0)
	tracker.Finish()
	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_Defaults(t *testing.T) {
	tracker := NewProgressTracker(nil, 0, 0)
	assert.Equal(t, 1, tracker.reportInterval)

	tracker.Start()
	tracker.Finish()
}
