package core

import (
	"errors"
	"time"

	"github.com/stellarsignal/orbitwatch/model"
)

// DefaultTrailWindow bounds how far back a trail reaches.
const DefaultTrailWindow = 90 * time.Second

// ErrSampleOutOfOrder rejects an append whose timestamp precedes the last
// accepted sample. Trails are monotonic queues, not general containers.
var ErrSampleOutOfOrder = errors.New("trail sample out of order")

// Trail is one object's time-windowed position history, ordered by
// ascending timestamp. Each tick appends the new sample and then prunes
// everything older than the window.
type Trail struct {
	window  time.Duration
	samples []model.PositionSample

	// last is the timestamp high-water mark. It survives pruning so an
	// emptied trail still refuses to travel back in time.
	last    time.Time
	hasLast bool
}

// NewTrail builds a trail with the given retention window, defaulting to
// DefaultTrailWindow when the window is not positive.
func NewTrail(window time.Duration) *Trail {
	if window <= 0 {
		window = DefaultTrailWindow
	}
	return &Trail{window: window}
}

// Append adds a sample at the end of the trail. Timestamps must be
// non-decreasing; anything older than the last accepted sample is refused.
func (t *Trail) Append(s model.PositionSample) error {
	if t.hasLast && s.Timestamp.Before(t.last) {
		return ErrSampleOutOfOrder
	}
	t.samples = append(t.samples, s)
	t.last = s.Timestamp
	t.hasLast = true
	return nil
}

// Prune drops every sample older than the window relative to now. Samples
// are ordered, so a single cutoff scan from the front suffices.
func (t *Trail) Prune(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(t.samples) && t.samples[i].Timestamp.Before(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	remaining := len(t.samples) - i
	copy(t.samples, t.samples[i:])
	t.samples = t.samples[:remaining]
}

// Len returns the number of retained samples.
func (t *Trail) Len() int { return len(t.samples) }

// Samples returns a copy of the retained history, oldest first, safe for
// the renderer to hold across ticks.
func (t *Trail) Samples() []model.PositionSample {
	out := make([]model.PositionSample, len(t.samples))
	copy(out, t.samples)
	return out
}
