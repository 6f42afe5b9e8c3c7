package timectrl

import (
	"context"
	"sync"
	"time"
)

// DefaultTick approximates one animation frame.
const DefaultTick = 33 * time.Millisecond

// SimClock exposes the current simulation time. Components that need "now"
// depend on this rather than on a concrete controller, which keeps them
// testable with fixed clocks.
type SimClock interface {
	Now() time.Time
}

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime advances according to wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as quickly as listeners can run while still
	// stepping simulation time by Tick.
	Accelerated
)

// TimeController drives the tick loop and notifies registered listeners.
// Listeners run synchronously in registration order, so one tick's state
// mutations are fully visible before the next tick begins.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time
	listeners   []func(time.Time)
}

// NewTimeController constructs a controller. A non-positive tick falls
// back to DefaultTick.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime moves the current simulation time, for tests and manual
// repositioning before Start.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.currentTime = t
}

// AddListener registers a callback invoked on every tick. Listeners must
// be registered before Start.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller until the context is cancelled or, when
// duration is positive, until that much simulation time has elapsed. It
// returns a channel that is closed when the loop finishes.
func (tc *TimeController) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		tc.mu.Lock()
		simTime := tc.StartTime
		tc.currentTime = simTime
		tc.mu.Unlock()

		elapsed := time.Duration(0)

		var tickC <-chan time.Time
		if tc.Mode == RealTime {
			ticker := time.NewTicker(tc.Tick)
			defer ticker.Stop()
			tickC = ticker.C
		}

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			if tickC != nil {
				select {
				case <-ctx.Done():
					return
				case <-tickC:
				}
			} else if ctx.Err() != nil {
				return
			}

			simTime = simTime.Add(tc.Tick)
			elapsed += tc.Tick

			tc.mu.Lock()
			tc.currentTime = simTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(simTime)
			}
		}
	}()
	return done
}
