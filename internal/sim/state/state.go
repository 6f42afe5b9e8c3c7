package state

import (
	"context"
	"sync"
	"time"

	"github.com/stellarsignal/orbitwatch/core"
	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/model"
)

// MetricsRecorder receives population and tick telemetry from the tracker.
// The observability collector satisfies it; tests use lightweight fakes.
type MetricsRecorder interface {
	SetObjectCounts(generation int, byCategory map[model.Category]int)
	ObserveTick(seconds float64)
}

// trackedEntry bundles everything owned per object within one generation:
// the classified object, its motion model, its trail, and the most recent
// propagated position.
type trackedEntry struct {
	object *model.TrackedObject
	motion core.MotionModel
	trail  *core.Trail

	pos    core.RenderPosition
	hasPos bool
}

// TrackerState owns the current object generation and everything derived
// from it each tick. There is exactly one writer (the tick loop plus
// dataset commits); the lock exists for the renderer and loader reading
// concurrently, and guarantees a refresh is observed atomically.
type TrackerState struct {
	mu sync.RWMutex

	viewport    core.Viewport
	trailWindow time.Duration
	hoverRadius float64

	entries    []*trackedEntry
	generation int

	pointerX, pointerY float64
	hasPointer         bool
	hover              core.RenderPosition
	hasHover           bool

	log     logging.Logger
	metrics MetricsRecorder
}

// RenderSnapshot is the per-tick feed for the rendering sink: current
// screen positions in canonical order, each object's trail, and the hover
// result if the pointer rests on an object.
type RenderSnapshot struct {
	Generation int
	Positions  []core.RenderPosition
	Trails     map[int][]model.PositionSample
	Hover      *core.RenderPosition
}

// Option configures a TrackerState at construction.
type Option func(*TrackerState)

// WithMetricsRecorder wires population gauges and tick timings.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *TrackerState) { s.metrics = m }
}

// WithTrailWindow overrides the default 90s trail retention window.
func WithTrailWindow(d time.Duration) Option {
	return func(s *TrackerState) {
		if d > 0 {
			s.trailWindow = d
		}
	}
}

// WithHoverRadius overrides the default 20px pointer pick radius.
func WithHoverRadius(r float64) Option {
	return func(s *TrackerState) {
		if r > 0 {
			s.hoverRadius = r
		}
	}
}

// NewTrackerState constructs an empty tracker over the given viewport.
func NewTrackerState(viewport core.Viewport, log logging.Logger, opts ...Option) *TrackerState {
	if log == nil {
		log = logging.Noop()
	}
	s := &TrackerState{
		viewport:    viewport,
		trailWindow: core.DefaultTrailWindow,
		hoverRadius: core.DefaultHoverRadius,
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReplaceDataset atomically swaps in a new object generation. Old trails
// belong to the old generation and are discarded wholesale; there is no
// partial merge, so no tick can observe a torn mix of old and new objects.
func (s *TrackerState) ReplaceDataset(objects []*model.TrackedObject) {
	entries := make([]*trackedEntry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, &trackedEntry{
			object: obj,
			motion: core.NewMotionModel(obj),
			trail:  core.NewTrail(s.trailWindow),
		})
	}

	s.mu.Lock()
	s.entries = entries
	s.generation++
	s.hasHover = false
	generation := s.generation
	counts := s.countByCategoryLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetObjectCounts(generation, counts)
	}
	s.log.Info(context.Background(), "dataset replaced",
		logging.Int("generation", generation),
		logging.Int("objects", len(objects)),
	)
}

// AdvanceTick propagates every object to now, appends the new position to
// its trail, prunes the trail window, and re-resolves the pointer hover.
// It is a total operation: per-object propagation failures already fell
// back inside the motion model, so a tick never aborts.
func (s *TrackerState) AdvanceTick(now time.Time) {
	start := time.Now()

	s.mu.Lock()
	for _, e := range s.entries {
		lat, lon := e.motion.GeodeticAt(now)
		x, y := s.viewport.Project(lat, lon)

		e.pos = core.RenderPosition{
			CatalogID: e.object.CatalogID,
			Name:      e.object.Name,
			Category:  e.object.Category,
			X:         x,
			Y:         y,
			Lat:       lat,
			Lon:       lon,
		}
		e.hasPos = true

		// Append precedes prune within the tick. The controller's clock is
		// monotonic, so the append cannot be out of order; a failure here
		// would indicate a broken scheduler and is only logged.
		if err := e.trail.Append(model.PositionSample{
			X: x, Y: y, Lat: lat, Lon: lon, Timestamp: now,
		}); err != nil {
			s.log.Warn(context.Background(), "trail append rejected",
				logging.Int("catalog_id", e.object.CatalogID),
				logging.Err(err),
			)
		}
		e.trail.Prune(now)
	}
	s.resolveHoverLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start).Seconds())
	}
}

// SetPointer records the pointer position used for hover resolution on
// subsequent ticks, and resolves immediately against current positions.
func (s *TrackerState) SetPointer(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointerX, s.pointerY = x, y
	s.hasPointer = true
	s.resolveHoverLocked()
}

// ClearPointer forgets the pointer; hover resolves to nothing until the
// pointer returns.
func (s *TrackerState) ClearPointer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasPointer = false
	s.hasHover = false
}

func (s *TrackerState) resolveHoverLocked() {
	if !s.hasPointer {
		s.hasHover = false
		return
	}
	s.hover, s.hasHover = core.ResolveHover(s.pointerX, s.pointerY, s.positionsLocked(), s.hoverRadius)
}

// ResolveHover answers a one-off pointer query against current positions
// without changing the tracked pointer.
func (s *TrackerState) ResolveHover(px, py float64) (core.RenderPosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.ResolveHover(px, py, s.positionsLocked(), s.hoverRadius)
}

// Snapshot returns a coherent view for the rendering sink. Trail slices
// are copies; the renderer may hold them across ticks.
func (s *TrackerState) Snapshot() *RenderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &RenderSnapshot{
		Generation: s.generation,
		Positions:  s.positionsLocked(),
		Trails:     make(map[int][]model.PositionSample, len(s.entries)),
	}
	for _, e := range s.entries {
		snap.Trails[e.object.CatalogID] = e.trail.Samples()
	}
	if s.hasHover {
		hover := s.hover
		snap.Hover = &hover
	}
	return snap
}

// Generation returns the current dataset generation number.
func (s *TrackerState) Generation() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// ObjectCount returns the size of the current generation.
func (s *TrackerState) ObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CategoryCounts seeds the per-category forecast from the live population.
func (s *TrackerState) CategoryCounts() model.CategoryCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	by := s.countByCategoryLocked()
	return model.CategoryCounts{
		Satellites:   by[model.CategorySatellite],
		Debris:       by[model.CategoryDebris],
		RocketBodies: by[model.CategoryRocketBody],
	}
}

func (s *TrackerState) positionsLocked() []core.RenderPosition {
	positions := make([]core.RenderPosition, 0, len(s.entries))
	for _, e := range s.entries {
		if e.hasPos {
			positions = append(positions, e.pos)
		}
	}
	return positions
}

func (s *TrackerState) countByCategoryLocked() map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories))
	for _, e := range s.entries {
		counts[e.object.Category]++
	}
	return counts
}
