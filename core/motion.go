package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/stellarsignal/orbitwatch/model"
)

// MotionModel produces a geodetic position for a tracked object at a given
// wall-clock instant.
type MotionModel interface {
	// GeodeticAt returns latitude and longitude in degrees,
	// lat in [-90, 90], lon in [-180, 180].
	GeodeticAt(t time.Time) (latDeg, lonDeg float64)
}

// AnalyticMotionModel is the deterministic fallback used when an object
// carries no usable orbital elements, or when the numerical propagator
// fails for a tick. Its output is a pure function of
// (catalog id, category, timestamp), which the tests rely on.
type AnalyticMotionModel struct {
	CatalogID int
	Category  model.Category
}

// GeodeticAt evaluates the analytic motion formula.
func (m *AnalyticMotionModel) GeodeticAt(t time.Time) (float64, float64) {
	speed, inclination := analyticParams(m.Category)

	phase := float64(m.CatalogID%360) * math.Pi / 180.0
	tt := float64(t.UnixMilli()) * 0.001 * speed

	lat := math.Sin(tt+phase) * 50.0 * inclination
	lon := math.Mod(tt*2.5+phase, 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	return lat, lon*180.0/math.Pi - 180.0
}

// analyticParams returns the (speed multiplier, inclination factor) pair
// for a category. Debris tumbles faster and ranges wider in latitude;
// satellites are slower and stay nearer the equator.
func analyticParams(c model.Category) (speed, inclination float64) {
	switch c {
	case model.CategoryDebris:
		return 1.3, 1.8
	case model.CategorySatellite:
		return 0.7, 0.6
	case model.CategoryRocketBody, model.CategoryUnknown:
		return 1.0, 1.0
	default:
		return 1.0, 1.0
	}
}

// SGP4MotionModel propagates real orbital elements and converts the
// inertial position to geodetic coordinates using sidereal time. Any
// failure of the numerical path for a single call falls back to the
// analytic model for that call only.
type SGP4MotionModel struct {
	sat      satellite.Satellite
	fallback AnalyticMotionModel
}

// GeodeticAt runs SGP4 for the instant t. Non-finite positions (decayed or
// degenerate element sets) divert to the analytic fallback.
func (m *SGP4MotionModel) GeodeticAt(t time.Time) (float64, float64) {
	lat, lon, ok := m.propagate(t)
	if !ok {
		return m.fallback.GeodeticAt(t)
	}
	return lat, lon
}

func (m *SGP4MotionModel) propagate(t time.Time) (latDeg, lonDeg float64, ok bool) {
	// The propagation library indexes fixed-width fields and can panic on
	// element sets it considers valid at parse time but not at evaluation.
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	if !isFinite(posECI.X) || !isFinite(posECI.Y) || !isFinite(posECI.Z) {
		return 0, 0, false
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	_, _, ll := satellite.ECIToLLA(posECI, gmst)
	deg := satellite.LatLongDeg(ll)
	if !isFinite(deg.Latitude) || !isFinite(deg.Longitude) {
		return 0, 0, false
	}
	return deg.Latitude, normalizeLon(deg.Longitude), true
}

// NewMotionModel chooses the motion model for an object: SGP4 when it
// carries parseable elements, the analytic fallback otherwise.
func NewMotionModel(obj *model.TrackedObject) MotionModel {
	fallback := AnalyticMotionModel{CatalogID: obj.CatalogID, Category: obj.Category}
	if obj.Elements == nil {
		return &fallback
	}
	sat, ok := parseTLE(obj.Elements.Line1, obj.Elements.Line2)
	if !ok {
		return &fallback
	}
	return &SGP4MotionModel{sat: sat, fallback: fallback}
}

// ValidElements reports whether two element lines parse as a usable
// element set.
func ValidElements(line1, line2 string) bool {
	_, ok := parseTLE(line1, line2)
	return ok
}

// parseTLE wraps the library constructor, which panics rather than
// returning an error on short or corrupt lines.
func parseTLE(line1, line2 string) (sat satellite.Satellite, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if len(line1) < 69 || len(line2) < 69 {
		return satellite.Satellite{}, false
	}
	sat = satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return sat, true
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
