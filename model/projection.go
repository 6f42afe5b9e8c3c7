package model

// RiskLevel grades the forecast debris population, ordered by severity so
// callers can compare levels directly.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns the display name of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ProjectionPoint is one year of the long-range debris growth forecast.
// A sequence of points is fully determined by (start year, end year,
// baseline, regime table); nothing is mutated after construction.
type ProjectionPoint struct {
	Year            int
	Total           int
	LargeDebris     int
	SmallDebris     int
	CollisionEvents int
	Risk            RiskLevel
}

// CategoryCounts is the live population split used to seed the
// per-category forecast variant.
type CategoryCounts struct {
	Satellites   int
	Debris       int
	RocketBodies int
}

// Total returns the summed population across categories.
func (c CategoryCounts) Total() int {
	return c.Satellites + c.Debris + c.RocketBodies
}

// CategoryForecastPoint is one step of the ten-year per-category forecast,
// seeded from observed counts rather than the fixed historical baseline.
type CategoryForecastPoint struct {
	YearOffset   int
	Satellites   int
	Debris       int
	RocketBodies int

	// CollisionRisk is an illustrative percentage in [0, 95].
	CollisionRisk float64
}
