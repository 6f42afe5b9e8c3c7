package core

import (
	"math"

	"github.com/stellarsignal/orbitwatch/model"
)

// The long-range growth model anchors to a population of 20 in the year
// 2000 and compounds annually with regime-dependent rates. Breakpoints
// mark step changes in launch cadence and fragmentation events.
const (
	BaselineYear  = 2000
	BaselineCount = 20
)

// growthRateFor returns the annual growth factor in effect for the step
// into the given year.
func growthRateFor(year int) float64 {
	switch {
	case year < 2007:
		return 1.05
	case year <= 2008:
		return 1.08
	case year <= 2019:
		return 1.12
	case year <= 2024:
		return 1.15
	default:
		return 1.18
	}
}

// RiskForTotal classifies a population total. Thresholds are inclusive on
// the lower band, so exactly 500 is still Low and exactly 3000 still High.
func RiskForTotal(total float64) model.RiskLevel {
	switch {
	case total <= 500:
		return model.RiskLow
	case total <= 1500:
		return model.RiskMedium
	case total <= 3000:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

// ProjectDebrisGrowth produces one ProjectionPoint per year in
// [startYear, endYear], inclusive. The sequence is a pure function of its
// arguments and the regime table: the baseline anchors the year-2000
// population and every later year compounds from the previous one using
// the rate active in that year. Totals are kept in floating point across
// steps and rounded only at emission.
func ProjectDebrisGrowth(startYear, endYear int, baseline float64) []model.ProjectionPoint {
	if endYear < startYear {
		return nil
	}
	if baseline <= 0 {
		baseline = BaselineCount
	}
	if startYear < BaselineYear {
		startYear = BaselineYear
	}

	points := make([]model.ProjectionPoint, 0, endYear-startYear+1)
	total := baseline
	for year := BaselineYear; year <= endYear; year++ {
		if year > BaselineYear {
			total *= growthRateFor(year)
		}
		if year < startYear {
			continue
		}
		points = append(points, makeProjectionPoint(year, total))
	}
	return points
}

func makeProjectionPoint(year int, total float64) model.ProjectionPoint {
	rounded := int(math.Round(total))
	large := int(math.Round(total * 0.3))
	small := rounded - large

	multiplier := 1.0
	if year >= 2009 {
		multiplier = 2.0
	}
	collisions := int(math.Round(total / 1000.0 * multiplier))
	if collisions < 0 {
		collisions = 0
	}

	return model.ProjectionPoint{
		Year:            year,
		Total:           rounded,
		LargeDebris:     large,
		SmallDebris:     small,
		CollisionEvents: collisions,
		// Classify on the emitted integer so Total and Risk never disagree
		// at a band boundary.
		Risk: RiskForTotal(float64(rounded)),
	}
}

// Per-category annual growth factors for the short-range forecast, which
// is seeded from live observed counts rather than the historical anchor.
const (
	satelliteGrowthRate  = 1.15
	debrisGrowthRate     = 1.08
	rocketBodyGrowthRate = 1.12
)

// ProjectCategoryGrowth produces the ten-year per-category forecast: one
// point per year offset in [0, years], each category compounding at its
// own fixed rate from the observed counts. CollisionRisk is the
// illustrative percentage min(95, 15 + 3k + 2*1.1^k) at offset k. Like the
// long-range model, this is a pure function of its inputs.
func ProjectCategoryGrowth(counts model.CategoryCounts, years int) []model.CategoryForecastPoint {
	if years < 0 {
		return nil
	}
	points := make([]model.CategoryForecastPoint, 0, years+1)
	for k := 0; k <= years; k++ {
		kf := float64(k)
		risk := 15.0 + 3.0*kf + 2.0*math.Pow(1.1, kf)
		if risk > 95 {
			risk = 95
		}
		points = append(points, model.CategoryForecastPoint{
			YearOffset:    k,
			Satellites:    compound(counts.Satellites, satelliteGrowthRate, k),
			Debris:        compound(counts.Debris, debrisGrowthRate, k),
			RocketBodies:  compound(counts.RocketBodies, rocketBodyGrowthRate, k),
			CollisionRisk: risk,
		})
	}
	return points
}

func compound(base int, rate float64, years int) int {
	return int(math.Round(float64(base) * math.Pow(rate, float64(years))))
}
