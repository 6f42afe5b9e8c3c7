package core

import (
	"math"
	"testing"

	"github.com/stellarsignal/orbitwatch/model"
)

func TestProjectDebrisGrowth_BaselineYear(t *testing.T) {
	points := ProjectDebrisGrowth(2000, 2001, 20)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	if points[0].Year != 2000 || points[0].Total != 20 {
		t.Errorf("baseline point = %+v, want year 2000 total 20", points[0])
	}

	// 2001 grows at the pre-2007 rate of 5%: round(20 * 1.05) = 21.
	p := points[1]
	if p.Year != 2001 || p.Total != 21 {
		t.Fatalf("2001 point = %+v, want total 21", p)
	}
	if p.LargeDebris != 6 {
		t.Errorf("large = %d, want round(21*0.3) = 6", p.LargeDebris)
	}
	if p.SmallDebris != 15 {
		t.Errorf("small = %d, want 15", p.SmallDebris)
	}
	if p.CollisionEvents != 0 {
		t.Errorf("collisions = %d, want 0", p.CollisionEvents)
	}
	if p.Risk != model.RiskLow {
		t.Errorf("risk = %v, want low", p.Risk)
	}
}

func TestProjectDebrisGrowth_Monotonic(t *testing.T) {
	points := ProjectDebrisGrowth(2000, 2028, 20)
	if len(points) != 29 {
		t.Fatalf("expected 29 points, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Total < points[i-1].Total {
			t.Fatalf("total shrank %d -> %d at year %d", points[i-1].Total, points[i].Total, points[i].Year)
		}
		if points[i].Risk < points[i-1].Risk {
			t.Fatalf("risk dropped at year %d", points[i].Year)
		}
	}
}

func TestProjectDebrisGrowth_RegimeRates(t *testing.T) {
	cases := []struct {
		year int
		rate float64
	}{
		{2001, 1.05},
		{2006, 1.05},
		{2007, 1.08},
		{2008, 1.08},
		{2009, 1.12},
		{2019, 1.12},
		{2020, 1.15},
		{2024, 1.15},
		{2025, 1.18},
		{2030, 1.18},
	}
	for _, tc := range cases {
		if got := growthRateFor(tc.year); got != tc.rate {
			t.Errorf("rate(%d) = %v, want %v", tc.year, got, tc.rate)
		}
	}
}

func TestProjectDebrisGrowth_Deterministic(t *testing.T) {
	a := ProjectDebrisGrowth(2005, 2035, 20)
	b := ProjectDebrisGrowth(2005, 2035, 20)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestProjectDebrisGrowth_PartialRange(t *testing.T) {
	full := ProjectDebrisGrowth(2000, 2030, 20)
	partial := ProjectDebrisGrowth(2010, 2020, 20)
	if len(partial) != 11 {
		t.Fatalf("expected 11 points, got %d", len(partial))
	}
	for i, p := range partial {
		if full[10+i] != p {
			t.Fatalf("partial range diverges from full at year %d: %+v vs %+v", p.Year, p, full[10+i])
		}
	}
}

func TestRiskForTotal_Boundaries(t *testing.T) {
	cases := []struct {
		total float64
		want  model.RiskLevel
	}{
		{0, model.RiskLow},
		{500, model.RiskLow},
		{501, model.RiskMedium},
		{1500, model.RiskMedium},
		{1501, model.RiskHigh},
		{3000, model.RiskHigh},
		{3001, model.RiskCritical},
	}
	for _, tc := range cases {
		if got := RiskForTotal(tc.total); got != tc.want {
			t.Errorf("RiskForTotal(%v) = %v, want %v", tc.total, got, tc.want)
		}
	}
}

func TestMakeProjectionPoint_CollisionMultiplier(t *testing.T) {
	// The doubled post-2009 multiplier: round(2500/1000 * 2) = 5 vs
	// round(2500/1000 * 1) = 3 (half rounds away from zero).
	after := makeProjectionPoint(2010, 2500)
	if after.CollisionEvents != 5 {
		t.Errorf("2010 collisions = %d, want 5", after.CollisionEvents)
	}
	before := makeProjectionPoint(2005, 2500)
	if before.CollisionEvents != 3 {
		t.Errorf("2005 collisions = %d, want 3", before.CollisionEvents)
	}
}

func TestMakeProjectionPoint_RiskMatchesEmittedTotal(t *testing.T) {
	// 500.4 emits Total 500, which sits in the Low band; classifying the
	// unrounded float would contradict the emitted value.
	p := makeProjectionPoint(2010, 500.4)
	if p.Total != 500 || p.Risk != model.RiskLow {
		t.Fatalf("point(500.4) = total %d risk %v, want 500 Low", p.Total, p.Risk)
	}
	p = makeProjectionPoint(2010, 500.6)
	if p.Total != 501 || p.Risk != model.RiskMedium {
		t.Fatalf("point(500.6) = total %d risk %v, want 501 Medium", p.Total, p.Risk)
	}
}

func TestProjectCategoryGrowth(t *testing.T) {
	counts := model.CategoryCounts{Satellites: 100, Debris: 200, RocketBodies: 50}
	points := ProjectCategoryGrowth(counts, 10)
	if len(points) != 11 {
		t.Fatalf("expected 11 points, got %d", len(points))
	}

	if p := points[0]; p.Satellites != 100 || p.Debris != 200 || p.RocketBodies != 50 {
		t.Fatalf("offset 0 must echo the observed counts, got %+v", p)
	}
	if points[1].Satellites != 115 {
		t.Errorf("satellites(1) = %d, want 115", points[1].Satellites)
	}
	if points[1].Debris != 216 {
		t.Errorf("debris(1) = %d, want 216", points[1].Debris)
	}
	if points[1].RocketBodies != 56 {
		t.Errorf("rocket bodies(1) = %d, want 56", points[1].RocketBodies)
	}

	wantRisk := 15.0 + 3.0 + 2.0*1.1
	if math.Abs(points[1].CollisionRisk-wantRisk) > 1e-9 {
		t.Errorf("risk(1) = %v, want %v", points[1].CollisionRisk, wantRisk)
	}
}

func TestProjectCategoryGrowth_RiskClamp(t *testing.T) {
	points := ProjectCategoryGrowth(model.CategoryCounts{Satellites: 1}, 30)
	last := points[len(points)-1]
	if last.CollisionRisk != 95 {
		t.Fatalf("risk(30) = %v, want clamp at 95", last.CollisionRisk)
	}
	for i := 1; i < len(points); i++ {
		if points[i].CollisionRisk < points[i-1].CollisionRisk {
			t.Fatalf("collision risk decreased at offset %d", i)
		}
	}
}
