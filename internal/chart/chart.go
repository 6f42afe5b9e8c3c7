package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/stellarsignal/orbitwatch/model"
)

// ForecastChart builds the long-range debris growth chart: total, large
// and small debris per year, with the risk level surfaced in the subtitle
// of the final year.
func ForecastChart(points []model.ProjectionPoint) *charts.Line {
	line := charts.NewLine()

	subtitle := ""
	if n := len(points); n > 0 {
		last := points[n-1]
		subtitle = fmt.Sprintf("%d-%d, final risk: %s", points[0].Year, last.Year, last.Risk)
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Debris Growth Forecast", Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Orbital Debris Growth", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "objects"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "year"}),
	)

	years := make([]string, 0, len(points))
	total := make([]opts.LineData, 0, len(points))
	large := make([]opts.LineData, 0, len(points))
	small := make([]opts.LineData, 0, len(points))
	collisions := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		years = append(years, fmt.Sprintf("%d", p.Year))
		total = append(total, opts.LineData{Value: p.Total})
		large = append(large, opts.LineData{Value: p.LargeDebris})
		small = append(small, opts.LineData{Value: p.SmallDebris})
		collisions = append(collisions, opts.LineData{Value: p.CollisionEvents})
	}

	line.SetXAxis(years).
		AddSeries("total", total).
		AddSeries("large debris", large).
		AddSeries("small debris", small).
		AddSeries("collision events", collisions).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// CategoryChart builds the ten-year per-category forecast seeded from live
// counts, with the collision-risk percentage as its own series.
func CategoryChart(points []model.CategoryForecastPoint, startYear int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Category Forecast", Width: "1000px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Per-Category Growth", Subtitle: "seeded from live observed counts"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "objects"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "year"}),
	)

	years := make([]string, 0, len(points))
	sats := make([]opts.LineData, 0, len(points))
	debris := make([]opts.LineData, 0, len(points))
	rockets := make([]opts.LineData, 0, len(points))
	risk := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		years = append(years, fmt.Sprintf("%d", startYear+p.YearOffset))
		sats = append(sats, opts.LineData{Value: p.Satellites})
		debris = append(debris, opts.LineData{Value: p.Debris})
		rockets = append(rockets, opts.LineData{Value: p.RocketBodies})
		risk = append(risk, opts.LineData{Value: p.CollisionRisk})
	}

	line.SetXAxis(years).
		AddSeries("satellites", sats).
		AddSeries("debris", debris).
		AddSeries("rocket bodies", rockets).
		AddSeries("collision risk %", risk).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}
