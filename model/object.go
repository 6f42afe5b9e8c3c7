package model

import "time"

// Category is the closed set of tracked-object classes. Classification
// happens once, when a raw record is parsed; the value never changes for
// the lifetime of the object.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryDebris
	CategorySatellite
	CategoryRocketBody
)

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case CategoryDebris:
		return "debris"
	case CategorySatellite:
		return "satellite"
	case CategoryRocketBody:
		return "rocket_body"
	default:
		return "unknown"
	}
}

// Categories lists every category in canonical order, for exhaustive
// iteration (metric labels, dispatch tables, forecast splits).
var Categories = []Category{
	CategoryDebris,
	CategorySatellite,
	CategoryRocketBody,
	CategoryUnknown,
}

// Color returns the hex color the rendering sink uses for this category.
func (c Category) Color() string {
	switch c {
	case CategoryDebris:
		return "#ff5c5c"
	case CategorySatellite:
		return "#5cd65c"
	case CategoryRocketBody:
		return "#ffb347"
	default:
		return "#9e9e9e"
	}
}

// OrbitalElements holds the two fixed-width element lines of a record,
// kept only when they parsed successfully at classification time.
type OrbitalElements struct {
	Line1 string
	Line2 string
}

// TrackedObject is one catalogued orbital object for the current data-load
// generation. A dataset refresh replaces the whole set; objects are never
// merged across generations.
type TrackedObject struct {
	Name      string
	CatalogID int
	Category  Category

	// Elements is nil when the element lines failed to parse; such
	// objects move on the analytic fallback model only.
	Elements *OrbitalElements

	Country   string
	EpochYear int
}

// PositionSample is one propagated position at one instant: screen
// coordinates for the renderer plus the geodetic point they came from.
// Samples are immutable once created.
type PositionSample struct {
	X, Y      float64
	Lat, Lon  float64
	Timestamp time.Time
}

// ClassificationRule maps a substring of an object's display name to a
// category and, optionally, a country of origin. Rules are evaluated in
// order; the first match wins.
type ClassificationRule struct {
	Pattern  string
	Category Category
	Country  string
}

// DataSource selects one of the logical element-set endpoints. The set is
// closed: the loader only ever fetches from these.
type DataSource int

const (
	SourceActive DataSource = iota
	SourceDebris
	SourceRecentLaunches
	SourceWeather
	SourceStations
)

// String returns the endpoint group name for the source.
func (s DataSource) String() string {
	switch s {
	case SourceActive:
		return "active"
	case SourceDebris:
		return "debris"
	case SourceRecentLaunches:
		return "recent-launches"
	case SourceWeather:
		return "weather"
	case SourceStations:
		return "stations"
	default:
		return "unknown"
	}
}

// ParseDataSource maps a configuration string onto a DataSource.
func ParseDataSource(s string) (DataSource, bool) {
	switch s {
	case "active":
		return SourceActive, true
	case "debris":
		return SourceDebris, true
	case "recent-launches":
		return SourceRecentLaunches, true
	case "weather":
		return SourceWeather, true
	case "stations":
		return SourceStations, true
	default:
		return SourceActive, false
	}
}
