package core

import (
	"math"

	"github.com/stellarsignal/orbitwatch/model"
)

// Viewport maps geodetic coordinates onto a fixed-size screen whose Earth
// disc is centred and scaled to 35% of the smaller dimension.
type Viewport struct {
	Width  float64
	Height float64
}

// EarthRadius returns the pixel radius of the Earth disc for this viewport.
func (v Viewport) EarthRadius() float64 {
	return 0.35 * math.Min(v.Width, v.Height)
}

// Project converts a geodetic position to screen coordinates. Longitude
// spans the horizontal diameter, latitude the vertical one; positive
// latitude is up, so the y axis is flipped.
func (v Viewport) Project(latDeg, lonDeg float64) (x, y float64) {
	r := v.EarthRadius()
	x = v.Width/2 + (lonDeg/180.0)*r
	y = v.Height/2 - (latDeg/90.0)*r
	return x, y
}

// RenderPosition is one object's current screen position, as handed to the
// rendering sink and to the hover resolver each tick.
type RenderPosition struct {
	CatalogID int
	Name      string
	Category  model.Category
	X, Y      float64
	Lat, Lon  float64
}

// DefaultHoverRadius is the pick radius in pixels for pointer queries.
const DefaultHoverRadius = 20.0

// ResolveHover returns the first position, in the slice's canonical order,
// that lies within radius pixels of the pointer. Ties go to iteration
// order, not to the closest object; the scan is a single O(n) pass.
func ResolveHover(px, py float64, positions []RenderPosition, radius float64) (RenderPosition, bool) {
	if radius <= 0 {
		radius = DefaultHoverRadius
	}
	r2 := radius * radius
	for _, pos := range positions {
		dx := pos.X - px
		dy := pos.Y - py
		if dx*dx+dy*dy <= r2 {
			return pos, true
		}
	}
	return RenderPosition{}, false
}
