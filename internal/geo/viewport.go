package geo

import "math"

// Mode tells the renderer how to frame a Viewport.
type Mode string

const (
	// ModeSinglePoint centers on one point; the renderer picks a fixed close zoom.
	ModeSinglePoint Mode = "single-point"
	// ModeBoundingBox fits Box; the renderer adds its own padding.
	ModeBoundingBox Mode = "bounding-box"
)

// Box is an axis-aligned bounding box in degrees.
type Box struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Center returns the geometric midpoint of the box.
func (b Box) Center() Coordinates {
	return Coordinates{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Viewport is the area a map should show for a result set.
type Viewport struct {
	Center Coordinates `json:"center"`
	Mode   Mode        `json:"mode"`
	Box    *Box        `json:"box,omitempty"`
}

// FitViewport frames items. No items yields fallback as a single point, one item
// yields that item as a single point and two or more yield the tight bounding box.
func FitViewport[T Located](items []T, fallback Coordinates) Viewport {
	switch len(items) {
	case 0:
		return Viewport{Center: fallback, Mode: ModeSinglePoint}
	case 1:
		return Viewport{Center: items[0].Position(), Mode: ModeSinglePoint}
	}

	box := Box{
		MinLat: math.Inf(1),
		MaxLat: math.Inf(-1),
		MinLon: math.Inf(1),
		MaxLon: math.Inf(-1),
	}
	for _, item := range items {
		p := item.Position()
		box.MinLat = math.Min(box.MinLat, p.Lat)
		box.MaxLat = math.Max(box.MaxLat, p.Lat)
		box.MinLon = math.Min(box.MinLon, p.Lon)
		box.MaxLon = math.Max(box.MaxLon, p.Lon)
	}

	return Viewport{Center: box.Center(), Mode: ModeBoundingBox, Box: &box}
}
