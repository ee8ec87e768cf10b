// Package cable loads submarine cable routes from GeoJSON or shapefile
// sources into a uniform model for crossing analysis.
package cable

import (
	"github.com/twpayne/go-geom"

	"github.com/balticwatch/cablewatch/internal/geometry"
)

// Cable is a single named, identified cable route. Lines holds the route's
// line-strings in source order; each line-string is an ordered run of
// positions. Order matters downstream: intersection dedup keeps the first
// match per (cable, line-string) pair.
type Cable struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Lines [][]geometry.Point `json:"lines"`
}

// SegmentCount returns the number of consecutive-pair segments across all
// line-strings of the cable.
func (c Cable) SegmentCount() int {
	var n int
	for _, line := range c.Lines {
		if len(line) > 1 {
			n += len(line) - 1
		}
	}
	return n
}

// Set is an ordered collection of cable routes from one source file.
type Set struct {
	Cables  []Cable
	Skipped int          // features whose geometry was not a MultiLineString
	Bounds  *geom.Bounds // extent of all loaded routes, nil until first cable
}

// SegmentCount returns the total segment count across all cables.
func (s *Set) SegmentCount() int {
	var n int
	for _, c := range s.Cables {
		n += c.SegmentCount()
	}
	return n
}

// extendBounds grows the set extent with one extracted line-string.
func (s *Set) extendBounds(line []geometry.Point) {
	if len(line) == 0 {
		return
	}
	flat := make([]float64, 0, len(line)*2)
	for _, p := range line {
		flat = append(flat, p.Lon, p.Lat)
	}
	if s.Bounds == nil {
		s.Bounds = geom.NewBounds(geom.XY)
	}
	s.Bounds = s.Bounds.Extend(geom.NewLineStringFlat(geom.XY, flat))
}
