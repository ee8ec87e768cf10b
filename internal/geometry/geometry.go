// Package geometry provides the planar 2D primitives used for cable crossing
// and proximity checks.
//
// All math treats (lon, lat) degree pairs as Cartesian coordinates. At the
// Baltic latitudes this tool targets that is good enough for a rough proximity
// screen; it is not geodesically accurate, and display code scales degree
// distances linearly (see analysis.KmPerDegree).
package geometry

import "math"

// CollinearEps is the tolerance below which a cross product is treated as
// zero when classifying collinearity. Cross products here are in squared
// degrees; 1e-12 is several orders of magnitude below anything real route
// data produces, so only genuinely degenerate configurations count as
// touching.
const CollinearEps = 1e-12

// Point is a (longitude, latitude) pair in WGS84 degrees.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Segment is a finite straight line between two points.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Cross returns twice the signed area of triangle (o, a, b). The sign gives
// the turn direction from vector oa to vector ob: positive for a left turn,
// negative for a right turn, near-zero for collinear.
func Cross(o, a, b Point) float64 {
	return (a.Lon-o.Lon)*(b.Lat-o.Lat) - (a.Lat-o.Lat)*(b.Lon-o.Lon)
}

// onSegment reports whether q falls within the bounding box spanned by p and
// r. Only meaningful when the three points are already known collinear.
func onSegment(p, q, r Point) bool {
	return q.Lon <= math.Max(p.Lon, r.Lon) &&
		q.Lon >= math.Min(p.Lon, r.Lon) &&
		q.Lat <= math.Max(p.Lat, r.Lat) &&
		q.Lat >= math.Min(p.Lat, r.Lat)
}

// Intersects reports whether two segments cross or touch, including shared
// endpoints and collinear overlap.
func Intersects(s1, s2 Segment) bool {
	a, b := s1.A, s1.B
	c, d := s2.A, s2.B

	o1 := Cross(a, c, d)
	o2 := Cross(b, c, d)
	o3 := Cross(c, a, b)
	o4 := Cross(d, a, b)

	// General position: endpoints strictly on opposite sides of each other.
	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}

	// Collinear endpoints: touching or overlapping counts as intersection.
	if math.Abs(o1) <= CollinearEps && onSegment(c, a, d) {
		return true
	}
	if math.Abs(o2) <= CollinearEps && onSegment(c, b, d) {
		return true
	}
	if math.Abs(o3) <= CollinearEps && onSegment(a, c, b) {
		return true
	}
	if math.Abs(o4) <= CollinearEps && onSegment(a, d, b) {
		return true
	}

	return false
}

// Distance returns the planar Euclidean distance between two points, in
// degrees.
func Distance(p1, p2 Point) float64 {
	dLon := p2.Lon - p1.Lon
	dLat := p2.Lat - p1.Lat
	return math.Sqrt(dLon*dLon + dLat*dLat)
}

// PointToSegment returns the minimum distance from p to the segment, in
// degrees. The point is projected onto the segment's carrier line with the
// projection parameter clamped to [0, 1]; a zero-length segment degrades to
// plain point-to-point distance.
func PointToSegment(p Point, s Segment) float64 {
	dx := s.B.Lon - s.A.Lon
	dy := s.B.Lat - s.A.Lat

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(p, s.A)
	}

	t := ((p.Lon-s.A.Lon)*dx + (p.Lat-s.A.Lat)*dy) / lenSq
	switch {
	case t < 0:
		return Distance(p, s.A)
	case t > 1:
		return Distance(p, s.B)
	}

	closest := Point{Lon: s.A.Lon + t*dx, Lat: s.A.Lat + t*dy}
	return Distance(p, closest)
}
