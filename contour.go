// Package slabsurf computes surfacing toolpaths for slab workpieces from
// calibrated 2D contours, and emits them as G-code programs.
package slabsurf

import (
	"errors"
	"math"
)

// geomEpsilon is the tolerance for geometric predicates. Values below this
// threshold are treated as zero (parallel lines, zero-length edges).
const geomEpsilon = 1e-10

var ErrInvalidContour = errors.New("invalid contour")

// Point is a 2D coordinate in either pixel space (y down) or machine
// space (mm, y up).
type Point struct {
	X float64
	Y float64
}

func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) Equals(q Point) bool {
	return math.Abs(p.X-q.X) < geomEpsilon && math.Abs(p.Y-q.Y) < geomEpsilon
}

// Contour is an ordered ring of points. It is logically closed but stored
// without duplicating the first point; use Closed() where an explicit
// closing edge is needed.
type Contour []Point

// Validate reports ErrInvalidContour for rings with fewer than 3 points.
func (c Contour) Validate() error {
	if len(c) < 3 {
		return ErrInvalidContour
	}
	return nil
}

// Closed returns the ring with the first point re-appended. A ring that
// already ends on its first point is returned as-is.
func (c Contour) Closed() Contour {
	if len(c) < 2 || c[0].Equals(c[len(c)-1]) {
		return c
	}
	out := make(Contour, len(c), len(c)+1)
	copy(out, c)
	return append(out, c[0])
}

// SignedArea is the shoelace area of the ring: positive for
// counter-clockwise winding, negative for clockwise.
func (c Contour) SignedArea() float64 {
	ring := c
	if len(ring) > 1 && ring[0].Equals(ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	n := len(ring)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return area / 2
}

func (c Contour) IsCounterClockwise() bool {
	return c.SignedArea() > 0
}

// Normalized returns the ring in counter-clockwise order, reversing it if
// needed. Closing duplicates are dropped first.
func (c Contour) Normalized() Contour {
	ring := c
	if len(ring) > 1 && ring[0].Equals(ring[len(ring)-1]) {
		ring = ring[:len(ring)-1]
	}
	out := make(Contour, len(ring))
	if ring.SignedArea() < 0 {
		for i := range ring {
			out[i] = ring[len(ring)-1-i]
		}
	} else {
		copy(out, ring)
	}
	return out
}

// BoundingBox returns the min/max corners over all points.
func (c Contour) BoundingBox() (min, max Point) {
	if len(c) == 0 {
		return Point{}, Point{}
	}
	min = c[0]
	max = c[0]
	for _, p := range c[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}
