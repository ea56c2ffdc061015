package slabsurf

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// OffsetStrategy expands a closed polygon outward by a positive distance.
// Strategies are explicit, test-injectable values rather than entries in a
// name-keyed registry.
type OffsetStrategy interface {
	Offset(c Contour, distance float64) Contour
}

// BufferPolygon expands the contour outward by marginMm using the bisector
// strategy. A margin <= 0 or a degenerate contour passes through unchanged.
func BufferPolygon(c Contour, marginMm float64) Contour {
	return BufferPolygonWith(c, marginMm, BisectorOffset{})
}

// BufferPolygonWith is BufferPolygon with an explicit offset strategy.
func BufferPolygonWith(c Contour, marginMm float64, strategy OffsetStrategy) Contour {
	if marginMm <= 0 || len(c) < 3 {
		return c
	}
	return strategy.Offset(c, marginMm)
}

// BisectorOffset offsets each vertex along its angle bisector, approximated
// without trigonometry by interpolating between the neighbouring vertices
// weighted by edge length. The result is an approximate offset, not an
// exact Minkowski sum: self-intersections from buffering sharp concave
// regions are not detected or repaired.
type BisectorOffset struct{}

// miterLimit caps the vertex travel at sharp corners, in multiples of the
// offset distance.
const miterLimit = 3.0

func (BisectorOffset) Offset(c Contour, distance float64) Contour {
	if len(c) < 3 || distance <= 0 {
		return c
	}

	// the movement sign below assumes counter-clockwise winding, so force it
	ring := c.Normalized()
	n := len(ring)

	out := make(Contour, 0, n+1)
	for i := 0; i < n; i++ {
		prev := ring[(i+n-1)%n]
		curr := ring[i]
		next := ring[(i+1)%n]

		if prev.Equals(curr) || curr.Equals(next) {
			continue
		}
		d1 := curr.DistanceTo(prev)
		d2 := curr.DistanceTo(next)
		if d1 < geomEpsilon || d2 < geomEpsilon {
			continue
		}

		// cheap bisector: interpolate between the neighbours weighted by
		// edge length
		t := d1 / (d1 + d2)
		bis := Point{prev.X + (next.X-prev.X)*t, prev.Y + (next.Y-prev.Y)*t}

		bx := bis.X - curr.X
		by := bis.Y - curr.Y
		bl := math.Hypot(bx, by) + 1e-6
		ux := bx / bl
		uy := by / bl

		// vertex travel so that the cleared distance perpendicular to the
		// adjacent edges equals the offset distance
		ex := (next.X - curr.X) / d2
		ey := (next.Y - curr.Y) / d2
		sinHalf := math.Abs(ex*uy - ey*ux)
		travel := distance * miterLimit
		if sinHalf > 1/miterLimit {
			travel = distance / sinHalf
		}

		// convex vertices move away from the bisector point, reflex ones
		// toward it
		cross := (curr.X-prev.X)*(next.Y-curr.Y) - (curr.Y-prev.Y)*(next.X-curr.X)
		if cross < 0 {
			travel = -travel
		}

		out = append(out, Point{curr.X - travel*ux, curr.Y - travel*uy})
	}

	if len(out) < 3 {
		return c
	}
	out = append(out, out[0])

	return Simplify(out, 0.5+distance*0.05)
}

// ClipperOffset delegates to the Clipper polygon-offset engine with miter
// joins, on a fixed-point scaling of the mm coordinates.
type ClipperOffset struct{}

const clipperScale = 1000.0

func (ClipperOffset) Offset(c Contour, distance float64) Contour {
	if len(c) < 3 || distance <= 0 {
		return c
	}

	ring := c.Normalized()
	path := clipper.NewPath()
	for _, p := range ring {
		path = append(path, clipper.NewIntPoint(
			clipper.CInt(math.Round(p.X*clipperScale)),
			clipper.CInt(math.Round(p.Y*clipperScale))))
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtMiter, clipper.EtClosedPolygon)
	solution := co.Execute(distance * clipperScale)
	if len(solution) == 0 {
		return c
	}

	// buffering outward can still split oddly-shaped input; keep the
	// largest ring
	best := solution[0]
	bestArea := math.Abs(clipper.Area(best))
	for _, p := range solution[1:] {
		if a := math.Abs(clipper.Area(p)); a > bestArea {
			best = p
			bestArea = a
		}
	}
	if len(best) == 0 {
		return c
	}

	out := make(Contour, 0, len(best)+1)
	for _, ip := range best {
		out = append(out, Point{float64(ip.X) / clipperScale, float64(ip.Y) / clipperScale})
	}
	return append(out, out[0])
}
