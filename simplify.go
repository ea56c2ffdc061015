package slabsurf

// Simplify reduces a polyline with the Douglas-Peucker algorithm: the point
// farthest from the chord between the segment ends is kept if it deviates
// by more than epsilon, otherwise the run collapses to its endpoints.
// Simplify(Simplify(p, e), e) == Simplify(p, e).
func Simplify(points []Point, epsilon float64) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	worst := 0
	worstDist := 0.0
	first := points[0]
	last := points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > worstDist {
			worst = i
			worstDist = d
		}
	}

	if worstDist <= epsilon {
		return []Point{first, last}
	}

	left := Simplify(points[:worst+1], epsilon)
	right := Simplify(points[worst:], epsilon)
	return append(left, right[1:]...)
}

// perpendicularDistance is the distance from p to segment ab. The
// projection parameter is clamped to [0,1]; beyond the segment ends the
// endpoint distance is used instead.
func perpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < geomEpsilon {
		return p.DistanceTo(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(Point{a.X + t*dx, a.Y + t*dy})
}
