package slabsurf

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrEmptyToolpath = errors.New("empty toolpath")

// crossingMergeDistance merges sweep crossings that land on (or nearly on)
// the same point, which happens when a sweep line passes through a vertex
// shared by two non-parallel edges.
const crossingMergeDistance = 1e-7

// PlanToolpath computes a zigzag toolpath of parallel passes over a closed
// machine-space contour. The contour is taken as final: any margin must
// already have been applied by BufferPolygon, so it is never added twice.
//
// With BridgeGaps set, each pass is one straight cut from the first to the
// last crossing, trading strict containment for fewer retracts on concave
// contours. With it unset, crossings pair up into separate in-material
// spans and the gaps between them are skipped.
func PlanToolpath(c Contour, params MachiningParameters) (*Toolpath, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	step := params.EffectiveStepover()
	if step <= 0 {
		return nil, fmt.Errorf("stepover must be positive (stepover=%g, tool diameter=%g)",
			params.StepoverMm, params.ToolDiameterMm)
	}

	min, max := c.BoundingBox()
	width := max.X - min.X
	height := max.Y - min.Y

	dir := params.PathDirection
	if dir == Auto {
		if width >= height {
			dir = Horizontal
		} else {
			dir = Vertical
		}
	}

	span := height
	limit := max.Y
	base := min.Y
	if dir == Vertical {
		span = width
		limit = max.X
		base = min.X
	}

	ring := c.Closed()
	numPasses := int(math.Ceil(span/step)) + 1

	tp := NewToolpath()
	for i := 0; i < numPasses; i++ {
		at := base + float64(i)*step
		if at > limit+geomEpsilon {
			continue
		}

		crossings := sweepCrossings(ring, dir, at, min, max)
		if len(crossings) < 2 {
			continue
		}
		sort.Float64s(crossings)
		crossings = mergeClose(crossings)
		if len(crossings) < 2 {
			continue
		}

		pass := ToolpathPass{}
		appendSpan := func(from, to float64) {
			if dir == Horizontal {
				pass.Append(Point{from, at})
				pass.Append(Point{to, at})
			} else {
				pass.Append(Point{at, from})
				pass.Append(Point{at, to})
			}
		}

		if params.BridgeGaps {
			appendSpan(crossings[0], crossings[len(crossings)-1])
		} else {
			for j := 0; j+1 < len(crossings); j += 2 {
				appendSpan(crossings[j], crossings[j+1])
			}
		}

		if len(tp.Passes)%2 == 1 {
			pass = pass.Reversed()
		}
		tp.Append(pass)
	}

	if len(tp.Passes) == 0 {
		return nil, fmt.Errorf("%w: no sweep line crossed the contour", ErrEmptyToolpath)
	}
	return &tp, nil
}

// sweepCrossings intersects the sweep line at the given coordinate with
// every edge of the closed ring and returns the varying coordinate of each
// crossing.
func sweepCrossings(ring Contour, dir Direction, at float64, min, max Point) []float64 {
	var a1, a2 Point
	if dir == Horizontal {
		a1 = Point{min.X - 1, at}
		a2 = Point{max.X + 1, at}
	} else {
		a1 = Point{at, min.Y - 1}
		a2 = Point{at, max.Y + 1}
	}

	var out []float64
	for k := 0; k+1 < len(ring); k++ {
		p, ok := intersectSegments(a1, a2, ring[k], ring[k+1])
		if !ok {
			continue
		}
		if dir == Horizontal {
			out = append(out, p.X)
		} else {
			out = append(out, p.Y)
		}
	}
	return out
}

// intersectSegments intersects segments a1-a2 and b1-b2 parametrically.
// Parallel segments (near-zero denominator) yield no intersection; both
// parameters must land in [0,1].
func intersectSegments(a1, a2, b1, b2 Point) (Point, bool) {
	den := (b2.Y-b1.Y)*(a2.X-a1.X) - (b2.X-b1.X)*(a2.Y-a1.Y)
	if math.Abs(den) < geomEpsilon {
		return Point{}, false
	}
	ua := ((b2.X-b1.X)*(a1.Y-b1.Y) - (b2.Y-b1.Y)*(a1.X-b1.X)) / den
	ub := ((a2.X-a1.X)*(a1.Y-b1.Y) - (a2.Y-a1.Y)*(a1.X-b1.X)) / den
	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return Point{}, false
	}
	return Point{a1.X + ua*(a2.X-a1.X), a1.Y + ua*(a2.Y-a1.Y)}, true
}

// mergeClose collapses sorted crossings closer together than the merge
// distance into one.
func mergeClose(sorted []float64) []float64 {
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v-out[len(out)-1] > crossingMergeDistance {
			out = append(out, v)
		}
	}
	return out
}

// GenerateProgram runs the full pipeline on a machine-space contour:
// buffer by the configured margin, plan the passes, emit the program.
func GenerateProgram(c Contour, params MachiningParameters, meta ProgramMetadata) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	buffered := BufferPolygon(c, params.MarginMm)
	tp, err := PlanToolpath(buffered, params)
	if err != nil {
		return "", err
	}
	return EmitProgram(tp, params, meta), nil
}
