package slabsurf

import (
	"fmt"
	"strings"
	"time"
)

// ProgramMetadata labels the emitted program header. The timestamp is the
// only part of the output that varies between identical invocations.
type ProgramMetadata struct {
	Filename  string
	Timestamp time.Time
}

// depthPassMarker prefixes the comment that opens each depth level. The
// parser relies on it to split cutting polylines when round-tripping a
// program for visualization.
const depthPassMarker = "(Depth pass "

// EmitProgram serializes the toolpath into a G-code program: header, one
// plunge-and-cut block per depth level, footer. Coordinates are emitted
// with 4 decimals and feed rates with 1, so identical inputs produce
// byte-identical programs apart from the timestamp comment.
func EmitProgram(tp *Toolpath, params MachiningParameters, meta ProgramMetadata) string {
	g := strings.Builder{}

	name := meta.Filename
	if name == "" {
		name = "untitled"
	}
	depthPasses := params.DepthPasses
	if depthPasses < 1 {
		depthPasses = 1
	}

	fmt.Fprintf(&g, "(slabsurf - %s)\n", name)
	if !meta.Timestamp.IsZero() {
		fmt.Fprintf(&g, "(Generated: %s)\n", meta.Timestamp.Format(time.RFC3339))
	}
	fmt.Fprintf(&g, "(Tool diameter: %.4f mm, stepover: %.4f mm)\n", params.ToolDiameterMm, params.EffectiveStepover())
	fmt.Fprintf(&g, "(Depth: %.4f mm in %d passes)\n", params.DepthPerPass()*float64(depthPasses), depthPasses)
	fmt.Fprintf(&g, "(Feed: %.1f mm/min, plunge: %.1f mm/min)\n", params.FeedRateMmPerMin, params.PlungeRateMmPerMin)
	fmt.Fprintf(&g, "(Direction: %s)\n", params.PathDirection)
	g.WriteString("G21\n") // mm
	g.WriteString("G90\n") // absolute coordinates
	g.WriteString("G54\n") // work coordinate system
	fmt.Fprintf(&g, "M3 S%.1f\n", params.SpindleSpeedRpm)
	fmt.Fprintf(&g, "G0 Z%.4f\n", params.SafetyHeightMm)

	if tp == nil || tp.IsEmpty() {
		g.WriteString("(No passes: toolpath is empty)\n")
	} else {
		emitPasses(&g, tp, params, depthPasses)
	}

	fmt.Fprintf(&g, "G0 Z%.4f\n", params.SafetyHeightMm)
	if params.ReturnToHome {
		g.WriteString("G0 X0.0000 Y0.0000\n")
	}
	g.WriteString("M5\n")
	g.WriteString("M2\n")

	return g.String()
}

func emitPasses(g *strings.Builder, tp *Toolpath, params MachiningParameters, depthPasses int) {
	depthPer := params.DepthPerPass()
	step := params.EffectiveStepover()

	var last Point
	atDepth := false

	for k := 1; k <= depthPasses; k++ {
		z := -depthPer * float64(k)
		fmt.Fprintf(g, "%s%d/%d: Z%.4f)\n", depthPassMarker, k, depthPasses, z)

		for _, pass := range tp.Passes {
			for j := 0; j+1 < len(pass.Points); j += 2 {
				from := pass.Points[j]
				to := pass.Points[j+1]

				switch {
				case atDepth && last.Equals(from):
					// contiguous with the previous span, keep cutting
				case atDepth && params.BridgeGaps && last.DistanceTo(from) <= step*1.5:
					// adjacent zigzag pass: link with a feed move instead
					// of retracting
					fmt.Fprintf(g, "G1 X%.4f Y%.4f F%.1f\n", from.X, from.Y, params.FeedRateMmPerMin)
				default:
					if atDepth {
						fmt.Fprintf(g, "G0 Z%.4f\n", params.SafetyHeightMm)
					}
					fmt.Fprintf(g, "G0 X%.4f Y%.4f\n", from.X, from.Y)
					g.WriteString("G0 Z0.0000\n")
					fmt.Fprintf(g, "G1 Z%.4f F%.1f\n", z, params.PlungeRateMmPerMin)
				}

				fmt.Fprintf(g, "G1 X%.4f Y%.4f F%.1f\n", to.X, to.Y, params.FeedRateMmPerMin)
				last = to
				atDepth = true
			}
		}

		// retract between depth levels; the footer handles the last one
		if k < depthPasses {
			fmt.Fprintf(g, "G0 Z%.4f\n", params.SafetyHeightMm)
			atDepth = false
		}
	}
}
