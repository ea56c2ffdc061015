package slabsurf

import (
	"strconv"
	"strings"
)

// Polyline is a flat 2D path reconstructed from a program, for
// visualization only.
type Polyline []Point

// ParseProgram reads a G-code program back into polylines. The result
// always has the traverse polyline (rapid positioning points) at index 0,
// followed by the cutting polylines in encounter order.
//
// Only the rapid and linear-feed families are recognised, in both
// zero-padded and plain forms (G0/G00, G1/G01); X, Y and Z words are
// tracked modally. A linear move taking Z to or below zero starts cutting,
// one above zero ends it, and a rapid interrupts it so repositioning moves
// never show up as cuts. Malformed numeric words are treated as absent:
// that can leave gaps, which is acceptable for visualization.
func ParseProgram(text string) []Polyline {
	traverse := Polyline{}
	var cuts []Polyline
	var cur Polyline
	var x, y, z float64
	cutting := false

	flush := func() {
		if len(cur) > 0 {
			cuts = append(cuts, cur)
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, depthPassMarker) {
			flush()
			continue
		}
		line = stripComments(line)
		fields := strings.Fields(strings.ToUpper(line))
		if len(fields) == 0 {
			continue
		}

		var rapid bool
		switch fields[0] {
		case "G0", "G00":
			rapid = true
		case "G1", "G01":
		default:
			continue // arcs, canned cycles, M-codes: not our problem
		}

		hasXY := false
		for _, word := range fields[1:] {
			if len(word) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(word[1:], 64)
			if err != nil {
				continue
			}
			switch word[0] {
			case 'X':
				x = v
				hasXY = true
			case 'Y':
				y = v
				hasXY = true
			case 'Z':
				z = v
			}
		}

		if rapid {
			flush()
			cutting = false
			if hasXY {
				traverse = append(traverse, Point{x, y})
			}
			continue
		}

		wasCutting := cutting
		cutting = z <= 0
		switch {
		case cutting && !wasCutting:
			// the plunge: seed the polyline with where the tool went down
			flush()
			cur = append(cur, Point{x, y})
		case cutting && hasXY:
			cur = append(cur, Point{x, y})
		case !cutting && hasXY:
			traverse = append(traverse, Point{x, y})
		}
	}
	flush()

	return append([]Polyline{traverse}, cuts...)
}

// stripComments removes parenthetical and semicolon comments from a line.
func stripComments(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			break
		}
		end := strings.IndexByte(line[open:], ')')
		if end < 0 {
			line = line[:open]
			break
		}
		line = line[:open] + line[open+end+1:]
	}
	return line
}
