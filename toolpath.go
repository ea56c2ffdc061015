package slabsurf

// ToolpathPass is one sweep of the tool. Points pair up into cut spans:
// points 0-1 are the first span, 2-3 the next, and so on. With gap
// bridging a pass holds exactly one two-point span; with bridging off a
// concave contour can produce several, and the emitter repositions across
// the gaps between them.
type ToolpathPass struct {
	Points []Point
}

func (p *ToolpathPass) Append(pt Point) {
	p.Points = append(p.Points, pt)
}

// Reversed returns the pass with its points in the opposite order, used to
// alternate sweep direction for zigzag cutting.
func (p *ToolpathPass) Reversed() ToolpathPass {
	out := ToolpathPass{Points: make([]Point, len(p.Points))}
	for i := range p.Points {
		out.Points[i] = p.Points[len(p.Points)-1-i]
	}
	return out
}

// Toolpath is the ordered set of passes for one surfacing operation. It is
// transient: it exists between planning and emission and is not persisted.
type Toolpath struct {
	Passes []ToolpathPass
}

func NewToolpath() Toolpath {
	return Toolpath{Passes: []ToolpathPass{}}
}

func (tp *Toolpath) Append(pass ToolpathPass) {
	tp.Passes = append(tp.Passes, pass)
}

func (tp *Toolpath) IsEmpty() bool {
	for _, pass := range tp.Passes {
		if len(pass.Points) > 0 {
			return false
		}
	}
	return true
}
