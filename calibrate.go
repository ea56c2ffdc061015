package slabsurf

import (
	"errors"
	"fmt"
	"math"
)

var ErrDegenerateCalibration = errors.New("degenerate calibration")

// minMarkerDistancePx rejects marker pairs too close together to give a
// usable scale.
const minMarkerDistancePx = 10.0

type MarkerRole int

const (
	MarkerOrigin MarkerRole = iota
	MarkerXAxis
	MarkerScale
)

func (r MarkerRole) String() string {
	switch r {
	case MarkerOrigin:
		return "origin"
	case MarkerXAxis:
		return "x-axis"
	case MarkerScale:
		return "scale"
	}
	return "unknown"
}

// MarkerPoint is a detected fiducial in pixel coordinates.
type MarkerPoint struct {
	X    int
	Y    int
	Role MarkerRole
}

type CalibrationOptions struct {
	// UseRotation derives the machine X axis orientation from the markers.
	// When false the orientation is forced to 0 and only translation and
	// scale apply.
	UseRotation bool
}

func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{UseRotation: true}
}

// MachineCoordinateSystem maps pixel-image coordinates (y grows downward)
// to machine coordinates in mm (y grows upward). It is derived once per
// calibration and immutable thereafter.
type MachineCoordinateSystem struct {
	OriginPixel        Point
	OrientationRadians float64
	PixelToMmRatio     float64
}

// Calibrate derives a pixel-to-machine coordinate system from three markers
// with distinct roles and the two known real-world distances: origin to
// x-axis marker, and origin to scale marker.
//
// The mm-per-pixel ratio is the average of the X and Y ratios. This assumes
// a near-uniform scale in both axes and is a documented source of distortion
// when the capture is not perpendicular to the slab.
func Calibrate(markers []MarkerPoint, xDistanceMm, yDistanceMm float64, opts CalibrationOptions) (*MachineCoordinateSystem, error) {
	if len(markers) != 3 {
		return nil, fmt.Errorf("%w: need 3 markers, got %d", ErrDegenerateCalibration, len(markers))
	}
	var origin, xAxis, scale *MarkerPoint
	for i := range markers {
		m := &markers[i]
		switch m.Role {
		case MarkerOrigin:
			origin = m
		case MarkerXAxis:
			xAxis = m
		case MarkerScale:
			scale = m
		}
	}
	if origin == nil || xAxis == nil || scale == nil {
		return nil, fmt.Errorf("%w: marker roles must be distinct", ErrDegenerateCalibration)
	}
	if xDistanceMm <= 0 || yDistanceMm <= 0 {
		return nil, fmt.Errorf("%w: real-world distances must be positive", ErrDegenerateCalibration)
	}

	xdx := float64(xAxis.X - origin.X)
	xdy := float64(xAxis.Y - origin.Y)
	ydx := float64(scale.X - origin.X)
	ydy := float64(scale.Y - origin.Y)

	xDistPx := math.Hypot(xdx, xdy)
	yDistPx := math.Hypot(ydx, ydy)
	if xDistPx < minMarkerDistancePx || yDistPx < minMarkerDistancePx {
		return nil, fmt.Errorf("%w: markers too close (%.1f px, %.1f px)", ErrDegenerateCalibration, xDistPx, yDistPx)
	}

	// reject near-collinear marker triples: the scale marker must be well
	// off the origin/x-axis line
	cross := xdx*ydy - xdy*ydx
	if math.Abs(cross)/(xDistPx*yDistPx) < 0.05 {
		return nil, fmt.Errorf("%w: markers are collinear", ErrDegenerateCalibration)
	}

	orientation := 0.0
	if opts.UseRotation {
		orientation = math.Atan2(xdy, xdx)
	}

	ratio := (xDistanceMm/xDistPx + yDistanceMm/yDistPx) / 2

	return &MachineCoordinateSystem{
		OriginPixel:        Point{float64(origin.X), float64(origin.Y)},
		OrientationRadians: orientation,
		PixelToMmRatio:     ratio,
	}, nil
}

// PixelToMachine maps a pixel coordinate into machine space: translate to
// the origin marker, rotate into the machine frame (pixel y is negated so
// that machine y grows upward), then scale to mm.
func (m *MachineCoordinateSystem) PixelToMachine(p Point) Point {
	dx := p.X - m.OriginPixel.X
	dy := p.Y - m.OriginPixel.Y
	sin, cos := math.Sincos(m.OrientationRadians)
	return Point{
		X: (dx*cos + dy*sin) * m.PixelToMmRatio,
		Y: (dx*sin - dy*cos) * m.PixelToMmRatio,
	}
}

// MachineToPixel is the exact algebraic inverse of PixelToMachine.
func (m *MachineCoordinateSystem) MachineToPixel(p Point) Point {
	ux := p.X / m.PixelToMmRatio
	uy := p.Y / m.PixelToMmRatio
	sin, cos := math.Sincos(m.OrientationRadians)
	vx := ux*cos + uy*sin
	vy := -ux*sin + uy*cos
	return Point{
		X: m.OriginPixel.X + vx,
		Y: m.OriginPixel.Y - vy,
	}
}

// PixelContourToMachine maps every point of a pixel-space contour into
// machine space.
func (m *MachineCoordinateSystem) PixelContourToMachine(c Contour) Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = m.PixelToMachine(p)
	}
	return out
}
