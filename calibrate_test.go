package slabsurf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleMarkers() []MarkerPoint {
	return []MarkerPoint{
		{X: 100, Y: 500, Role: MarkerOrigin},
		{X: 500, Y: 500, Role: MarkerXAxis},
		{X: 100, Y: 100, Role: MarkerScale},
	}
}

func TestCalibrateAxisAligned(t *testing.T) {
	mcs, err := Calibrate(exampleMarkers(), 400, 400, DefaultCalibrationOptions())
	require.NoError(t, err)

	assert.InDelta(t, 0, mcs.OrientationRadians, 1e-12)
	assert.InDelta(t, 1.0, mcs.PixelToMmRatio, 1e-12)

	origin := mcs.PixelToMachine(Point{100, 500})
	assert.InDelta(t, 0, origin.X, 1e-9)
	assert.InDelta(t, 0, origin.Y, 1e-9)

	// x-axis marker lands on the machine X axis
	xm := mcs.PixelToMachine(Point{500, 500})
	assert.InDelta(t, 400, xm.X, 1e-9)
	assert.InDelta(t, 0, xm.Y, 1e-9)

	// scale marker is above the origin: pixel y down, machine y up
	ym := mcs.PixelToMachine(Point{100, 100})
	assert.InDelta(t, 0, ym.X, 1e-9)
	assert.InDelta(t, 400, ym.Y, 1e-9)
}

func TestCalibrateRoundTrip(t *testing.T) {
	markers := []MarkerPoint{
		{X: 200, Y: 300, Role: MarkerOrigin},
		{X: 520, Y: 420, Role: MarkerXAxis},
		{X: 140, Y: 120, Role: MarkerScale},
	}
	mcs, err := Calibrate(markers, 250, 180, DefaultCalibrationOptions())
	require.NoError(t, err)

	points := []Point{{0, 0}, {123.4, -56.7}, {-300, 250}, {1024, 768}}
	for _, p := range points {
		back := mcs.MachineToPixel(mcs.PixelToMachine(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)

		fwd := mcs.PixelToMachine(mcs.MachineToPixel(p))
		assert.InDelta(t, p.X, fwd.X, 1e-9)
		assert.InDelta(t, p.Y, fwd.Y, 1e-9)
	}
}

func TestCalibrateWithoutRotation(t *testing.T) {
	markers := []MarkerPoint{
		{X: 200, Y: 300, Role: MarkerOrigin},
		{X: 520, Y: 420, Role: MarkerXAxis},
		{X: 140, Y: 120, Role: MarkerScale},
	}
	opts := DefaultCalibrationOptions()
	opts.UseRotation = false

	mcs, err := Calibrate(markers, 250, 180, opts)
	require.NoError(t, err)
	assert.Zero(t, mcs.OrientationRadians)

	// translation and scale still apply
	m := mcs.PixelToMachine(Point{200, 300})
	assert.InDelta(t, 0, m.X, 1e-9)
	assert.InDelta(t, 0, m.Y, 1e-9)
}

func TestCalibrateDegenerate(t *testing.T) {
	// markers too close
	_, err := Calibrate([]MarkerPoint{
		{X: 100, Y: 100, Role: MarkerOrigin},
		{X: 105, Y: 100, Role: MarkerXAxis},
		{X: 100, Y: 400, Role: MarkerScale},
	}, 400, 400, DefaultCalibrationOptions())
	assert.ErrorIs(t, err, ErrDegenerateCalibration)

	// collinear markers
	_, err = Calibrate([]MarkerPoint{
		{X: 0, Y: 0, Role: MarkerOrigin},
		{X: 100, Y: 0, Role: MarkerXAxis},
		{X: 200, Y: 0, Role: MarkerScale},
	}, 400, 400, DefaultCalibrationOptions())
	assert.ErrorIs(t, err, ErrDegenerateCalibration)

	// duplicate roles
	_, err = Calibrate([]MarkerPoint{
		{X: 0, Y: 0, Role: MarkerOrigin},
		{X: 100, Y: 0, Role: MarkerOrigin},
		{X: 0, Y: 100, Role: MarkerScale},
	}, 400, 400, DefaultCalibrationOptions())
	assert.ErrorIs(t, err, ErrDegenerateCalibration)

	// wrong marker count
	_, err = Calibrate(exampleMarkers()[:2], 400, 400, DefaultCalibrationOptions())
	assert.ErrorIs(t, err, ErrDegenerateCalibration)

	// non-positive real distance
	_, err = Calibrate(exampleMarkers(), 0, 400, DefaultCalibrationOptions())
	assert.ErrorIs(t, err, ErrDegenerateCalibration)
}
