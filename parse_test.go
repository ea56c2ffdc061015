package slabsurf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModalTracking(t *testing.T) {
	program := `G21
G90
(setup comment)
G00 X1.0 Y2.0
G01 Z-0.5 F100
G01 X5.0 Y2.0 F400 ; trailing comment
G01 X5.0 Y6.0 (inline) F400
G00 Z5.0
G00 X9 Y9
G01 Xnope Y7.0
M5
`
	polylines := ParseProgram(program)
	require.Len(t, polylines, 2)

	traverse := polylines[0]
	require.Len(t, traverse, 3)
	assert.Equal(t, Point{1, 2}, traverse[0])
	assert.Equal(t, Point{9, 9}, traverse[1])
	// the malformed X word is treated as absent, Y still applies modally
	assert.Equal(t, Point{9, 7}, traverse[2])

	cut := polylines[1]
	require.Len(t, cut, 3)
	// the plunge seeds the polyline with the position the tool went down at
	assert.Equal(t, Point{1, 2}, cut[0])
	assert.Equal(t, Point{5, 2}, cut[1])
	assert.Equal(t, Point{5, 6}, cut[2])
}

func TestParseToleratesJunk(t *testing.T) {
	program := "\n\n; nothing here\nG2 X5 Y5 I1 J1\nT1 M6\n(only comments)\n"
	polylines := ParseProgram(program)
	require.Len(t, polylines, 1)
	assert.Empty(t, polylines[0])
}

func TestParseEmitRoundTrip(t *testing.T) {
	params := planParams()
	params.ReturnToHome = false

	tp, err := PlanToolpath(squareContour(), params)
	require.NoError(t, err)
	program := EmitProgram(tp, params, emitMeta())

	polylines := ParseProgram(program)
	require.Len(t, polylines, 2)
	assert.NotEmpty(t, polylines[0])

	var want []Point
	for _, pass := range tp.Passes {
		want = append(want, pass.Points...)
	}
	cut := polylines[1]
	require.Len(t, cut, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, cut[i].X, 1e-4, "point %d", i)
		assert.InDelta(t, want[i].Y, cut[i].Y, 1e-4, "point %d", i)
	}
}

func TestParseEmitRoundTripMultiDepth(t *testing.T) {
	params := planParams()
	params.CuttingDepthMm = 4
	params.DepthPasses = 2

	tp, err := PlanToolpath(squareContour(), params)
	require.NoError(t, err)
	program := EmitProgram(tp, params, emitMeta())

	polylines := ParseProgram(program)
	require.Len(t, polylines, 3)

	// both depth levels trace the same serpentine
	require.Equal(t, len(polylines[1]), len(polylines[2]))
	for i := range polylines[1] {
		assert.InDelta(t, polylines[1][i].X, polylines[2][i].X, 1e-4)
		assert.InDelta(t, polylines[1][i].Y, polylines[2][i].Y, 1e-4)
	}
}

func TestParseZeroPaddedCommands(t *testing.T) {
	padded := ParseProgram("G00 X1 Y1\nG01 Z-1 F50\nG01 X2 Y2 F100\n")
	plain := ParseProgram("G0 X1 Y1\nG1 Z-1 F50\nG1 X2 Y2 F100\n")
	assert.Equal(t, padded, plain)
}
