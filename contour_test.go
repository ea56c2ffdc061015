package slabsurf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func squareContour() Contour {
	return Contour{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
}

func TestContourValidate(t *testing.T) {
	assert.NoError(t, squareContour().Validate())
	assert.ErrorIs(t, Contour{{0, 0}, {1, 1}}.Validate(), ErrInvalidContour)
	assert.ErrorIs(t, Contour{}.Validate(), ErrInvalidContour)
}

func TestContourClosed(t *testing.T) {
	closed := squareContour().Closed()
	assert.Len(t, closed, 5)
	assert.Equal(t, closed[0], closed[4])

	// closing an already-closed ring is a no-op
	assert.Len(t, closed.Closed(), 5)
}

func TestContourSignedArea(t *testing.T) {
	ccw := squareContour()
	assert.InDelta(t, 10000, ccw.SignedArea(), 1e-9)
	assert.True(t, ccw.IsCounterClockwise())

	cw := Contour{{0, 0}, {0, 100}, {100, 100}, {100, 0}}
	assert.InDelta(t, -10000, cw.SignedArea(), 1e-9)
	assert.False(t, cw.IsCounterClockwise())

	// closure duplicate does not change the area
	assert.InDelta(t, 10000, ccw.Closed().SignedArea(), 1e-9)
}

func TestContourNormalized(t *testing.T) {
	cw := Contour{{0, 0}, {0, 100}, {100, 100}, {100, 0}}
	norm := cw.Normalized()
	assert.True(t, norm.IsCounterClockwise())
	assert.Len(t, norm, 4)

	// already counter-clockwise input is preserved as-is
	assert.Equal(t, squareContour(), squareContour().Normalized())
}

func TestContourBoundingBox(t *testing.T) {
	min, max := Contour{{3, -2}, {-1, 7}, {5, 4}}.BoundingBox()
	assert.Equal(t, Point{-1, -2}, min)
	assert.Equal(t, Point{5, 7}, max)
}
