package vacmap

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIdempotent(t *testing.T) {
	m, err := Parse(fullPayload())
	require.NoError(t, err)

	first, err := Render(m)
	require.NoError(t, err)
	second, err := Render(m)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderDimensionsAndOverlays(t *testing.T) {
	m, err := Parse(fullPayload())
	require.NoError(t, err)

	data, err := Render(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	// robot dot overwrites the floor at the flipped robot position
	robot := flipY(m.Grid, *m.Robot)
	r, g, b, _ := img.At(robot.X, robot.Y).RGBA()
	want := colorRobot()
	assert.Equal(t, uint32(want.R), r>>8)
	assert.Equal(t, uint32(want.G), g>>8)
	assert.Equal(t, uint32(want.B), b>>8)
}

func TestRenderWithoutOverlays(t *testing.T) {
	m, err := Parse(buildPayload(gridBlock(3, 3, []byte{
		CellWall, CellWall, CellWall,
		CellWall, CellFloor, CellWall,
		CellWall, CellWall, CellWall,
	})))
	require.NoError(t, err)

	data, err := Render(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// center floor pixel keeps the base layer color
	r, g, b, _ := img.At(1, 1).RGBA()
	want := colorFloor()
	assert.Equal(t, uint32(want.R), r>>8)
	assert.Equal(t, uint32(want.G), g>>8)
	assert.Equal(t, uint32(want.B), b>>8)
}

func TestRenderPathOnly(t *testing.T) {
	cells := make([]byte, 16)
	for i := range cells {
		cells[i] = CellFloor
	}
	m := &Map{
		Grid: Grid{Width: 4, Height: 4, Cells: cells},
		Path: []Point{{X: 0, Y: 0}, {X: 3, Y: 0}},
	}

	data, err := Render(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// the segment runs along the bottom row after the y-flip
	want := colorPath()
	for x := 0; x <= 3; x++ {
		r, g, b, _ := img.At(x, 3).RGBA()
		assert.Equal(t, uint32(want.R), r>>8, "x=%d", x)
		assert.Equal(t, uint32(want.G), g>>8, "x=%d", x)
		assert.Equal(t, uint32(want.B), b>>8, "x=%d", x)
	}
}

func TestRenderOutOfBoundsMarkersIgnored(t *testing.T) {
	cells := make([]byte, 4)
	m := &Map{
		Grid:    Grid{Width: 2, Height: 2, Cells: cells},
		Robot:   &Point{X: 50, Y: 50},
		Charger: &Point{X: -3, Y: -3},
	}

	_, err := Render(m)
	require.NoError(t, err)
}
