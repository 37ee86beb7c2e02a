package vacmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
)

// Render composites a map into an encoded PNG: grid base layer, then
// charger marker, cleaning path, robot marker. Each stage only adds
// pixels, so rendering the same Map is byte-identical every time.
func Render(m *Map) ([]byte, error) {
	img, err := baseLayer(m.Grid)
	if err != nil {
		return nil, err
	}
	if m.Charger != nil {
		drawDot(img, m.Grid, *m.Charger, colorCharger())
	}
	drawPath(img, m.Grid, m.Path)
	if m.Robot != nil {
		drawDot(img, m.Grid, *m.Robot, colorRobot())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode map png: %w", err)
	}
	return buf.Bytes(), nil
}

func baseLayer(grid Grid) (*image.RGBA, error) {
	if grid.Width == 0 || grid.Height == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrDecode)
	}
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for gy := 0; gy < grid.Height; gy++ {
		offset := grid.Width * gy
		for gx := 0; gx < grid.Width; gx++ {
			cell := grid.Cells[gx+offset]
			var c color.RGBA
			switch {
			case cell == CellOutside:
				c = colorOutside()
			case cell == CellWall:
				c = colorWall()
			case cell == CellFloor:
				c = colorFloor()
			default:
				if room, ok := RoomIndex(cell); ok {
					c = colorRoom(room)
				} else {
					c = colorUnknown()
				}
			}
			img.SetRGBA(gx, grid.Height-gy-1, c)
		}
	}
	return img, nil
}

// drawPath connects consecutive path points with line segments in
// insertion order.
func drawPath(img *image.RGBA, grid Grid, path []Point) {
	for i := 1; i < len(path); i++ {
		a := flipY(grid, path[i-1])
		b := flipY(grid, path[i])
		drawLine(img, a, b, colorPath())
	}
}

// flipY converts grid coordinates (origin bottom-left) to image
// coordinates (origin top-left).
func flipY(grid Grid, p Point) Point {
	return Point{X: p.X, Y: grid.Height - p.Y - 1}
}

func drawDot(img *image.RGBA, grid Grid, p Point, c color.RGBA) {
	pt := flipY(grid, p)
	if pt.X < 0 || pt.Y < 0 || pt.X >= img.Bounds().Dx() || pt.Y >= img.Bounds().Dy() {
		return
	}
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			xx := pt.X + dx
			yy := pt.Y + dy
			if xx < 0 || yy < 0 || xx >= img.Bounds().Dx() || yy >= img.Bounds().Dy() {
				continue
			}
			if dx*dx+dy*dy <= 4 {
				img.SetRGBA(xx, yy, c)
			}
		}
	}
}

// drawLine is a Bresenham segment clipped to the image bounds.
func drawLine(img *image.RGBA, a, b Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		if x >= 0 && y >= 0 && x < img.Bounds().Dx() && y < img.Bounds().Dy() {
			img.SetRGBA(x, y, c)
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func colorOutside() color.RGBA { return color.RGBA{0, 0, 0, 0} }
func colorWall() color.RGBA    { return color.RGBA{40, 40, 40, 255} }
func colorFloor() color.RGBA   { return color.RGBA{230, 230, 230, 255} }
func colorUnknown() color.RGBA { return color.RGBA{180, 80, 180, 255} }
func colorPath() color.RGBA    { return color.RGBA{70, 110, 240, 255} }
func colorCharger() color.RGBA { return color.RGBA{70, 200, 90, 255} }
func colorRobot() color.RGBA   { return color.RGBA{240, 70, 70, 255} }

func colorRoom(room int) color.RGBA {
	h := float64((room * 47) % 360)
	s := 0.45
	v := 0.9
	r, g, b := hsvToRGB(h, s, v)
	return color.RGBA{r, g, b, 255}
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
