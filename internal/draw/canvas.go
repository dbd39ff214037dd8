package draw

import (
	"io"
	"math"
	"sort"
	"strings"
)

// Point represents a 2D coordinate in half-block pixels.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Ink identifies a registered pixel color. The zero Ink is an unset pixel.
type Ink uint8

// DefaultInk draws in the terminal's default foreground color.
const DefaultInk Ink = 1

// Canvas is a pixel buffer drawn with half-block characters, giving each
// terminal cell two vertically stacked pixels. One pixel is one unit of the
// coordinate space objects draw in.
type Canvas struct {
	cols   int   // Terminal columns, also the pixel width
	rows   int   // Terminal rows
	height int   // Pixel height, rows * 2
	pixels []Ink // Flat slice: [y * cols + x]

	ink     Ink            // Ink used by subsequent drawing calls
	palette []inkColor     // SGR sequences per Ink
	inks    map[string]Ink // hex color -> registered Ink

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas covering cols x rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{
		ink:     DefaultInk,
		palette: []inkColor{{}, {fg: sgrDefaultForeground, bg: sgrDefaultBackground}},
		inks:    make(map[string]Ink),
	}
	c.Resize(cols, rows)
	return c
}

// Resize changes the canvas to cols x rows cells, dropping its contents if
// the size changed.
func (c *Canvas) Resize(cols, rows int) {
	if c.pixels != nil && cols == c.cols && rows == c.rows {
		return
	}
	c.cols = max(cols, 0)
	c.rows = max(rows, 0)
	c.height = c.rows * 2
	c.pixels = make([]Ink, c.height*c.cols)
}

// Bounds returns the pixel size of the canvas.
func (c *Canvas) Bounds() (width, height float64) {
	return float64(c.cols), float64(c.height)
}

// Columns returns the terminal column count.
func (c *Canvas) Columns() int {
	return c.cols
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Ink returns the Ink registered for a hex color such as "#fdd700",
// registering it on first use. Unparseable colors fall back to DefaultInk.
func (c *Canvas) Ink(hex string) (Ink, error) {
	if ink, ok := c.inks[hex]; ok {
		return ink, nil
	}
	fg, err := ForegroundSGR(hex)
	if err != nil {
		return DefaultInk, err
	}
	bg, err := BackgroundSGR(hex)
	if err != nil {
		return DefaultInk, err
	}
	if len(c.palette) > math.MaxUint8 {
		return DefaultInk, nil
	}
	ink := Ink(len(c.palette))
	c.palette = append(c.palette, inkColor{fg: fg, bg: bg})
	c.inks[hex] = ink
	return ink, nil
}

// SetInk selects the ink for subsequent drawing calls.
func (c *Canvas) SetInk(ink Ink) {
	if ink == 0 {
		ink = DefaultInk
	}
	c.ink = ink
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.height {
		c.pixels[y*c.cols+x] = c.ink
	}
}

// Plot sets the pixel nearest to (x, y).
func (c *Canvas) Plot(x, y float64) {
	c.setPixel(int(math.Round(x)), int(math.Round(y)))
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Lines with a non-finite endpoint are skipped.
func (c *Canvas) DrawLine(p1, p2 Point) {
	if !finite(p1) || !finite(p2) {
		return
	}
	x1, y1 := int(math.Round(p1.X)), int(math.Round(p1.Y))
	x2, y2 := int(math.Round(p2.X)), int(math.Round(p2.Y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawCircle fills a circle as a regular polygon whose vertex count grows
// with the radius. A non-positive radius plots only the center.
func (c *Canvas) DrawCircle(center Point, radius float64) {
	if !(radius > 0) {
		c.Plot(center.X, center.Y)
		return
	}

	n := max(int(math.Ceil(math.Pi*radius)), 12)
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	points := c.polygonBuf[:n]
	for i := range points {
		angle := float64(i) * 2 * math.Pi / float64(n)
		points[i] = Point{
			X: center.X + math.Cos(angle)*radius,
			Y: center.Y + math.Sin(angle)*radius,
		}
	}

	c.fillPolygon(points)
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%n])
	}
}

// FillCircle implements Surface.
func (c *Canvas) FillCircle(x, y, radius float64, color string) error {
	ink, err := c.Ink(color)
	c.SetInk(ink)
	c.DrawCircle(Point{X: x, Y: y}, radius)
	return err
}

// Line implements Surface.
func (c *Canvas) Line(x1, y1, x2, y2 float64, color string) error {
	ink, err := c.Ink(color)
	c.SetInk(ink)
	c.DrawLine(Point{X: x1, Y: y1}, Point{X: x2, Y: y2})
	return err
}

// fillPolygon fills a polygon using a scanline sweep clipped to the canvas.
func (c *Canvas) fillPolygon(points []Point) {
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	if math.IsNaN(minY) || math.IsNaN(maxY) {
		return
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.height-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		xs := c.intersectionBuf[:0]
		n := len(points)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs

		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xStart := max(int(math.Ceil(xs[i])), 0)
			xEnd := min(int(math.Floor(xs[i+1])), c.cols-1)
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// Render writes the set pixels to w as half-block characters, each at its
// own cursor position. A cell whose halves carry different inks is drawn as
// an upper half block with the lower ink as background.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.cols * c.rows * 12)

	lastFg, lastBg := Ink(0), Ink(0)

	for row := 0; row < c.rows; row++ {
		top := c.pixels[row*2*c.cols : (row*2+1)*c.cols]
		bottom := c.pixels[(row*2+1)*c.cols : (row*2+2)*c.cols]

		for col := range top {
			ch, fg, bg, ok := cell(top[col], bottom[col])
			if !ok {
				continue
			}
			if fg != lastFg || bg != lastBg {
				c.renderBuf.WriteString(sgrReset)
				c.renderBuf.WriteString(c.palette[fg].fg)
				if bg != 0 {
					c.renderBuf.WriteString(c.palette[bg].bg)
				}
				lastFg, lastBg = fg, bg
			}
			writeCursor(&c.renderBuf, col+1, row+1)
			c.renderBuf.WriteRune(ch)
		}
	}
	if lastFg != 0 {
		c.renderBuf.WriteString(sgrReset)
	}

	return writeChunked(w, c.renderBuf.String())
}

// cell picks the block character and inks for a pair of stacked pixels.
func cell(top, bottom Ink) (ch rune, fg, bg Ink, ok bool) {
	switch {
	case top != 0 && top == bottom:
		return BlockFull, top, 0, true
	case top != 0 && bottom != 0:
		return BlockUpperHalf, top, bottom, true
	case top != 0:
		return BlockUpperHalf, top, 0, true
	case bottom != 0:
		return BlockLowerHalf, bottom, 0, true
	}
	return 0, 0, 0, false
}

// Ensure Canvas satisfies Surface.
var _ Surface = (*Canvas)(nil)

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
