package draw

import (
	"image"
	"io"

	"github.com/gogpu/gg"
)

// Raster is an anti-aliased pixel surface backed by a gg drawing context.
// It is used for headless frame export.
type Raster struct {
	dc         *gg.Context
	background gg.RGBA
	lineWidth  float64
}

// NewRaster creates a raster of the given pixel size filled with background.
func NewRaster(width, height int, background string) *Raster {
	r := &Raster{
		dc:         gg.NewContext(width, height),
		background: gg.Hex(background),
		lineWidth:  2,
	}
	r.Clear()
	return r
}

// SetLineWidth sets the stroke width used by Line.
func (r *Raster) SetLineWidth(width float64) {
	r.lineWidth = width
}

// Clear fills the whole raster with the background color.
func (r *Raster) Clear() {
	r.dc.ClearWithColor(r.background)
}

// FillCircle implements Surface.
func (r *Raster) FillCircle(x, y, radius float64, color string) error {
	r.dc.SetHexColor(color)
	r.dc.DrawCircle(x, y, radius)
	return r.dc.Fill()
}

// Line implements Surface.
func (r *Raster) Line(x1, y1, x2, y2 float64, color string) error {
	r.dc.SetHexColor(color)
	r.dc.SetLineWidth(r.lineWidth)
	r.dc.DrawLine(x1, y1, x2, y2)
	return r.dc.Stroke()
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int {
	return r.dc.Width()
}

// Height returns the raster height in pixels.
func (r *Raster) Height() int {
	return r.dc.Height()
}

// Image returns the current raster contents.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// SavePNG writes the raster as a PNG file.
func (r *Raster) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

// Close releases the drawing context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

// Ensure Raster satisfies Surface.
var _ Surface = (*Raster)(nil)
