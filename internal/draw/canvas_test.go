package draw

import (
	"bytes"
	"strings"
	"testing"
)

func (c *Canvas) pixel(x, y int) Ink {
	return c.pixels[y*c.cols+x]
}

func TestCanvas_DrawCircleFilled(t *testing.T) {
	c := NewCanvas(40, 20) // 40x40 half-block pixels
	c.DrawCircle(Point{X: 20, Y: 20}, 8)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"center", 20, 20, true},
		{"inside", 24, 17, true},
		{"rim", 28, 20, true},
		{"outside right", 30, 20, false},
		{"corner", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.pixel(tt.x, tt.y) != 0
			if got != tt.want {
				t.Errorf("pixel(%d, %d) set = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCanvas_DrawCircleOffscreen(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(Point{X: -50, Y: -50}, 5)
	c.DrawCircle(Point{X: 5, Y: 5}, 0)
	for i, p := range c.pixels {
		if p != 0 && i != 5*10+5 {
			t.Fatalf("unexpected pixel %d set", i)
		}
	}
}

func TestCanvas_FillCircleInk(t *testing.T) {
	c := NewCanvas(20, 10)
	if err := c.FillCircle(10, 10, 3, "#fdd700"); err != nil {
		t.Fatalf("FillCircle: %v", err)
	}
	ink, _ := c.Ink("#fdd700")
	if ink == DefaultInk || ink == 0 {
		t.Fatalf("Ink(#fdd700) = %d, want a registered ink", ink)
	}
	if got := c.pixel(10, 10); got != ink {
		t.Errorf("center ink = %d, want %d", got, ink)
	}

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\033[38;2;253;215;0m") {
		t.Errorf("Render output missing truecolor foreground: %q", out)
	}
	if !strings.ContainsRune(out, BlockFull) {
		t.Errorf("Render output missing full block")
	}
	if !strings.HasSuffix(out, sgrReset) {
		t.Errorf("Render output does not reset attributes")
	}
}

func TestCanvas_InvalidInk(t *testing.T) {
	c := NewCanvas(4, 2)
	ink, err := c.Ink("yellow")
	if err == nil {
		t.Fatal("Ink(yellow) error = nil, want parse error")
	}
	if ink != DefaultInk {
		t.Errorf("Ink(yellow) = %d, want DefaultInk", ink)
	}
}

func TestCanvas_RenderHalfBlocks(t *testing.T) {
	c := NewCanvas(3, 1)
	c.setPixel(0, 0) // top only
	c.setPixel(1, 1) // bottom only
	c.setPixel(2, 0)
	c.setPixel(2, 1)

	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"\033[1;1H▀", "\033[1;2H▄", "\033[1;3H█"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render output missing %q in %q", want, out)
		}
	}
}

func TestCanvas_Resize(t *testing.T) {
	c := NewCanvas(10, 5)
	c.setPixel(1, 1)
	c.Resize(10, 5)
	if c.pixel(1, 1) == 0 {
		t.Error("Resize to the same size dropped the contents")
	}

	c.Resize(30, 12)
	if w, h := c.Bounds(); w != 30 || h != 24 {
		t.Errorf("Bounds() = (%v, %v), want (30, 24)", w, h)
	}
	if c.Columns() != 30 || len(c.pixels) != 30*24 {
		t.Errorf("Columns() = %d with %d pixels, want 30 with %d", c.Columns(), len(c.pixels), 30*24)
	}

	c.Resize(-3, 2)
	if w, h := c.Bounds(); w != 0 || h != 4 {
		t.Errorf("Bounds() after negative width = (%v, %v), want (0, 4)", w, h)
	}
}

func TestChunkWriter_Flush(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf)
	HideCursor(cw)
	cw.WriteAt(3, 2, "hi")
	if buf.Len() != 0 {
		t.Fatal("ChunkWriter wrote before Flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got, want := buf.String(), "\033[?25l\033[2;3Hhi"; got != want {
		t.Errorf("Flush wrote %q, want %q", got, want)
	}
}

type recordingWriter struct{ writes []int }

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return len(p), nil
}

func TestWriteChunked(t *testing.T) {
	w := &recordingWriter{}
	if err := writeChunked(w, strings.Repeat("x", 2*maxChunkSize+10)); err != nil {
		t.Fatalf("writeChunked: %v", err)
	}
	want := []int{maxChunkSize, maxChunkSize, 10}
	if len(w.writes) != len(want) {
		t.Fatalf("writes = %v, want %v", w.writes, want)
	}
	for i := range want {
		if w.writes[i] != want[i] {
			t.Errorf("write %d = %d bytes, want %d", i, w.writes[i], want[i])
		}
	}
}
