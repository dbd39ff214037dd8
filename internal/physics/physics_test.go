package physics

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           float64
	}{
		{"same point", 1, 1, 1, 1, 0},
		{"3-4-5", 0, 0, 3, 4, 5},
		{"negative", -1, -1, 2, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.x1, tt.y1, tt.x2, tt.y2)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance(%v, %v, %v, %v) = %v, want %v", tt.x1, tt.y1, tt.x2, tt.y2, got, tt.want)
			}
			if sq := DistanceSquared(tt.x1, tt.y1, tt.x2, tt.y2); math.Abs(sq-tt.want*tt.want) > 1e-9 {
				t.Errorf("DistanceSquared = %v, want %v", sq, tt.want*tt.want)
			}
		})
	}
}

func TestCircles(t *testing.T) {
	if !PointInCircle(1, 0, 0, 0, 1) {
		t.Error("PointInCircle on the rim = false, want true")
	}
	if PointInCircle(1.01, 0, 0, 0, 1) {
		t.Error("PointInCircle outside = true, want false")
	}
	if CirclesOverlap(0, 0, 1, 2, 0, 1) {
		t.Error("CirclesOverlap touching = true, want false")
	}
	if !CirclesOverlap(0, 0, 1, 1.5, 0, 1) {
		t.Error("CirclesOverlap overlapping = false, want true")
	}
}

func TestSegmentCircleIntersects(t *testing.T) {
	tests := []struct {
		name                      string
		x1, y1, x2, y2, cx, cy, r float64
		want                      bool
	}{
		{"degenerate segment", 5, 5, 5, 5, 5, 5, 1, false},
		{"past the end on the line", 0, 0, 10, 0, 20, 0, 5, true},
		{"before the start on the line", 0, 0, 10, 0, -30, 0, 1, true},
		{"simple hit", 0, 0, 10, 0, 5, 1, 2, true},
		{"simple miss", 0, 0, 10, 0, 5, 5, 2, false},
		{"distance equals radius", 0, 0, 10, 0, 5, 2, 2, false},
		{"diagonal hit", 0, 0, 10, 10, 6, 4, 2, true},
		{"vertical miss", 3, 0, 3, 10, 0, 5, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentCircleIntersects(tt.x1, tt.y1, tt.x2, tt.y2, tt.cx, tt.cy, tt.r)
			if got != tt.want {
				t.Errorf("SegmentCircleIntersects(%v,%v,%v,%v, %v,%v, %v) = %v, want %v",
					tt.x1, tt.y1, tt.x2, tt.y2, tt.cx, tt.cy, tt.r, got, tt.want)
			}
		})
	}
}

func TestSegmentCircleIntersectsClamped(t *testing.T) {
	tests := []struct {
		name                      string
		x1, y1, x2, y2, cx, cy, r float64
		want                      bool
	}{
		{"degenerate segment", 5, 5, 5, 5, 5, 5, 1, false},
		{"past the end on the line", 0, 0, 10, 0, 20, 0, 5, false},
		{"overlapping the end", 0, 0, 10, 0, 12, 0, 3, true},
		{"simple hit", 0, 0, 10, 0, 5, 1, 2, true},
		{"simple miss", 0, 0, 10, 0, 5, 5, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentCircleIntersectsClamped(tt.x1, tt.y1, tt.x2, tt.y2, tt.cx, tt.cy, tt.r)
			if got != tt.want {
				t.Errorf("SegmentCircleIntersectsClamped(%v,%v,%v,%v, %v,%v, %v) = %v, want %v",
					tt.x1, tt.y1, tt.x2, tt.y2, tt.cx, tt.cy, tt.r, got, tt.want)
			}
		})
	}
}

func TestProjectionParameter(t *testing.T) {
	got, ok := ProjectionParameter(0, 0, 10, 0, 20, 0)
	if !ok || got != 2 {
		t.Errorf("ProjectionParameter = (%v, %v), want (2, true)", got, ok)
	}
	if _, ok := ProjectionParameter(1, 1, 1, 1, 0, 0); ok {
		t.Error("ProjectionParameter on zero-length segment reported ok")
	}
}
