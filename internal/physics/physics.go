// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// ProjectionParameter returns t such that (x1,y1) + t*((x2,y2)-(x1,y1)) is the
// point on the infinite line through the segment closest to (cx,cy).
// ok is false for a zero-length segment.
func ProjectionParameter(x1, y1, x2, y2, cx, cy float64) (t float64, ok bool) {
	lenSq := DistanceSquared(x1, y1, x2, y2)
	if lenSq == 0 {
		return 0, false
	}
	return ((cx-x1)*(x2-x1) + (cy-y1)*(y2-y1)) / lenSq, true
}

// SegmentCircleIntersects reports whether the circle at (cx,cy) with radius r
// lies strictly closer than r to the line through (x1,y1)-(x2,y2).
//
// The projection parameter is not clamped, so the closest point is taken on
// the infinite line: a circle sitting on the line's extension past either
// endpoint still counts as a hit. Use SegmentCircleIntersectsClamped for
// true segment semantics. A zero-length segment never intersects.
func SegmentCircleIntersects(x1, y1, x2, y2, cx, cy, r float64) bool {
	t, ok := ProjectionParameter(x1, y1, x2, y2, cx, cy)
	if !ok {
		return false
	}
	px := x1 + t*(x2-x1)
	py := y1 + t*(y2-y1)
	return Distance(px, py, cx, cy) < r
}

// SegmentCircleIntersectsClamped is SegmentCircleIntersects restricted to the
// segment itself: the closest point never leaves [(x1,y1), (x2,y2)].
func SegmentCircleIntersectsClamped(x1, y1, x2, y2, cx, cy, r float64) bool {
	t, ok := ProjectionParameter(x1, y1, x2, y2, cx, cy)
	if !ok {
		return false
	}
	t = math.Max(0, math.Min(1, t))
	px := x1 + t*(x2-x1)
	py := y1 + t*(y2-y1)
	return Distance(px, py, cx, cy) < r
}
