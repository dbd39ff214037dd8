package object

import "github.com/tomz197/bounce/internal/physics"

// Segment colors.
const (
	DefaultSegmentColor = "#9aa0a6"
	DefaultSegmentHit   = "#ff4d4d"
)

// Segment is a static line across the stage that lights up while any circle
// touches it. Endpoints are fractions of the bounds so the segment follows
// resizes.
type Segment struct {
	FX1, FY1 float64 // Start, as fractions of width/height
	FX2, FY2 float64 // End, as fractions of width/height

	Color    string
	HitColor string

	// Clamped limits hits to the segment itself instead of the whole line
	// through it.
	Clamped bool

	Hit bool // At least one circle touched the segment during the last update

	bounds Bounds
}

// NewSegment creates a segment from fractional endpoints.
func NewSegment(fx1, fy1, fx2, fy2 float64) *Segment {
	return &Segment{
		FX1:      fx1,
		FY1:      fy1,
		FX2:      fx2,
		FY2:      fy2,
		Color:    DefaultSegmentColor,
		HitColor: DefaultSegmentHit,
	}
}

// Endpoints returns the segment's endpoints within bounds.
func (s *Segment) Endpoints(bounds Bounds) (x1, y1, x2, y2 float64) {
	return s.FX1 * bounds.Width, s.FY1 * bounds.Height, s.FX2 * bounds.Width, s.FY2 * bounds.Height
}

// Touches reports whether circle c intersects the segment within bounds.
func (s *Segment) Touches(bounds Bounds, c Circle) bool {
	x1, y1, x2, y2 := s.Endpoints(bounds)
	cx, cy := c.GetPosition()
	if s.Clamped {
		return physics.SegmentCircleIntersectsClamped(x1, y1, x2, y2, cx, cy, c.GetRadius())
	}
	return physics.SegmentCircleIntersects(x1, y1, x2, y2, cx, cy, c.GetRadius())
}

// Update recomputes Hit against every circle on the stage.
func (s *Segment) Update(ctx UpdateContext) (bool, error) {
	s.bounds = ctx.Bounds
	s.Hit = false
	for _, obj := range ctx.Objects {
		c, ok := obj.(Circle)
		if !ok {
			continue
		}
		if s.Touches(ctx.Bounds, c) {
			s.Hit = true
			break
		}
	}
	return false, nil
}

// Draw renders the segment, in HitColor while touched.
func (s *Segment) Draw(ctx DrawContext) error {
	bounds := ctx.Bounds
	if bounds == (Bounds{}) {
		bounds = s.bounds
	}
	x1, y1, x2, y2 := s.Endpoints(bounds)
	color := s.Color
	if s.Hit {
		color = s.HitColor
	}
	return ctx.Surface.Line(x1, y1, x2, y2, color)
}
