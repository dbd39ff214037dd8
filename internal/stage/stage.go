// Package stage holds the objects of one viewport and advances them once per tick.
package stage

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomz197/bounce/internal/object"
)

// Stage owns the objects confined to one bounds rectangle.
// A Stage is not safe for concurrent use; a single frame driver owns it.
type Stage struct {
	Objects []object.Object
	Bounds  object.Bounds
	Ticks   uint64
}

// BallState is the render-facing geometry of a ball.
type BallState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Color  string  `json:"color"`
}

// SegmentState is the render-facing geometry of a segment.
type SegmentState struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
	Hit   bool    `json:"hit"`
}

// Snapshot is an immutable copy of the stage geometry for rendering outside
// the owning goroutine.
type Snapshot struct {
	Tick     uint64         `json:"tick"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Balls    []BallState    `json:"balls"`
	Segments []SegmentState `json:"segments"`
}

// BallSpec describes the balls Populate creates.
type BallSpec struct {
	Count     int
	Radius    float64
	Speed     float64
	Color     string
	Policy    object.BouncePolicy
	Placement object.Placement
}

// New creates an empty stage with the given bounds.
func New(bounds object.Bounds) *Stage {
	return &Stage{
		Objects: []object.Object{},
		Bounds:  bounds,
	}
}

// AddObject adds an object to the stage.
func (s *Stage) AddObject(obj object.Object) {
	s.Objects = append(s.Objects, obj)
}

// RemoveObject removes target from the stage. Returns false if it was not present.
func (s *Stage) RemoveObject(target object.Object) bool {
	kept := s.Objects[:0]
	found := false
	for _, obj := range s.Objects {
		if obj == target {
			found = true
			continue
		}
		kept = append(kept, obj)
	}
	clear(s.Objects[len(kept):])
	s.Objects = kept
	return found
}

// NewBall creates a ball for the current bounds.
func (s *Stage) NewBall(spec BallSpec, rng *rand.Rand) (*object.Ball, error) {
	color := spec.Color
	if color == "" {
		color = object.DefaultBallColor
	}
	return object.NewBall(s.Bounds, spec.Radius, spec.Speed,
		object.WithRand(rng),
		object.WithColor(color),
		object.WithPolicy(spec.Policy),
		object.WithPlacement(spec.Placement),
	)
}

// AddBall creates a ball and adds it to the stage.
func (s *Stage) AddBall(spec BallSpec, rng *rand.Rand) (*object.Ball, error) {
	b, err := s.NewBall(spec, rng)
	if err != nil {
		return nil, err
	}
	s.AddObject(b)
	return b, nil
}

// RemoveBall removes the most recently added ball. Returns false if there is none.
func (s *Stage) RemoveBall() bool {
	for i := len(s.Objects) - 1; i >= 0; i-- {
		if b, ok := s.Objects[i].(*object.Ball); ok {
			return s.RemoveObject(b)
		}
	}
	return false
}

// Populate adds spec.Count balls and, if withSegment is set, a diagonal
// segment. The segment goes last so its hit test sees this tick's positions.
func (s *Stage) Populate(spec BallSpec, withSegment bool, rng *rand.Rand) error {
	if spec.Count < 0 {
		return fmt.Errorf("ball count must not be negative, got %d: %w", spec.Count, object.ErrInvalidArgument)
	}
	for i := 0; i < spec.Count; i++ {
		if _, err := s.AddBall(spec, rng); err != nil {
			return fmt.Errorf("ball %d: %w", i, err)
		}
	}
	if withSegment {
		s.AddObject(object.NewSegment(0.2, 0.75, 0.8, 0.25))
	}
	return nil
}

// Resize changes the stage bounds. A ball left outside [r, bound-r] on an
// axis reverses on every tick without moving, so it is moved back to the
// nearest position inside.
func (s *Stage) Resize(bounds object.Bounds) {
	if bounds == s.Bounds {
		return
	}
	s.Bounds = bounds
	for _, b := range s.Balls() {
		r := b.GetRadius()
		b.X = confine(b.X, r, bounds.Width)
		b.Y = confine(b.Y, r, bounds.Height)
	}
}

// confine clamps pos to [r, bound-r], or centers it when the ball is wider
// than the bound.
func confine(pos, r, bound float64) float64 {
	if bound < 2*r {
		return bound / 2
	}
	return math.Min(math.Max(pos, r), bound-r)
}

// hasRoom reports whether a ball can travel along both axes. With less than
// two steps of free space an axis reverses on consecutive ticks and the ball
// stops moving, so such balls are held in place until the stage grows.
func hasRoom(b *object.Ball, bounds object.Bounds) bool {
	r := b.GetRadius()
	vx, vy := b.GetVelocity()
	return bounds.Width-2*r > 2*math.Abs(vx) && bounds.Height-2*r > 2*math.Abs(vy)
}

// Tick resizes the stage to bounds and advances every object once. Objects
// that ask to be removed are dropped; the first update error is returned.
func (s *Stage) Tick(bounds object.Bounds) error {
	s.Resize(bounds)

	ctx := object.UpdateContext{
		Bounds:  bounds,
		Objects: s.Objects,
	}

	kept := s.Objects[:0]
	var firstErr error
	for _, obj := range s.Objects {
		if b, ok := obj.(*object.Ball); ok && !hasRoom(b, bounds) {
			kept = append(kept, obj)
			continue
		}
		remove, err := obj.Update(ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if !remove {
			kept = append(kept, obj)
		}
	}
	clear(s.Objects[len(kept):])
	s.Objects = kept
	s.Ticks++

	return firstErr
}

// Draw draws every object onto ctx.Surface in stage order.
func (s *Stage) Draw(ctx object.DrawContext) error {
	if ctx.Bounds == (object.Bounds{}) {
		ctx.Bounds = s.Bounds
	}
	for _, obj := range s.Objects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Balls returns the balls on the stage.
func (s *Stage) Balls() []*object.Ball {
	return object.FilterBalls(s.Objects)
}

// Snapshot copies the current geometry.
func (s *Stage) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:     s.Ticks,
		Width:    s.Bounds.Width,
		Height:   s.Bounds.Height,
		Balls:    []BallState{},
		Segments: []SegmentState{},
	}
	for _, obj := range s.Objects {
		switch o := obj.(type) {
		case *object.Ball:
			snap.Balls = append(snap.Balls, BallState{X: o.X, Y: o.Y, Radius: o.GetRadius(), Color: o.Color})
		case *object.Segment:
			x1, y1, x2, y2 := o.Endpoints(s.Bounds)
			color := o.Color
			if o.Hit {
				color = o.HitColor
			}
			snap.Segments = append(snap.Segments, SegmentState{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color, Hit: o.Hit})
		}
	}
	return snap
}
