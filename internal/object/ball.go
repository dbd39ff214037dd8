package object

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultBallColor is the fill color of a ball unless overridden.
const DefaultBallColor = "#fdd700"

// BouncePolicy selects how boundary violations are resolved in a tick.
type BouncePolicy int

const (
	// BounceXFirst checks the X axis first and only checks Y when X did not
	// bounce. When both axes are out of bounds in the same tick only X is
	// corrected; Y is corrected on a later tick.
	BounceXFirst BouncePolicy = iota
	// BounceBothAxes checks and corrects each axis independently every tick.
	BounceBothAxes
)

// String returns the policy's configuration name.
func (p BouncePolicy) String() string {
	switch p {
	case BounceXFirst:
		return "x-first"
	case BounceBothAxes:
		return "both"
	default:
		return fmt.Sprintf("BouncePolicy(%d)", int(p))
	}
}

// ParseBouncePolicy parses a policy name as produced by BouncePolicy.String.
func ParseBouncePolicy(s string) (BouncePolicy, error) {
	switch s {
	case "x-first", "":
		return BounceXFirst, nil
	case "both":
		return BounceBothAxes, nil
	}
	return 0, fmt.Errorf("bounce policy %q: %w", s, ErrInvalidArgument)
}

// Placement selects how a new ball's starting position is chosen.
type Placement int

const (
	// PlacementLegacy places each axis at diameter + (rand*bound - diameter).
	// The formula does not keep the ball inside the bounds on small stages.
	PlacementLegacy Placement = iota
	// PlacementInset places each axis uniformly in [radius, bound-radius].
	PlacementInset
)

// String returns the placement's configuration name.
func (p Placement) String() string {
	switch p {
	case PlacementLegacy:
		return "legacy"
	case PlacementInset:
		return "inset"
	default:
		return fmt.Sprintf("Placement(%d)", int(p))
	}
}

// ParsePlacement parses a placement name as produced by Placement.String.
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "legacy", "":
		return PlacementLegacy, nil
	case "inset":
		return PlacementInset, nil
	}
	return 0, fmt.Errorf("placement %q: %w", s, ErrInvalidArgument)
}

// Ball is a circle moving at constant speed and reflecting off the stage edges.
type Ball struct {
	X, Y   float64 // Position (center)
	VX, VY float64 // Velocity in units per tick
	Color  string  // Fill color tag, e.g. "#fdd700"
	Policy BouncePolicy

	radius float64
}

// BallOption configures a Ball at construction.
type BallOption func(*ballOptions)

type ballOptions struct {
	uniform   func() float64
	color     string
	policy    BouncePolicy
	placement Placement
}

// WithRand makes placement draw from rng instead of the global source.
func WithRand(rng *rand.Rand) BallOption {
	return func(o *ballOptions) {
		if rng != nil {
			o.uniform = rng.Float64
		}
	}
}

// WithColor sets the ball's fill color.
func WithColor(color string) BallOption {
	return func(o *ballOptions) {
		o.color = color
	}
}

// WithPolicy sets how the ball resolves boundary violations.
func WithPolicy(policy BouncePolicy) BallOption {
	return func(o *ballOptions) {
		o.policy = policy
	}
}

// WithPlacement sets how the ball's starting position is chosen.
func WithPlacement(placement Placement) BallOption {
	return func(o *ballOptions) {
		o.placement = placement
	}
}

// NewBall creates a ball for a stage of the given bounds. The initial velocity
// is (speed, speed). Radius, speed and both bounds must be positive and finite.
func NewBall(bounds Bounds, radius, speed float64, opts ...BallOption) (*Ball, error) {
	if err := validatePositive("radius", radius); err != nil {
		return nil, err
	}
	if err := validatePositive("speed", speed); err != nil {
		return nil, err
	}
	if err := validatePositive("stage width", bounds.Width); err != nil {
		return nil, err
	}
	if err := validatePositive("stage height", bounds.Height); err != nil {
		return nil, err
	}

	o := ballOptions{
		uniform: rand.Float64,
		color:   DefaultBallColor,
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Ball{
		VX:     speed,
		VY:     speed,
		Color:  o.color,
		Policy: o.policy,
		radius: radius,
	}

	switch o.placement {
	case PlacementInset:
		b.X = radius + o.uniform()*math.Max(bounds.Width-2*radius, 0)
		b.Y = radius + o.uniform()*math.Max(bounds.Height-2*radius, 0)
	default:
		diameter := radius * 2
		b.X = diameter + (o.uniform()*bounds.Width - diameter)
		b.Y = diameter + (o.uniform()*bounds.Height - diameter)
	}

	return b, nil
}

func validatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s must be positive and finite, got %v: %w", name, v, ErrInvalidArgument)
	}
	return nil
}

// Advance moves the ball by its velocity and reflects it off the bounds.
// An axis at or past radius from an edge has its velocity negated and is
// moved once more in the new direction.
func (b *Ball) Advance(bounds Bounds) {
	b.X += b.VX
	b.Y += b.VY

	minPos := b.radius
	maxX := bounds.Width - b.radius
	maxY := bounds.Height - b.radius

	bouncedX := false
	if b.X <= minPos || b.X >= maxX {
		b.VX = -b.VX
		b.X += b.VX
		bouncedX = true
	}

	if bouncedX && b.Policy == BounceXFirst {
		return
	}

	if b.Y <= minPos || b.Y >= maxY {
		b.VY = -b.VY
		b.Y += b.VY
	}
}

// Update advances the ball within ctx.Bounds. Balls are never removed by update.
func (b *Ball) Update(ctx UpdateContext) (bool, error) {
	b.Advance(ctx.Bounds)
	return false, nil
}

// Draw renders the ball as a filled circle in its color.
func (b *Ball) Draw(ctx DrawContext) error {
	return ctx.Surface.FillCircle(b.X, b.Y, b.radius, b.Color)
}

// GetPosition returns the ball's center position.
func (b *Ball) GetPosition() (float64, float64) {
	return b.X, b.Y
}

// GetRadius returns the ball's radius.
func (b *Ball) GetRadius() float64 {
	return b.radius
}

// GetVelocity returns the ball's velocity.
func (b *Ball) GetVelocity() (float64, float64) {
	return b.VX, b.VY
}

var _ Circle = (*Ball)(nil)
