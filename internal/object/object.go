// Package object defines the entities that live on a stage and how they are
// advanced and drawn each tick.
package object

import (
	"errors"

	"github.com/tomz197/bounce/internal/draw"
)

// ErrInvalidArgument is returned when an object is constructed from
// parameters that would make its motion meaningless.
var ErrInvalidArgument = errors.New("invalid argument")

// Bounds is the rectangle (0,0)-(Width,Height) objects are confined to.
// It is supplied on every tick and may change between ticks.
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (x, y float64) {
	return b.Width / 2, b.Height / 2
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Bounds  Bounds
	Objects []Object // Every object on the stage, including the one being updated
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Surface draw.Surface
	Bounds  Bounds
}

// Object is a drawable and updatable stage entity.
type Object interface {
	// Update advances the object by one tick. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Surface.
	Draw(ctx DrawContext) error
}

// Circle is implemented by round objects that expose their geometry.
type Circle interface {
	GetPosition() (x, y float64)
	GetRadius() float64
}

// FilterBalls returns all Ball objects from the given object slice.
func FilterBalls(objects []Object) []*Ball {
	var balls []*Ball
	for _, obj := range objects {
		if ball, ok := obj.(*Ball); ok {
			balls = append(balls, ball)
		}
	}
	return balls
}
