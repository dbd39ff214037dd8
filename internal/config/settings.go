package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomz197/bounce/internal/object"
)

// Scale selects the default ball geometry for a coordinate space.
type Scale int

const (
	// ScaleTerminal is one unit per half-block pixel.
	ScaleTerminal Scale = iota
	// ScalePixels is one unit per screen pixel (browser, PNG frames).
	ScalePixels
)

// Ball defaults per scale. Pixel defaults match a 60px ball moving 15px per frame.
const (
	TerminalBallRadius = 6.0
	TerminalBallSpeed  = 1.5
	PixelBallRadius    = 60.0
	PixelBallSpeed     = 15.0
)

// Settings holds all tunable parameters read from the environment.
type Settings struct {
	BallRadius float64
	BallSpeed  float64
	BallCount  int
	BallColor  string
	Policy     object.BouncePolicy
	Placement  object.Placement // Defaults to inset; legacy can start balls outside the stage
	Segment    bool
	TickRate   int
	LogLevel   string
}

// TickInterval returns the duration of one tick.
func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Load reads Settings from the environment, using defaults for scale where a
// variable is unset. All parse errors are reported together.
func Load(scale Scale) (Settings, error) {
	radius, speed := TerminalBallRadius, TerminalBallSpeed
	if scale == ScalePixels {
		radius, speed = PixelBallRadius, PixelBallSpeed
	}

	var errs []error
	s := Settings{
		BallColor: GetEnv("BALL_COLOR", object.DefaultBallColor),
		LogLevel:  GetEnv("BOUNCE_LOG_LEVEL", "info"),
	}

	var err error
	if s.BallRadius, err = GetEnvFloat("BALL_RADIUS", radius); err != nil {
		errs = append(errs, err)
	}
	if s.BallSpeed, err = GetEnvFloat("BALL_SPEED", speed); err != nil {
		errs = append(errs, err)
	}
	if s.BallCount, err = GetEnvInt("BALL_COUNT", 1); err != nil {
		errs = append(errs, err)
	}
	if s.TickRate, err = GetEnvInt("TICK_RATE", 60); err != nil {
		errs = append(errs, err)
	}
	if s.Policy, err = object.ParseBouncePolicy(GetEnv("BOUNCE_POLICY", "x-first")); err != nil {
		errs = append(errs, fmt.Errorf("BOUNCE_POLICY: %w", err))
	}
	if s.Placement, err = object.ParsePlacement(GetEnv("BALL_PLACEMENT", "inset")); err != nil {
		errs = append(errs, fmt.Errorf("BALL_PLACEMENT: %w", err))
	}
	switch v := GetEnv("BOUNCE_SEGMENT", "on"); v {
	case "", "on", "true", "1":
		s.Segment = true
	case "off", "false", "0":
	default:
		errs = append(errs, fmt.Errorf("BOUNCE_SEGMENT: %q: %w", v, object.ErrInvalidArgument))
	}
	if s.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("TICK_RATE must be positive, got %d: %w", s.TickRate, object.ErrInvalidArgument))
	}
	if s.BallCount < 0 {
		errs = append(errs, fmt.Errorf("BALL_COUNT must not be negative, got %d: %w", s.BallCount, object.ErrInvalidArgument))
	}

	return s, errors.Join(errs...)
}
