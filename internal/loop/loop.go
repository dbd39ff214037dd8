// Package loop provides the terminal frame loop for a bouncing-ball stage.
package loop

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/input"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/stage"
)

// Options configures a terminal session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Settings     config.Settings
	Logger       *log.Logger
	Rand         *rand.Rand
	Username     string
}

// Session is one terminal viewport running its own stage.
type Session struct {
	stage   *stage.Stage
	spec    stage.BallSpec
	canvas  *draw.Canvas
	cw      *draw.ChunkWriter
	hud     *hud
	stream  *input.Stream
	rng     *rand.Rand
	logger  *log.Logger
	opts    Options
	paused  bool
	running bool
	seeded  bool
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Settings.TickRate <= 0 {
		opts.Settings.TickRate = defaultTickRate
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.TrueColor)

	s := opts.Settings
	return &Session{
		stage: stage.New(object.Bounds{}),
		spec: stage.BallSpec{
			Count:     s.BallCount,
			Radius:    s.BallRadius,
			Speed:     s.BallSpeed,
			Color:     s.BallColor,
			Policy:    s.Policy,
			Placement: s.Placement,
		},
		canvas:  draw.NewCanvas(0, 0),
		cw:      draw.NewChunkWriter(w),
		hud:     newHUD(renderer, s.BallColor),
		stream:  input.StartStream(r),
		rng:     rng,
		logger:  opts.Logger,
		opts:    opts,
		running: true,
	}
}

// Run starts the loop with the standard Input → Update → Draw cycle.
// It blocks until the user quits, the reader closes or ctx is done.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	return NewSession(r, w, opts).Run(ctx)
}

// Run drives the session until it stops.
func (s *Session) Run(ctx context.Context) error {
	frameTime := s.opts.Settings.TickInterval()

	draw.HideCursor(s.cw)
	draw.ClearScreen(s.cw)
	if err := s.cw.Flush(); err != nil {
		return err
	}
	defer func() {
		draw.ClearScreen(s.cw)
		draw.ShowCursor(s.cw)
		_ = s.cw.Flush()
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for s.running {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		frameStart := time.Now()

		if err := s.Frame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			timer.Reset(frameTime - elapsed)
		} else {
			timer.Reset(0)
		}
	}
	return nil
}

// Frame runs one iteration: input, resize, tick and draw.
func (s *Session) Frame() error {
	// ===== INPUT PHASE =====
	in := input.ReadInput(s.stream)
	if in.Closed {
		s.logger.Debug("input closed", "user", s.opts.Username)
	}
	if in.Quit {
		s.running = false
		return nil
	}
	if in.Pause%2 == 1 {
		s.paused = !s.paused
	}

	// ===== RESIZE PHASE =====
	bounds, ok := s.updateScreen()
	if !ok {
		return nil
	}
	s.stage.Resize(bounds)
	if !s.seeded {
		if err := s.stage.Populate(s.spec, s.opts.Settings.Segment, s.rng); err != nil {
			return err
		}
		s.seeded = true
		s.logger.Debug("stage populated", "user", s.opts.Username, "balls", s.spec.Count, "width", bounds.Width, "height", bounds.Height)
	}
	s.applyEdits(in)

	// ===== UPDATE PHASE =====
	if !s.paused {
		if err := s.stage.Tick(bounds); err != nil {
			return err
		}
	}

	// ===== DRAW PHASE =====
	return s.drawFrame(bounds)
}

// Stage returns the session's stage.
func (s *Session) Stage() *stage.Stage {
	return s.stage
}

// Paused reports whether ticking is suspended.
func (s *Session) Paused() bool {
	return s.paused
}

// Running reports whether the session still accepts frames.
func (s *Session) Running() bool {
	return s.running
}

// updateScreen follows the terminal size 1:1 and returns the stage bounds.
// ok is false while the terminal has no usable area.
func (s *Session) updateScreen() (object.Bounds, bool) {
	termWidth, termHeight, err := s.opts.TermSizeFunc()
	if err != nil || termWidth < minTermWidth || termHeight < minTermHeight {
		return object.Bounds{}, false
	}
	s.canvas.Resize(termWidth, termHeight)
	width, height := s.canvas.Bounds()
	return object.Bounds{Width: width, Height: height}, true
}

// applyEdits adds and removes balls requested this frame.
func (s *Session) applyEdits(in input.Input) {
	for i := 0; i < in.Add && len(s.stage.Balls()) < maxBalls; i++ {
		if _, err := s.stage.AddBall(s.spec, s.rng); err != nil {
			s.logger.Warn("add ball", "user", s.opts.Username, "err", err)
			return
		}
	}
	for i := 0; i < in.Remove; i++ {
		if !s.stage.RemoveBall() {
			return
		}
	}
}

// drawFrame clears the screen, draws all objects and the HUD, then flushes.
func (s *Session) drawFrame(bounds object.Bounds) error {
	draw.ClearScreen(s.cw)
	s.canvas.Clear()

	ctx := object.DrawContext{
		Surface: s.canvas,
		Bounds:  bounds,
	}
	if err := s.stage.Draw(ctx); err != nil {
		return err
	}
	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}

	s.hud.draw(s.cw, s.canvas.Columns(), hudState{
		Balls:  len(s.stage.Balls()),
		Tick:   s.stage.Ticks,
		Paused: s.paused,
		Policy: s.spec.Policy,
	})

	return s.cw.Flush()
}
