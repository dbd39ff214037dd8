// Package frames simulates a stage headlessly and renders ticks to PNG images.
package frames

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/stage"
)

// DefaultBackground is the canvas color behind the balls.
const DefaultBackground = "#ffffff"

// Options configures a headless run.
type Options struct {
	Width, Height int
	Frames        int // Number of images to emit.
	Every         int // Ticks between emitted images.
	Seed          int64
	Background    string
	Settings      config.Settings
	Logger        *log.Logger
}

// EmitFunc receives each rendered frame. The raster is reused between calls.
type EmitFunc func(index int, tick uint64, r *draw.Raster) error

// Render populates a stage, advances it and calls emit every opts.Every ticks.
// The first image shows the stage after one tick.
func Render(opts Options, emit EmitFunc) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("frame size %dx%d: %w", opts.Width, opts.Height, object.ErrInvalidArgument)
	}
	if opts.Frames < 0 || opts.Every <= 0 {
		return fmt.Errorf("frames %d every %d: %w", opts.Frames, opts.Every, object.ErrInvalidArgument)
	}
	if opts.Background == "" {
		opts.Background = DefaultBackground
	}
	if opts.Settings.TickRate <= 0 {
		opts.Settings.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	bounds := object.Bounds{Width: float64(opts.Width), Height: float64(opts.Height)}
	st := stage.New(bounds)
	spec := stage.BallSpec{
		Count:     opts.Settings.BallCount,
		Radius:    opts.Settings.BallRadius,
		Speed:     opts.Settings.BallSpeed,
		Color:     opts.Settings.BallColor,
		Policy:    opts.Settings.Policy,
		Placement: opts.Settings.Placement,
	}
	if err := st.Populate(spec, opts.Settings.Segment, rand.New(rand.NewSource(opts.Seed))); err != nil {
		return err
	}

	raster := draw.NewRaster(opts.Width, opts.Height, opts.Background)
	defer raster.Close()
	raster.SetLineWidth(3)

	for i := 0; i < opts.Frames; i++ {
		for t := 0; t < opts.Every; t++ {
			if err := st.Tick(bounds); err != nil {
				return fmt.Errorf("tick %d: %w", st.Ticks, err)
			}
		}

		raster.Clear()
		if err := st.Draw(object.DrawContext{Surface: raster, Bounds: bounds}); err != nil {
			return fmt.Errorf("draw frame %d: %w", i, err)
		}
		if err := emit(i, st.Ticks, raster); err != nil {
			return fmt.Errorf("emit frame %d: %w", i, err)
		}
		logger.Debug("frame rendered", "index", i, "tick", st.Ticks)
	}
	return nil
}

// WriteDir returns an EmitFunc saving frames as numbered PNG files in dir.
func WriteDir(dir string) (EmitFunc, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return func(index int, _ uint64, r *draw.Raster) error {
		return r.SavePNG(filepath.Join(dir, fmt.Sprintf("frame_%05d.png", index)))
	}, nil
}

// Duration returns the simulated time covered by a run.
func (o Options) Duration() time.Duration {
	rate := o.Settings.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Duration(o.Frames*o.Every) * time.Second / time.Duration(rate)
}
