package main

import (
	"flag"
	"os"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/frames"
)

func main() {
	out := flag.String("out", "frames", "directory to write PNG frames to")
	count := flag.Int("frames", 120, "number of frames to write")
	every := flag.Int("every", 1, "ticks between written frames")
	width := flag.Int("width", 800, "frame width in pixels")
	height := flag.Int("height", 600, "frame height in pixels")
	seed := flag.Int64("seed", 1, "random seed for ball placement")
	background := flag.String("background", frames.DefaultBackground, "background color")
	flag.Parse()

	settings, err := config.Load(config.ScalePixels)
	logger, lvlErr := config.NewLogger(os.Stderr, "frames", settings.LogLevel)
	if lvlErr != nil {
		logger.Warn("unknown log level, using info", "err", lvlErr)
	}
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	emit, err := frames.WriteDir(*out)
	if err != nil {
		logger.Fatal("create output directory", "dir", *out, "err", err)
	}

	opts := frames.Options{
		Width:      *width,
		Height:     *height,
		Frames:     *count,
		Every:      *every,
		Seed:       *seed,
		Background: *background,
		Settings:   settings,
		Logger:     logger,
	}
	logger.Info("rendering", "frames", opts.Frames, "size", [2]int{opts.Width, opts.Height}, "simulated", opts.Duration())
	if err := frames.Render(opts, emit); err != nil {
		logger.Fatal("render failed", "err", err)
	}
	logger.Info("done", "dir", *out)
}
