package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/loop"
	"golang.org/x/term"
)

func main() {
	settings, err := config.Load(config.ScaleTerminal)
	logger, lvlErr := config.NewLogger(os.Stderr, "bounce", settings.LogLevel)
	if lvlErr != nil {
		logger.Warn("unknown log level, using info", "err", lvlErr)
	}
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Settings: settings,
		Logger:   logger,
	})
	stop()
	_ = term.Restore(fd, oldState)

	if err != nil {
		logger.Fatal("bounce error", "err", err)
	}
}
