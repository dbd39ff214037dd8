package draw

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	sgrReset             = "\033[0m"
	sgrDefaultForeground = "\033[39m"
	sgrDefaultBackground = "\033[49m"
)

// Surface is the render collaborator objects draw themselves onto.
// Colors are hex tags such as "#fdd700".
type Surface interface {
	FillCircle(x, y, radius float64, color string) error
	Line(x1, y1, x2, y2 float64, color string) error
}

type inkColor struct {
	fg string
	bg string
}

// ForegroundSGR returns the 24-bit ANSI foreground sequence for a hex color.
func ForegroundSGR(hex string) (string, error) {
	r, g, b, err := rgb255(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b), nil
}

// BackgroundSGR returns the 24-bit ANSI background sequence for a hex color.
func BackgroundSGR(hex string) (string, error) {
	r, g, b, err := rgb255(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", r, g, b), nil
}

func rgb255(hex string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}
