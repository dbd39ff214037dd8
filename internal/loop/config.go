package loop

// Frame loop
const (
	defaultTickRate = 60
	maxBalls        = 64
)

// Terminals smaller than this are not drawn to.
const (
	minTermWidth  = 8
	minTermHeight = 4
)
