package loop

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/object"
)

const helpText = "+ add  - remove  space pause  q quit"

type hudState struct {
	Balls  int
	Tick   uint64
	Paused bool
	Policy object.BouncePolicy
}

// hud draws the status line over the canvas.
type hud struct {
	status lipgloss.Style
	paused lipgloss.Style
	help   lipgloss.Style
}

func newHUD(r *lipgloss.Renderer, accent string) *hud {
	return &hud{
		status: r.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		paused: r.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
		help:   r.NewStyle().Faint(true),
	}
}

// draw writes the HUD to the top row. Text that does not fit is dropped.
func (h *hud) draw(cw *draw.ChunkWriter, termWidth int, st hudState) {
	status := fmt.Sprintf("balls: %d  tick: %d  bounce: %s", st.Balls, st.Tick, st.Policy)
	if lipgloss.Width(status)+2 <= termWidth {
		cw.WriteAt(2, 1, h.status.Render(status))
	}

	if lipgloss.Width(helpText)+lipgloss.Width(status)+4 <= termWidth {
		cw.WriteAt(termWidth-lipgloss.Width(helpText), 1, h.help.Render(helpText))
	}

	if st.Paused {
		label := h.paused.Render("PAUSED")
		if w := lipgloss.Width(label); w <= termWidth {
			cw.WriteAt((termWidth-w)/2+1, 2, label)
		}
	}
}
