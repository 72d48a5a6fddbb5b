package visualize

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/propagate"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	anyPoolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// WriteTable writes one "layer  pool" row per layer of g in id order. Pools
// are drawn in their palette color when the terminal supports it.
func WriteTable(w io.Writer, g *dag.Graph) error {
	pools, err := propagate.Assignments(g)
	if err != nil {
		return err
	}
	ids := g.IDs()

	width := len("LAYER")
	for _, id := range ids {
		if n := lipgloss.Width(id); n > width {
			width = n
		}
	}
	idStyle := lipgloss.NewStyle().Width(width + 2)

	var sb strings.Builder
	sb.WriteString(idStyle.Inherit(headerStyle).Render("LAYER"))
	sb.WriteString(headerStyle.Render("POOL"))
	sb.WriteString("\n")

	for _, id := range ids {
		p := pools[id]
		cell := anyPoolStyle.Render(AnyPool)
		if !p.IsNone() {
			cell = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Color(p))).
				Bold(true).
				Render(p.String())
		}
		sb.WriteString(idStyle.Render(id))
		sb.WriteString(cell)
		sb.WriteString("\n")
	}

	_, err = io.WriteString(w, sb.String())
	return err
}
