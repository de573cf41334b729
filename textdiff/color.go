package textdiff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colorize styles the lines of a unified diff for a terminal: removals red,
// additions green, hunk headers cyan and file headers bold.
func Colorize(unified string, r *lipgloss.Renderer) string {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	var (
		removed = base.Foreground(lipgloss.Color("1"))
		added   = base.Foreground(lipgloss.Color("2"))
		hunk    = base.Foreground(lipgloss.Color("6"))
		header  = base.Bold(true)
	)

	lines := strings.SplitAfter(unified, "\n")
	var sb strings.Builder
	for _, line := range lines {
		text := strings.TrimSuffix(line, "\n")
		nl := line[len(text):]
		switch {
		case text == "":
		case strings.HasPrefix(text, "---"), strings.HasPrefix(text, "+++"):
			text = header.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = hunk.Render(text)
		case text[0] == '-':
			text = removed.Render(text)
		case text[0] == '+':
			text = added.Render(text)
		}
		sb.WriteString(text)
		sb.WriteString(nl)
	}
	return sb.String()
}
