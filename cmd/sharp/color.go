package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// diffRenderer returns the renderer used to color diffs written to w, or nil
// when the output stays plain.
func diffRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	switch mode {
	case "always":
		r := lipgloss.NewRenderer(w)
		r.SetColorProfile(termenv.ANSI)
		return r
	case "never":
		return nil
	}
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return nil
	}
	return lipgloss.NewRenderer(w)
}
