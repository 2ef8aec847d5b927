package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderFunc turns markdown into terminal output.
type RenderFunc func(markdown string) (string, error)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() RenderFunc {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return PlainRenderer()
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer returns the markdown untouched. Used when output is piped.
func PlainRenderer() RenderFunc {
	return func(markdown string) (string, error) {
		return markdown, nil
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RendererFor picks glamour for terminals and plain markdown otherwise.
func RendererFor(f *os.File) RenderFunc {
	if IsTerminal(f) {
		return NewRenderer()
	}
	return PlainRenderer()
}
