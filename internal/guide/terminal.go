package guide

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"
)

// ErrTerminalRender indicates the guide could not be rendered for the terminal.
var ErrTerminalRender = errors.New("terminal render failed")

// DefaultWrap is the word-wrap column used when the terminal width is unknown.
const DefaultWrap = 80

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	// Style is a glamour standard style ("dark", "light", "notty").
	// Empty detects the style from the terminal.
	Style string
	// Width is the word-wrap column. Zero means DefaultWrap.
	Width int
}

// RenderTerminal renders Markdown as styled ANSI text.
func RenderTerminal(content string, opts TerminalOptions) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWrap
	}

	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTerminalRender, err)
	}

	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTerminalRender, err)
	}
	return out, nil
}
