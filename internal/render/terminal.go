// Package render turns message markup into something displayable: styled
// terminal text for the interactive session, HTML for transcript export.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer converts markdown into a displayable form
type Renderer interface {
	Render(markup string) (string, error)
}

// Terminal renders markdown for the terminal with glamour
type Terminal struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewTerminal creates a terminal renderer.
// style is "auto" or a glamour standard style name (dark, light, notty, ...).
func NewTerminal(style string, width int) (*Terminal, error) {
	t := &Terminal{style: style}
	if err := t.SetWidth(width); err != nil {
		return nil, err
	}
	return t, nil
}

// SetWidth rebuilds the renderer for a new wrap width
func (t *Terminal) SetWidth(width int) error {
	if width < 20 {
		width = 20
	}
	if t.renderer != nil && width == t.width {
		return nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if t.style == "" || t.style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(t.style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	t.renderer = renderer
	t.width = width
	return nil
}

// Width returns the current wrap width
func (t *Terminal) Width() int {
	return t.width
}

// Render converts markdown to styled terminal text
func (t *Terminal) Render(markup string) (string, error) {
	out, err := t.renderer.Render(markup)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}
