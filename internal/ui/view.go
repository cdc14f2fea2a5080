package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpLine = "enter send · alt+enter newline · ctrl+r record · ctrl+e export · esc quit"

// View renders the header, the message list, the status line and the input
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("FiiHelp"))
	b.WriteString(m.styles.Subtle.Render("  " + helpLine))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	frame := m.styles.InputFrame
	if m.frozen {
		frame = m.styles.Disabled
	}
	b.WriteString(frame.Width(max(m.width-2, 1)).Render(m.input.View()))

	return b.String()
}

func (m *Model) statusLine() string {
	var parts []string

	if m.capture != nil && m.capture.Recording() {
		parts = append(parts, m.styles.Recording.Render(fmt.Sprintf("● REC %s", clock(m.capture.Elapsed()))))
	}
	if m.submit.Submitting() {
		parts = append(parts, m.spinner.View()+m.styles.Status.Render(" "+placeholderWaiting))
	}
	if m.status != "" {
		parts = append(parts, m.styles.Status.Render(m.status))
	}

	line := strings.Join(parts, m.styles.Subtle.Render("  │  "))
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(line)
}

// clock formats whole seconds as m:ss
func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
