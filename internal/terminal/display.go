// Package terminal is the line-oriented chat mode used when stdin or stdout
// is not an interactive terminal, or when requested explicitly.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"fiihelp/internal/conversation"
)

var (
	welcomeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#38bdf8")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#38bdf8")).
			Padding(0, 3)
	grayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717a"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22d3ee"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80"))
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Display handles terminal output with colors and formatting
type Display struct {
	out io.Writer

	mu          sync.Mutex
	spinnerDone chan struct{}
	spinnerExit chan struct{}
}

// NewDisplay creates a new display writing to out
func NewDisplay(out io.Writer) *Display {
	return &Display{out: out}
}

// PrintWelcome displays the welcome banner
func (d *Display) PrintWelcome() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, welcomeStyle.Render("FiiHelp"))
	fmt.Fprintln(d.out, grayStyle.Render("Commands: /record | /stop | /history | /export [file] | /exit"))
}

// PrintGoodbye displays the goodbye message
func (d *Display) PrintGoodbye() {
	d.StopSpinner()
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, "\n"+infoStyle.Render("Goodbye! 👋"))
}

// PrintError displays an error message
func (d *Display) PrintError(err error) {
	d.line(errorStyle.Render(fmt.Sprintf("✗ Error: %v", err)))
}

// PrintInfo displays an info message
func (d *Display) PrintInfo(msg string) {
	d.line(infoStyle.Render("ℹ " + msg))
}

// PrintWarning displays a warning message
func (d *Display) PrintWarning(msg string) {
	d.line(warnStyle.Render("⚠ " + msg))
}

// PrintSuccess displays a success message
func (d *Display) PrintSuccess(msg string) {
	d.line(successStyle.Render("✓ " + msg))
}

// PrintPrompt displays the user input prompt
func (d *Display) PrintPrompt() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, "\n"+promptStyle.Render("❯")+" ")
}

// PrintMessage prints one conversation entry with its already rendered body.
// A running spinner is stopped first.
func (d *Display) PrintMessage(msg conversation.Message, body string) {
	d.StopSpinner()

	who := "FiiHelp"
	if msg.Role == conversation.RoleUser {
		who = "You"
	}

	var b strings.Builder
	b.WriteString("\n" + grayStyle.Render(fmt.Sprintf("┌─ %s · %s", who, msg.Timestamp.Format("15:04:05"))) + "\n")
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(grayStyle.Render("│") + " " + line + "\n")
	}
	b.WriteString(grayStyle.Render("└"))
	d.line(b.String())
}

// ShowSpinner displays a spinner with a message until StopSpinner
func (d *Display) ShowSpinner(msg string) {
	d.StopSpinner()

	d.mu.Lock()
	done := make(chan struct{})
	exit := make(chan struct{})
	d.spinnerDone = done
	d.spinnerExit = exit
	d.mu.Unlock()

	go func() {
		defer close(exit)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			d.mu.Lock()
			fmt.Fprintf(d.out, "\r%s", infoStyle.Render(spinnerChars[i]+" "+msg))
			d.mu.Unlock()
			i = (i + 1) % len(spinnerChars)

			select {
			case <-done:
				d.mu.Lock()
				fmt.Fprint(d.out, "\r"+clearLine()+"\r")
				d.mu.Unlock()
				return
			case <-ticker.C:
			}
		}
	}()
}

// StopSpinner stops the active spinner and waits for its line to clear
func (d *Display) StopSpinner() {
	d.mu.Lock()
	done, exit := d.spinnerDone, d.spinnerExit
	d.spinnerDone, d.spinnerExit = nil, nil
	d.mu.Unlock()

	if done == nil {
		return
	}
	close(done)
	<-exit
}

func (d *Display) line(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, s)
}

// clearLine returns ANSI escape code to clear the current line
func clearLine() string {
	return "\033[2K"
}

// IsTerminal reports whether both stdin and stdout are terminals
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the width of stdout, or fallback when it cannot be measured
func Width(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
