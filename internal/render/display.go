package render

import (
	"fiihelp/internal/conversation"
)

// Display prepares message bodies for the terminal: keyword linking for
// answers, markdown rendering, and a summary line for recorded clips.
type Display struct {
	term   *Terminal
	linker Linker
	lookup ArtifactLookup
}

// NewDisplay creates a message display
func NewDisplay(term *Terminal, l Linker, lookup ArtifactLookup) *Display {
	return &Display{term: term, linker: l, lookup: lookup}
}

// SetWidth forwards a new wrap width to the terminal renderer
func (d *Display) SetWidth(width int) error {
	return d.term.SetWidth(width)
}

// Body returns the rendered body of msg. Rendering failures fall back to the
// raw text.
func (d *Display) Body(msg conversation.Message) string {
	if msg.IsAudio() {
		return d.audioLine(msg.Text)
	}

	text := msg.Text
	if msg.Role == conversation.RoleAssistant && d.linker != nil {
		text = d.linker.Link(text)
	}
	out, err := d.term.Render(text)
	if err != nil {
		return text
	}
	return out
}

func (d *Display) audioLine(ref string) string {
	if d.lookup != nil {
		if a, ok := d.lookup(ref); ok {
			return "🎤 audio clip · " + a.Describe()
		}
	}
	return "🎤 audio clip (unavailable)"
}
