package render

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fiihelp/internal/audio"
	"fiihelp/internal/conversation"
)

// ArtifactLookup resolves an audio reference to its recording
type ArtifactLookup func(ref string) (audio.Artifact, bool)

// Linker rewrites keywords in assistant answers before rendering
type Linker interface {
	Link(text string) string
}

type transcriptEntry struct {
	Role  string
	Time  string
	Body  template.HTML
	Audio template.URL
	File  string
	Note  string
}

var transcriptTmpl = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="ro">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
.user { background: #e0f2fe; }
.assistant { background: #f4f4f5; }
.msg { border-radius: .5rem; padding: .5rem 1rem; margin: .75rem 0; }
.meta { color: #71717a; font-size: .8rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Entries}}<div class="msg {{.Role}}">
<div class="meta">{{.Role}} · {{.Time}}</div>
{{if .Audio}}<audio controls src="{{.Audio}}"></audio>
<a class="meta" download="{{.File}}" href="{{.Audio}}">{{.File}}</a>{{if .Note}}<div class="meta">{{.Note}}</div>{{end}}{{else if .Note}}<div class="meta">{{.Note}}</div>{{else}}{{.Body}}{{end}}
</div>
{{end}}</body>
</html>
`))

// Transcript writes the conversation as a standalone HTML document.
// Recorded clips are embedded as data URIs when they can be resolved.
func Transcript(w io.Writer, title string, msgs []conversation.Message, h *HTML, l Linker, lookup ArtifactLookup) error {
	entries := make([]transcriptEntry, 0, len(msgs))
	for _, msg := range msgs {
		e := transcriptEntry{
			Role: string(msg.Role),
			Time: msg.Timestamp.Format("15:04:05"),
		}

		if msg.IsAudio() {
			if lookup == nil {
				e.Note = "audio clip unavailable"
			} else if a, ok := lookup(msg.Text); ok {
				e.Audio = template.URL(fmt.Sprintf("data:%s;base64,%s", a.MIMEType, base64.StdEncoding.EncodeToString(a.Data)))
				e.File = strings.TrimPrefix(a.Ref, "blob:") + a.Extension()
				e.Note = a.Describe()
			} else {
				e.Note = "audio clip unavailable"
			}
			entries = append(entries, e)
			continue
		}

		text := msg.Text
		if msg.Role == conversation.RoleAssistant && l != nil {
			text = l.Link(text)
		}
		body, err := h.Render(text)
		if err != nil {
			return err
		}
		e.Body = template.HTML(body)
		entries = append(entries, e)
	}

	return transcriptTmpl.Execute(w, struct {
		Title   string
		Entries []transcriptEntry
	}{Title: title, Entries: entries})
}

// SaveTranscript writes the transcript to path, creating parent directories
func SaveTranscript(path, title string, msgs []conversation.Message, h *HTML, l Linker, lookup ArtifactLookup) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	if err := Transcript(f, title, msgs, h, l, lookup); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
