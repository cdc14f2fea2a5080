package audio

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// refPrefix marks client-local artifact references
const refPrefix = "blob:"

// Artifact is one assembled recording
type Artifact struct {
	Ref       string
	MIMEType  string
	Data      []byte
	Chunks    int
	Duration  time.Duration
	CreatedAt time.Time
}

// Size returns the number of recorded bytes
func (a Artifact) Size() int {
	return len(a.Data)
}

// Extension returns a file extension matching the MIME type
func (a Artifact) Extension() string {
	switch {
	case strings.Contains(a.MIMEType, "wav"):
		return ".wav"
	case strings.Contains(a.MIMEType, "ogg"):
		return ".ogg"
	case strings.Contains(a.MIMEType, "webm"):
		return ".webm"
	default:
		return ".bin"
	}
}

// Describe returns a one-line summary for display
func (a Artifact) Describe() string {
	return fmt.Sprintf("%s · %ds · %s", a.MIMEType, int(a.Duration.Seconds()), humanBytes(a.Size()))
}

// IsRef reports whether s looks like an artifact reference
func IsRef(s string) bool {
	return strings.HasPrefix(s, refPrefix)
}

func newRef() string {
	return refPrefix + uuid.New().String()
}

// assemble joins chunks in order into a single artifact
func assemble(chunks [][]byte, mime string, elapsed int) Artifact {
	var buf bytes.Buffer
	for _, c := range chunks {
		buf.Write(c)
	}
	return Artifact{
		Ref:       newRef(),
		MIMEType:  mime,
		Data:      buf.Bytes(),
		Chunks:    len(chunks),
		Duration:  time.Duration(elapsed) * time.Second,
		CreatedAt: time.Now(),
	}
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
