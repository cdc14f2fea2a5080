package conversation

import (
	"time"
)

// Role identifies who produced a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind identifies what a message carries
type Kind string

const (
	KindText  Kind = "text"
	KindAudio Kind = "audio"
)

// Greeting is the assistant message every conversation starts with
const Greeting = "Hi there! How can I help?"

// Message represents a single entry in the conversation.
// For KindAudio the Text field holds a client-local artifact reference.
type Message struct {
	Text      string    `json:"text"`
	Role      Role      `json:"role"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// UserText creates a typed user message
func UserText(text string) Message {
	return Message{Text: text, Role: RoleUser, Kind: KindText}
}

// AssistantText creates an assistant message
func AssistantText(text string) Message {
	return Message{Text: text, Role: RoleAssistant, Kind: KindText}
}

// UserAudio creates a user message that references a recorded clip
func UserAudio(ref string) Message {
	return Message{Text: ref, Role: RoleUser, Kind: KindAudio}
}

// IsAudio reports whether the message references recorded media
func (m Message) IsAudio() bool {
	return m.Kind == KindAudio
}

// HistoryWindow is the most recently completed exchange, passed as context
// with the next request. It is empty until the first turn completes.
type HistoryWindow struct {
	Prompt string
	Reply  string
	ok     bool
}

// Empty reports whether no exchange has completed yet
func (w HistoryWindow) Empty() bool {
	return !w.ok
}

// Pairs returns the window in wire form: zero or one [prompt, reply] pairs
func (w HistoryWindow) Pairs() [][2]string {
	if !w.ok {
		return [][2]string{}
	}
	return [][2]string{{w.Prompt, w.Reply}}
}
