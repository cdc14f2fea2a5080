package conversation

import (
	"sync"
	"time"
)

// minHistoryMessages is the number of settled messages needed before a
// history window exists: the greeting plus one full turn.
const minHistoryMessages = 3

// Effect runs after every mutation of the store
type Effect func(Message)

// Store owns the ordered, append-only message list of one session
type Store struct {
	mu       sync.RWMutex
	messages []Message
	settled  int
	effects  []Effect
}

// NewStore creates a store seeded with the given messages
func NewStore(seed ...Message) *Store {
	s := &Store{messages: []Message{}}
	for _, msg := range seed {
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}
		s.messages = append(s.messages, msg)
	}
	s.settled = len(s.messages)
	return s
}

// NewSession creates a store seeded with the assistant greeting
func NewSession() *Store {
	return NewStore(AssistantText(Greeting))
}

// Subscribe registers an effect run after each append.
// Effects run outside the lock and may read the store.
func (s *Store) Subscribe(fn Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effects = append(s.effects, fn)
}

// Append adds a message to the end and settles everything before it
func (s *Store) Append(msg Message) {
	s.append(msg, true)
}

// AppendPending adds a message that belongs to an exchange still in flight.
// It stays out of the history window until the next Append.
func (s *Store) AppendPending(msg Message) {
	s.append(msg, false)
}

func (s *Store) append(msg Message, settle bool) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	if settle {
		s.settled = len(s.messages)
	}
	effects := make([]Effect, len(s.effects))
	copy(effects, s.effects)
	s.mu.Unlock()

	for _, fn := range effects {
		fn(msg)
	}
}

// Messages returns a copy of the full sequence for display
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the newest message
func (s *Store) Last() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// History derives the window from the two most recent settled messages
func (s *Store) History() HistoryWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settled < minHistoryMessages {
		return HistoryWindow{}
	}
	return HistoryWindow{
		Prompt: s.messages[s.settled-2].Text,
		Reply:  s.messages[s.settled-1].Text,
		ok:     true,
	}
}
