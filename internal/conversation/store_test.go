package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_SeedsGreeting(t *testing.T) {
	s := NewSession()

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, KindText, msgs[0].Kind)
	assert.False(t, msgs[0].Timestamp.IsZero())
}

func TestStore_AppendKeepsArrivalOrder(t *testing.T) {
	s := NewStore()
	s.Append(UserText("one"))
	s.Append(AssistantText("two"))
	s.Append(UserAudio("blob:abc"))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
	assert.True(t, msgs[2].IsAudio())
}

func TestStore_MessagesIsACopy(t *testing.T) {
	s := NewStore(UserText("hello"))

	msgs := s.Messages()
	msgs[0].Text = "changed"

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "hello", last.Text)
}

func TestStore_HistoryEmptyBeforeFirstTurn(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
	}{
		{name: "greeting only", setup: func(*Store) {}},
		{name: "greeting and question", setup: func(s *Store) { s.Append(UserText("Hi")) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession()
			tc.setup(s)

			w := s.History()
			assert.True(t, w.Empty())
			assert.Empty(t, w.Pairs())
		})
	}
}

func TestStore_HistoryTracksLastTwoMessages(t *testing.T) {
	s := NewSession()
	s.Append(UserText("Hi"))
	s.Append(AssistantText("Hello! Ask me anything."))

	w := s.History()
	require.False(t, w.Empty())
	assert.Equal(t, [][2]string{{"Hi", "Hello! Ask me anything."}}, w.Pairs())

	s.Append(UserText("When is the exam?"))
	s.Append(AssistantText("In June."))

	assert.Equal(t, [][2]string{{"When is the exam?", "In June."}}, s.History().Pairs())
}

func TestStore_PendingMessageStaysOutOfHistory(t *testing.T) {
	s := NewStore(
		AssistantText(Greeting),
		UserText("Hi"),
		AssistantText("Hi there! How can I help?"),
	)
	before := s.History()

	s.AppendPending(UserText("What is the admission deadline?"))

	assert.Equal(t, before, s.History())
	assert.Equal(t, 4, s.Len())

	s.Append(AssistantText("July 15."))
	assert.Equal(t, [][2]string{{"What is the admission deadline?", "July 15."}}, s.History().Pairs())
}

func TestStore_EffectsRunOnEveryMutation(t *testing.T) {
	s := NewSession()

	var scrolled, focused int
	s.Subscribe(func(Message) { scrolled++ })
	s.Subscribe(func(Message) { focused++ })

	s.AppendPending(UserText("q"))
	s.Append(AssistantText("a"))

	assert.Equal(t, 2, scrolled)
	assert.Equal(t, 2, focused)
}

func TestStore_EffectMayReadStore(t *testing.T) {
	s := NewSession()

	var seen int
	s.Subscribe(func(Message) { seen = s.Len() })
	s.Append(UserText("q"))

	assert.Equal(t, 2, seen)
}

func TestStore_LastOnEmpty(t *testing.T) {
	_, ok := NewStore().Last()
	assert.False(t, ok)
}
