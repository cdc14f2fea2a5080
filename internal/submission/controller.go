// Package submission drives one request/response turn against the answer
// service: input validation, the optimistic user message, the single network
// call and its resolution into exactly one assistant message.
package submission

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"fiihelp/internal/answer"
	"fiihelp/internal/conversation"
)

// RetryMessage is appended in place of an answer when a turn fails
const RetryMessage = "Oops! There seems to be an error. Please try again."

// State of the controller
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Asker sends one question to the answer service
type Asker interface {
	Ask(ctx context.Context, req answer.Request) (string, error)
}

// Input is the text surface the user types into
type Input interface {
	Reset()
	SetFrozen(frozen bool)
}

// Turn is one in-flight submission
type Turn struct {
	Question string
	History  conversation.HistoryWindow
	seq      uint64
}

// Request returns the wire payload for the turn
func (t *Turn) Request() answer.Request {
	return answer.Request{
		Question: t.Question,
		History:  t.History.Pairs(),
	}
}

// Controller serializes turns: at most one request is outstanding
type Controller struct {
	mu     sync.Mutex
	state  State
	seq    uint64
	store  *conversation.Store
	asker  Asker
	input  Input
	logger *zap.Logger
}

// NewController creates a controller writing into store.
// input may be nil when there is no editable surface.
func NewController(store *conversation.Store, asker Asker, input Input, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:  store,
		asker:  asker,
		input:  input,
		logger: logger,
	}
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submitting reports whether a turn is in flight
func (c *Controller) Submitting() bool {
	return c.State() == StateSubmitting
}

// Begin starts a turn for raw input. It returns false, changing nothing,
// for blank input or while another turn is in flight.
func (c *Controller) Begin(raw string) (*Turn, bool) {
	question := strings.TrimSpace(raw)
	if question == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		c.logger.Debug("submission ignored, turn in flight")
		return nil, false
	}
	c.state = StateSubmitting
	c.seq++
	// The window is captured before the new message lands.
	turn := &Turn{
		Question: question,
		History:  c.store.History(),
		seq:      c.seq,
	}
	c.mu.Unlock()

	c.store.AppendPending(conversation.UserText(raw))
	if c.input != nil {
		c.input.Reset()
		c.input.SetFrozen(true)
	}
	return turn, true
}

// Execute issues the single request for turn
func (c *Controller) Execute(ctx context.Context, turn *Turn) (string, error) {
	return c.asker.Ask(ctx, turn.Request())
}

// Complete resolves turn with the outcome of Execute and returns to idle.
// Completing a turn that is not the one in flight does nothing.
func (c *Controller) Complete(turn *Turn, text string, err error) {
	c.mu.Lock()
	if c.state != StateSubmitting || turn == nil || turn.seq != c.seq {
		c.mu.Unlock()
		return
	}
	// Invalidate the turn so a repeated Complete is a no-op.
	c.seq++
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("turn failed", zap.Error(err))
		c.store.Append(conversation.AssistantText(RetryMessage))
	} else {
		c.store.Append(conversation.AssistantText(text))
	}

	if c.input != nil {
		if err != nil {
			c.input.Reset()
		}
		c.input.SetFrozen(false)
	}

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}

// Submit runs a whole turn synchronously.
// It returns false when the input was rejected.
func (c *Controller) Submit(ctx context.Context, raw string) bool {
	turn, ok := c.Begin(raw)
	if !ok {
		return false
	}
	text, err := c.Execute(ctx, turn)
	c.Complete(turn, text, err)
	return true
}
