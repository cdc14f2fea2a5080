// Package audio manages microphone capture as an input mode: acquiring the
// device, buffering chunks while recording, and turning a finished recording
// into an audio message in the conversation.
package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"fiihelp/internal/conversation"
)

// FailureMessage is appended when the microphone cannot be used
const FailureMessage = "Failed to access microphone. Please check permissions."

var (
	ErrBusy         = errors.New("a recording is already in progress")
	ErrNotRecording = errors.New("not recording")
	ErrUnavailable  = errors.New("microphone unavailable")
	ErrClosed       = errors.New("capture controller closed")
)

// State of the capture controller
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// session is the resource bundle alive while recording
type session struct {
	stream   Stream
	recorder Recorder
	chunks   [][]byte
	stopping bool
	stopTick chan struct{}
	tickDone chan struct{}
}

// Option configures a Controller
type Option func(*Controller)

// WithTickInterval overrides the one-second elapsed counter period
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.tickInterval = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller owns at most one recording session at a time
type Controller struct {
	mu           sync.Mutex
	state        State
	session      *session
	elapsed      int
	closed       bool
	artifacts    map[string]Artifact
	capability   Capability
	store        *conversation.Store
	tickInterval time.Duration
	logger       *zap.Logger
}

// NewController creates a capture controller appending into store
func NewController(capability Capability, store *conversation.Store, opts ...Option) *Controller {
	c := &Controller{
		capability:   capability,
		store:        store,
		artifacts:    make(map[string]Artifact),
		tickInterval: time.Second,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Recording reports whether a session is active
func (c *Controller) Recording() bool {
	return c.State() == StateRecording
}

// Elapsed returns the whole seconds recorded so far
func (c *Controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Artifact resolves a reference produced by Stop
func (c *Controller) Artifact(ref string) (Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.artifacts[ref]
	return a, ok
}

// Start acquires the microphone and begins recording.
// Acquisition failures append FailureMessage and leave the controller idle.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateAcquiring
	c.mu.Unlock()

	stream, err := c.capability.Acquire(ctx)
	if err != nil {
		return c.fail(nil, fmt.Errorf("acquire: %w", err))
	}

	sess := &session{stream: stream}

	c.mu.Lock()
	if c.closed {
		c.state = StateIdle
		c.mu.Unlock()
		c.release(stream)
		return ErrClosed
	}
	c.session = sess
	c.mu.Unlock()

	recorder, err := c.capability.Start(stream, func(chunk []byte) {
		c.onChunk(sess, chunk)
	})
	if err != nil {
		return c.fail(stream, fmt.Errorf("start recorder: %w", err))
	}

	c.mu.Lock()
	if c.closed {
		c.session = nil
		c.state = StateIdle
		c.mu.Unlock()
		_ = recorder.Stop()
		c.release(stream)
		return ErrClosed
	}
	sess.recorder = recorder
	sess.stopTick = make(chan struct{})
	sess.tickDone = make(chan struct{})
	c.elapsed = 0
	c.state = StateRecording
	c.mu.Unlock()

	go c.runTicker(sess)

	c.logger.Info("recording started", zap.String("mime", c.capability.MIMEType()))
	return nil
}

// fail returns to idle after an acquisition error and reports it in the conversation
func (c *Controller) fail(stream Stream, err error) error {
	c.mu.Lock()
	c.session = nil
	c.state = StateIdle
	c.mu.Unlock()

	if stream != nil {
		c.release(stream)
	}

	c.logger.Warn("microphone access failed", zap.Error(err))
	c.store.Append(conversation.AssistantText(FailureMessage))
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *Controller) onChunk(sess *session, chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != sess {
		return
	}
	sess.chunks = append(sess.chunks, buf)
}

func (c *Controller) runTicker(sess *session) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()
	defer close(sess.tickDone)

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			if c.session == sess && !sess.stopping {
				c.elapsed++
			}
			c.mu.Unlock()
		case <-sess.stopTick:
			return
		}
	}
}

// Stop ends the recording and appends one audio message referencing the
// assembled artifact.
func (c *Controller) Stop() (Artifact, error) {
	return c.finish(true)
}

// Close tears the controller down. An active recording is stopped and its
// resources released without adding anything to the conversation.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	recording := c.state == StateRecording && c.session != nil && !c.session.stopping
	c.mu.Unlock()

	if !recording {
		return nil
	}
	_, err := c.finish(false)
	if errors.Is(err, ErrNotRecording) {
		return nil
	}
	return err
}

func (c *Controller) finish(emit bool) (Artifact, error) {
	c.mu.Lock()
	sess := c.session
	if c.state != StateRecording || sess == nil || sess.stopping {
		c.mu.Unlock()
		return Artifact{}, ErrNotRecording
	}
	sess.stopping = true
	c.mu.Unlock()

	// The recorder may flush remaining chunks through the sink here.
	stopErr := sess.recorder.Stop()
	close(sess.stopTick)
	<-sess.tickDone

	c.mu.Lock()
	chunks := sess.chunks
	elapsed := c.elapsed
	c.session = nil
	c.elapsed = 0
	c.state = StateIdle
	c.mu.Unlock()

	relErr := c.release(sess.stream)

	artifact := assemble(chunks, c.capability.MIMEType(), elapsed)
	if stopErr != nil {
		c.logger.Warn("recorder stop failed", zap.Error(stopErr))
	}

	if !emit {
		c.logger.Info("recording discarded on teardown", zap.Int("chunks", artifact.Chunks))
		return artifact, errors.Join(stopErr, relErr)
	}

	c.mu.Lock()
	c.artifacts[artifact.Ref] = artifact
	c.mu.Unlock()

	c.store.Append(conversation.UserAudio(artifact.Ref))
	c.logger.Info("recording finished",
		zap.String("ref", artifact.Ref),
		zap.Int("chunks", artifact.Chunks),
		zap.Int("bytes", artifact.Size()),
		zap.Int("seconds", elapsed),
	)
	return artifact, errors.Join(stopErr, relErr)
}

func (c *Controller) release(stream Stream) error {
	if err := c.capability.Release(stream); err != nil {
		c.logger.Warn("release stream failed", zap.Error(err))
		return fmt.Errorf("release: %w", err)
	}
	return nil
}
