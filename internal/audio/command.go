package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// DefaultRecordCommand captures CD-quality WAV from the default ALSA device
var DefaultRecordCommand = []string{"arecord", "-q", "-f", "cd", "-t", "wav", "-"}

const (
	readBufferSize = 4096
	stopGrace      = 2 * time.Second
)

// CommandCapability records by running an external program that writes
// audio to stdout. Acquire starts the program, which opens the device;
// Release terminates it.
type CommandCapability struct {
	argv []string
	mime string
}

// NewCommandCapability creates a capability running argv
func NewCommandCapability(argv []string, mime string) *CommandCapability {
	if len(argv) == 0 {
		argv = DefaultRecordCommand
	}
	if mime == "" {
		mime = "audio/wav"
	}
	return &CommandCapability{argv: argv, mime: mime}
}

// MIMEType returns the configured MIME type
func (c *CommandCapability) MIMEType() string {
	return c.mime
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser

	mu      sync.Mutex
	started bool
	done    chan struct{}
	exited  bool
}

func (s *commandStream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.exited
}

func (s *commandStream) wait() {
	// A non-zero exit after an interrupt is expected.
	_ = s.cmd.Wait()
	s.mu.Lock()
	s.exited = true
	s.mu.Unlock()
	close(s.done)
}

// Acquire starts the recorder program
func (c *CommandCapability) Acquire(ctx context.Context) (Stream, error) {
	path, err := exec.LookPath(c.argv[0])
	if err != nil {
		return nil, fmt.Errorf("recorder %q not found: %w", c.argv[0], err)
	}

	cmd := exec.Command(path, c.argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open recorder output: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start recorder: %w", err)
	}
	return &commandStream{cmd: cmd, stdout: stdout, done: make(chan struct{})}, nil
}

type commandRecorder struct {
	stream *commandStream
	read   chan struct{}
}

// Start pumps the recorder output into sink until the program exits
func (c *CommandCapability) Start(stream Stream, sink Sink) (Recorder, error) {
	s, ok := stream.(*commandStream)
	if !ok {
		return nil, fmt.Errorf("unexpected stream type %T", stream)
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, errors.New("recorder already started on this stream")
	}
	s.started = true
	s.mu.Unlock()

	r := &commandRecorder{stream: s, read: make(chan struct{})}
	go func() {
		buf := make([]byte, readBufferSize)
		for {
			n, err := s.stdout.Read(buf)
			if n > 0 {
				sink(buf[:n])
			}
			if err != nil {
				break
			}
		}
		close(r.read)
		// Wait must follow the last read of stdout.
		s.wait()
	}()
	return r, nil
}

// Stop interrupts the program and waits for its remaining output
func (r *commandRecorder) Stop() error {
	if r.stream.Active() {
		if err := r.stream.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to interrupt recorder: %w", err)
		}
	}

	select {
	case <-r.read:
		return nil
	case <-time.After(stopGrace):
		_ = r.stream.cmd.Process.Kill()
		<-r.read
		return fmt.Errorf("recorder did not stop within %s", stopGrace)
	}
}

// Release kills the program if it is still running and reaps it
func (c *CommandCapability) Release(stream Stream) error {
	s, ok := stream.(*commandStream)
	if !ok {
		return fmt.Errorf("unexpected stream type %T", stream)
	}
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if !started {
		_ = s.cmd.Process.Kill()
		s.wait()
		return nil
	}
	if s.Active() {
		_ = s.cmd.Process.Kill()
	}

	select {
	case <-s.done:
	case <-time.After(stopGrace):
		return fmt.Errorf("recorder process did not exit")
	}
	return nil
}
