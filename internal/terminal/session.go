package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"fiihelp/internal/audio"
	"fiihelp/internal/conversation"
	"fiihelp/internal/render"
	"fiihelp/internal/submission"
)

const waitingMessage = "Waiting for response..."

// Session is a line-mode chat. Every store mutation prints the new entry, so
// the newest message is always the last thing on screen.
type Session struct {
	store     *conversation.Store
	submit    *submission.Controller
	capture   *audio.Controller
	bodies    *render.Display
	exporter  *render.HTML
	linker    render.Linker
	exportDir string
	logger    *zap.Logger

	display *Display
	reader  *Reader
}

// SessionConfig holds the collaborators of a line-mode session
type SessionConfig struct {
	Store     *conversation.Store
	Asker     submission.Asker
	Capture   *audio.Controller
	Bodies    *render.Display
	Exporter  *render.HTML
	Linker    render.Linker
	ExportDir string
	Logger    *zap.Logger
	In        io.Reader
	Out       io.Writer
}

// NewSession creates a line-mode session
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Session{
		store:     cfg.Store,
		capture:   cfg.Capture,
		bodies:    cfg.Bodies,
		exporter:  cfg.Exporter,
		linker:    cfg.Linker,
		exportDir: cfg.ExportDir,
		logger:    cfg.Logger,
		display:   NewDisplay(cfg.Out),
		reader:    NewReader(cfg.In),
	}
	s.submit = submission.NewController(cfg.Store, cfg.Asker, lineInput{d: s.display}, cfg.Logger)
	cfg.Store.Subscribe(s.print)
	return s
}

// lineInput maps the frozen state of the prompt onto the waiting spinner.
// A submitted line is already consumed, so there is nothing to reset.
type lineInput struct {
	d *Display
}

func (lineInput) Reset() {}

func (l lineInput) SetFrozen(frozen bool) {
	if frozen {
		l.d.ShowSpinner(waitingMessage)
		return
	}
	l.d.StopSpinner()
}

// Run reads and handles lines until /exit, end of input or ctx is done
func (s *Session) Run(ctx context.Context) error {
	s.display.PrintWelcome()
	for _, msg := range s.store.Messages() {
		s.print(msg)
	}
	defer s.display.PrintGoodbye()

	for {
		if ctx.Err() != nil {
			return nil
		}
		s.display.PrintPrompt()
		line, err := s.reader.ReadUserInput()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		cmd, arg := ParseCommand(line)
		switch cmd {
		case CmdExit:
			return nil
		case CmdNone:
			s.submit.Submit(ctx, line)
		default:
			s.handleCommand(ctx, cmd, arg)
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, cmd Command, arg string) {
	switch cmd {
	case CmdHistory:
		s.printHistory()

	case CmdRecord:
		if s.capture == nil {
			s.display.PrintWarning("Recording is not available")
			return
		}
		err := s.capture.Start(ctx)
		switch {
		case err == nil:
			s.display.PrintInfo("Recording... type /stop to finish")
		case errors.Is(err, audio.ErrBusy):
			s.display.PrintWarning("Already recording")
		case errors.Is(err, audio.ErrUnavailable):
			// The failure is already in the conversation.
			s.logger.Debug("recording not started", zap.Error(err))
		default:
			s.display.PrintError(err)
		}

	case CmdStop:
		if s.capture == nil {
			s.display.PrintWarning("Recording is not available")
			return
		}
		if _, err := s.capture.Stop(); err != nil {
			if errors.Is(err, audio.ErrNotRecording) {
				s.display.PrintWarning("Not recording")
				return
			}
			s.display.PrintError(err)
		}

	case CmdExport:
		path := arg
		if path == "" {
			path = filepath.Join(s.exportDir, fmt.Sprintf("fiihelp-%s.html", time.Now().Format("20060102-150405")))
		}
		if err := s.export(path); err != nil {
			s.display.PrintError(err)
			return
		}
		s.display.PrintSuccess("Transcript saved to " + path)

	case CmdHelp:
		s.display.PrintInfo("Type a question and press enter. Commands: /record /stop /history /export [file] /exit")

	case CmdUnknown:
		s.display.PrintWarning(fmt.Sprintf("Unknown command %s, try /help", arg))
	}
}

func (s *Session) print(msg conversation.Message) {
	body := msg.Text
	if s.bodies != nil {
		body = s.bodies.Body(msg)
	}
	s.display.PrintMessage(msg, body)
}

func (s *Session) printHistory() {
	msgs := s.store.Messages()
	s.display.PrintInfo(fmt.Sprintf("%d messages", len(msgs)))
	for _, msg := range msgs {
		s.print(msg)
	}
}

func (s *Session) export(path string) error {
	if s.exporter == nil {
		return errors.New("export is not available")
	}
	var lookup render.ArtifactLookup
	if s.capture != nil {
		lookup = s.capture.Artifact
	}
	return render.SaveTranscript(path, "FiiHelp", s.store.Messages(), s.exporter, s.linker, lookup)
}
