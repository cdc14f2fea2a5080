// Package ui is the interactive chat surface built on Bubble Tea. It wires the
// conversation store, the submission and capture controllers and the
// renderers into one event loop.
package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fiihelp/internal/audio"
	"fiihelp/internal/autosize"
	"fiihelp/internal/conversation"
	"fiihelp/internal/render"
	"fiihelp/internal/submission"
)

const (
	placeholderReady   = "Type your question..."
	placeholderWaiting = "Waiting for response..."

	headerHeight = 2
	statusHeight = 1
	frameHeight  = 2

	recordRefresh = 500 * time.Millisecond
)

// Messages for tea updates
type (
	turnDoneMsg struct {
		turn *submission.Turn
		text string
		err  error
	}
	recordStartedMsg struct{ err error }
	recordStoppedMsg struct {
		artifact audio.Artifact
		err      error
	}
	recordTickMsg struct{}
	exportedMsg   struct {
		path string
		err  error
	}
)

// Deps are the components the chat surface drives
type Deps struct {
	Store     *conversation.Store
	Asker     submission.Asker
	Capture   *audio.Controller
	Display   *render.Display
	Exporter  *render.HTML
	Linker    render.Linker
	ExportDir string
	Logger    *zap.Logger
}

// Model is the chat surface
type Model struct {
	ctx context.Context

	store     *conversation.Store
	submit    *submission.Controller
	capture   *audio.Controller
	display   *render.Display
	exporter  *render.HTML
	linker    render.Linker
	exportDir string
	logger    *zap.Logger

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles
	sizer    autosize.Controller

	width    int
	height   int
	ready    bool
	frozen   bool
	status   string
	rendered []string

	scrollPending atomic.Bool
	focusPending  atomic.Bool
}

// New creates the chat surface. The store's mutation effects are registered
// here: scroll to the newest message and refocus the input.
func New(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = placeholderReady
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.SetHeight(1)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:       ctx,
		store:     deps.Store,
		capture:   deps.Capture,
		display:   deps.Display,
		exporter:  deps.Exporter,
		linker:    deps.Linker,
		exportDir: deps.ExportDir,
		logger:    deps.Logger,
		input:     ta,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		styles:    DefaultStyles(),
	}
	m.submit = submission.NewController(deps.Store, deps.Asker, inputSurface{m: m}, deps.Logger)

	deps.Store.Subscribe(func(conversation.Message) { m.scrollPending.Store(true) })
	deps.Store.Subscribe(func(conversation.Message) { m.focusPending.Store(true) })
	m.scrollPending.Store(true)

	return m
}

// inputSurface lets the submission controller clear and freeze the textarea
type inputSurface struct {
	m *Model
}

func (s inputSurface) Reset() {
	s.m.input.Reset()
	s.m.fitInput()
}

func (s inputSurface) SetFrozen(frozen bool) {
	s.m.frozen = frozen
	if frozen {
		s.m.input.Blur()
		s.m.input.Placeholder = placeholderWaiting
		return
	}
	s.m.input.Placeholder = placeholderReady
	s.m.input.Focus()
}

// Init starts the cursor blink
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles one event to completion
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, handled := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if !handled && !m.frozen {
			var taCmd tea.Cmd
			m.input, taCmd = m.input.Update(msg)
			cmds = append(cmds, taCmd)
			m.fitInput()
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case turnDoneMsg:
		m.submit.Complete(msg.turn, msg.text, msg.err)

	case recordStartedMsg:
		m.status = ""
		if msg.err != nil {
			m.logger.Debug("recording not started", zap.Error(msg.err))
		} else {
			cmds = append(cmds, recordTick())
		}

	case recordStoppedMsg:
		m.status = ""
		if msg.err != nil {
			m.logger.Warn("recording stopped with errors", zap.Error(msg.err))
		}

	case recordTickMsg:
		if m.capture != nil && m.capture.Recording() {
			cmds = append(cmds, recordTick())
		}

	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
			m.logger.Warn("transcript export failed", zap.Error(msg.err))
		} else {
			m.status = "Transcript saved to " + msg.path
		}

	case spinner.TickMsg:
		if m.submit.Submitting() {
			var spCmd tea.Cmd
			m.spinner, spCmd = m.spinner.Update(msg)
			cmds = append(cmds, spCmd)
		}

	default:
		if !m.frozen {
			var taCmd tea.Cmd
			m.input, taCmd = m.input.Update(msg)
			cmds = append(cmds, taCmd)
		}
	}

	m.applyEffects()

	var vpCmd tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.viewport, vpCmd = m.viewport.Update(msg)
	}
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes shortcuts. handled reports whether the key was consumed.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit, true

	case "enter":
		return m.submitInput(), true

	case "ctrl+r":
		return m.toggleRecording(), true

	case "ctrl+e":
		return m.exportTranscript(), true

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, true
	}
	return nil, false
}

// submitInput starts a turn. Blank input and input while a turn is in flight
// are swallowed.
func (m *Model) submitInput() tea.Cmd {
	if m.frozen {
		return nil
	}
	turn, ok := m.submit.Begin(m.input.Value())
	if !ok {
		return nil
	}

	ctx := m.ctx
	submit := m.submit
	return tea.Batch(
		func() tea.Msg {
			text, err := submit.Execute(ctx, turn)
			return turnDoneMsg{turn: turn, text: text, err: err}
		},
		m.spinner.Tick,
	)
}

func (m *Model) toggleRecording() tea.Cmd {
	if m.capture == nil || m.submit.Submitting() {
		return nil
	}

	capture := m.capture
	switch capture.State() {
	case audio.StateRecording:
		m.status = "Finishing recording..."
		return func() tea.Msg {
			artifact, err := capture.Stop()
			return recordStoppedMsg{artifact: artifact, err: err}
		}
	case audio.StateIdle:
		m.status = "Requesting microphone..."
		ctx := m.ctx
		return func() tea.Msg {
			return recordStartedMsg{err: capture.Start(ctx)}
		}
	default:
		return nil
	}
}

func (m *Model) exportTranscript() tea.Cmd {
	if m.exporter == nil {
		return nil
	}
	msgs := m.store.Messages()
	dir := m.exportDir
	exporter := m.exporter
	l := m.linker
	var lookup render.ArtifactLookup
	if m.capture != nil {
		lookup = m.capture.Artifact
	}

	return func() tea.Msg {
		path := filepath.Join(dir, fmt.Sprintf("fiihelp-%s.html", time.Now().Format("20060102-150405")))
		err := render.SaveTranscript(path, "FiiHelp", msgs, exporter, l, lookup)
		return exportedMsg{path: path, err: err}
	}
}

func recordTick() tea.Cmd {
	return tea.Tick(recordRefresh, func(time.Time) tea.Msg { return recordTickMsg{} })
}

// applyEffects runs the store's pending mutation effects
func (m *Model) applyEffects() {
	if m.scrollPending.Swap(false) {
		m.refreshContent()
		m.viewport.GotoBottom()
	}
	if m.focusPending.Swap(false) && !m.frozen {
		m.input.Focus()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.input.SetWidth(max(width-4, 10))
	if m.display != nil {
		if err := m.display.SetWidth(width - 6); err != nil {
			m.logger.Warn("renderer resize failed", zap.Error(err))
		}
	}
	m.rendered = nil
	m.fitInput()
	m.refreshContent()
	m.viewport.GotoBottom()
}

// fitInput grows or shrinks the input to its content and gives the rest of
// the screen to the message list
func (m *Model) fitInput() {
	m.sizer.Fit(&m.input)
	if !m.ready {
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-headerHeight-statusHeight-frameHeight-m.input.Height(), 1)
}

// refreshContent renders messages not rendered yet. Messages are immutable,
// so earlier renders stay valid until the width changes.
func (m *Model) refreshContent() {
	msgs := m.store.Messages()
	for i := len(m.rendered); i < len(msgs); i++ {
		m.rendered = append(m.rendered, m.renderMessage(msgs[i]))
	}
	m.viewport.SetContent(strings.Join(m.rendered, "\n\n"))
}

func (m *Model) renderMessage(msg conversation.Message) string {
	label := m.styles.BotLabel.Render("FiiHelp")
	if msg.Role == conversation.RoleUser {
		label = m.styles.UserLabel.Render("You")
	}
	header := m.styles.Gutter.Render("┌─ ") + label + m.styles.Subtle.Render(" · "+msg.Timestamp.Format("15:04:05"))

	body := msg.Text
	if m.display != nil {
		body = m.display.Body(msg)
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = m.styles.Gutter.Render("│ ") + line
	}
	return header + "\n" + strings.Join(lines, "\n") + "\n" + m.styles.Gutter.Render("└")
}
