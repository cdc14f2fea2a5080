package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiihelp/internal/answer"
	"fiihelp/internal/conversation"
	"fiihelp/internal/render"
	"fiihelp/internal/submission"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		wantCmd Command
		wantArg string
	}{
		{"When is the exam?", CmdNone, ""},
		{"  /exit ", CmdExit, ""},
		{"/QUIT", CmdExit, ""},
		{"quit", CmdExit, ""},
		{"/history", CmdHistory, ""},
		{"/record", CmdRecord, ""},
		{"/stop", CmdStop, ""},
		{"/export", CmdExport, ""},
		{"/export  out/chat.html ", CmdExport, "out/chat.html"},
		{"/help", CmdHelp, ""},
		{"/frobnicate now", CmdUnknown, "/frobnicate"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, arg := ParseCommand(tt.line)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestReader_ReadUserInput(t *testing.T) {
	r := NewReader(strings.NewReader("first line\r\n  second  \nlast"))

	line, err := r.ReadUserInput()
	require.NoError(t, err)
	assert.Equal(t, "first line", line)

	line, err = r.ReadUserInput()
	require.NoError(t, err)
	assert.Equal(t, "  second  ", line)

	line, err = r.ReadUserInput()
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = r.ReadUserInput()
	assert.ErrorIs(t, err, io.EOF)
}

type stubAsker struct {
	answers  []string
	err      error
	requests []answer.Request
}

func (s *stubAsker) Ask(_ context.Context, req answer.Request) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func runSession(t *testing.T, asker *stubAsker, input string, dir string) (*conversation.Store, string) {
	t.Helper()
	store := conversation.NewSession()
	var out bytes.Buffer
	s := NewSession(SessionConfig{
		Store:     store,
		Asker:     asker,
		Exporter:  render.NewHTML(),
		ExportDir: dir,
		In:        strings.NewReader(input),
		Out:       &out,
	})
	require.NoError(t, s.Run(context.Background()))
	return store, out.String()
}

func TestSession_AsksAndPrintsAnswers(t *testing.T) {
	asker := &stubAsker{answers: []string{"Classes start Monday.", "In room C2."}}

	store, out := runSession(t, asker, "When do classes start?\n\nWhere?\n/exit\nignored\n", t.TempDir())

	msgs := store.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, "Where?", msgs[3].Text)
	assert.Equal(t, "In room C2.", msgs[4].Text)

	require.Len(t, asker.requests, 2)
	assert.Empty(t, asker.requests[0].History)
	assert.Equal(t, [][2]string{{"When do classes start?", "Classes start Monday."}}, asker.requests[1].History)

	assert.Contains(t, out, conversation.Greeting)
	assert.Contains(t, out, "Classes start Monday.")
	assert.Contains(t, out, "Goodbye")
}

func TestSession_FailureAppendsRetryMessage(t *testing.T) {
	asker := &stubAsker{err: errors.New("connection refused")}

	store, out := runSession(t, asker, "hello\n", t.TempDir())

	last, ok := store.Last()
	require.True(t, ok)
	assert.Equal(t, submission.RetryMessage, last.Text)
	assert.Contains(t, out, submission.RetryMessage)
}

func TestSession_Commands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.html")

	store, out := runSession(t, &stubAsker{}, "/record\n/stop\n/history\n/nope\n/export "+path+"\n", dir)

	assert.Equal(t, 1, store.Len())
	assert.Contains(t, out, "Recording is not available")
	assert.Contains(t, out, "1 messages")
	assert.Contains(t, out, "Unknown command /nope")
	assert.Contains(t, out, "Transcript saved to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), conversation.Greeting)
}

func TestDisplay_SpinnerStopsBeforeMessage(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	d.ShowSpinner("Waiting")
	d.PrintMessage(conversation.AssistantText("done"), "done")
	d.StopSpinner()

	s := out.String()
	assert.Contains(t, s, "Waiting")
	assert.True(t, strings.HasSuffix(strings.TrimRight(s, "\n"), "└"))
}

func TestDisplay_GoodbyeStopsSpinner(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	d.ShowSpinner("Waiting")
	d.PrintGoodbye()

	assert.Nil(t, d.spinnerDone)
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye! 👋\n"))
}
