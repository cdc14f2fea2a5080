package terminal

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Command is a slash command typed at the prompt
type Command int

const (
	CmdNone Command = iota
	CmdExit
	CmdHistory
	CmdRecord
	CmdStop
	CmdExport
	CmdHelp
	CmdUnknown
)

// Reader reads user input one line at a time
type Reader struct {
	r *bufio.Reader
}

// NewReader creates a line reader over in
func NewReader(in io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(in)}
}

// ReadUserInput reads a line of input from the user. A final line without a
// newline is still returned; io.EOF is reported only once input is exhausted.
func (r *Reader) ReadUserInput() (string, error) {
	input, err := r.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimRight(input, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// ParseCommand recognizes slash commands. Anything else is CmdNone and is
// submitted as a question. The remainder after the command word is returned
// as its argument.
func ParseCommand(line string) (Command, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		if trimmed == "exit" || trimmed == "quit" {
			return CmdExit, ""
		}
		return CmdNone, ""
	}

	word, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(word) {
	case "/exit", "/quit":
		return CmdExit, ""
	case "/history":
		return CmdHistory, ""
	case "/record":
		return CmdRecord, ""
	case "/stop":
		return CmdStop, ""
	case "/export":
		return CmdExport, arg
	case "/help":
		return CmdHelp, ""
	default:
		return CmdUnknown, word
	}
}
