// Package prompt wraps readline for the interactive session. Ctrl+C and
// Ctrl+D are reduced to empty input, which the session loop treats as
// "stop", so an interrupt never crashes a half-finished batch.
package prompt

import (
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// Prompter reads user input lines.
type Prompter struct {
	rl *readline.Instance
}

// New returns a Prompter reading from the controlling terminal.
func New() (*Prompter, error) {
	rl, err := readline.New("")
	if err != nil {
		return nil, err
	}
	return &Prompter{rl: rl}, nil
}

// Close releases the terminal.
func (p *Prompter) Close() error {
	return p.rl.Close()
}

// Ask displays the label and returns the trimmed input line. EOF and
// interrupt yield "".
func (p *Prompter) Ask(label string) string {
	p.rl.SetPrompt(label)
	line, err := p.rl.Readline()
	if err != nil {
		// EOF and Ctrl-C both end the session cleanly.
		return ""
	}
	return strings.TrimSpace(line)
}

// StdinIsTerminal reports whether stdin is an interactive terminal. When it
// is not (piped input), the session consumes stdin as pasted batch text
// instead of prompting.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
