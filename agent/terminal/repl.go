// Package terminal runs the shopping assistant as a line-oriented chat in a terminal.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const Greeting = "Hi! I can help you find products, manage your cart and check out. Type \"exit\" to leave."

// Dialogue is the turn handler the terminal talks to.
type Dialogue interface {
	HandleTurn(ctx context.Context, sessionID string, text string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

type REPL struct {
	dialogue  Dialogue
	sessionID string
	in        io.Reader
	out       io.Writer
	prompt    bool
}

// New builds a REPL over stdin/stdout. The input prompt is shown only when
// both ends are a terminal, so piped transcripts stay clean.
func New(d Dialogue, sessionID string) *REPL {
	return &REPL{
		dialogue:  d,
		sessionID: sessionID,
		in:        os.Stdin,
		out:       os.Stdout,
		prompt:    isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}
}

// NewWithIO is New over arbitrary streams, without the input prompt.
func NewWithIO(d Dialogue, sessionID string, in io.Reader, out io.Writer) *REPL {
	return &REPL{dialogue: d, sessionID: sessionID, in: in, out: out}
}

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func isExit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit", "bye":
		return true
	}
	return false
}

// Run reads one utterance per line until exit, end of input or ctx is done.
// The session is ended on the way out.
func (r *REPL) Run(ctx context.Context) (err error) {
	defer func() {
		endErr := r.dialogue.EndSession(context.WithoutCancel(ctx), r.sessionID)
		err = errors.Join(err, endErr)
	}()

	if _, err := fmt.Fprintln(r.out, Greeting); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.prompt {
			fmt.Fprint(r.out, "you> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isExit(line) {
			_, err := fmt.Fprintln(r.out, "Goodbye!")
			return err
		}

		reply, err := r.dialogue.HandleTurn(ctx, r.sessionID, line)
		if err != nil {
			return fmt.Errorf("handle turn: %w", err)
		}
		if _, err := fmt.Fprintf(r.out, "assistant> %s\n", reply); err != nil {
			return err
		}
	}
}
