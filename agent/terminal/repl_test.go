package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type echoDialogue struct {
	turns []string
	ended []string
	err   error
}

func (e *echoDialogue) HandleTurn(ctx context.Context, sessionID string, text string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.turns = append(e.turns, text)
	return "echo: " + text, nil
}

func (e *echoDialogue) EndSession(ctx context.Context, sessionID string) error {
	e.ended = append(e.ended, sessionID)
	return nil
}

func TestREPLRunsUntilExit(t *testing.T) {
	t.Parallel()

	d := &echoDialogue{}
	in := strings.NewReader("show me beauty products\n\n  y  \nexit\nignored\n")
	var out bytes.Buffer

	if err := NewWithIO(d, "term-1", in, &out).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(d.turns) != 2 || d.turns[0] != "show me beauty products" || d.turns[1] != "y" {
		t.Fatalf("turns = %q", d.turns)
	}
	if len(d.ended) != 1 || d.ended[0] != "term-1" {
		t.Fatalf("ended = %q, want term-1", d.ended)
	}

	got := out.String()
	for _, want := range []string{Greeting, "assistant> echo: y", "Goodbye!"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output = %q, want %q", got, want)
		}
	}
	if strings.Contains(got, "you> ") {
		t.Fatal("prompt must not be printed for non-terminal input")
	}
}

func TestREPLEndOfInputEndsSession(t *testing.T) {
	t.Parallel()

	d := &echoDialogue{}
	var out bytes.Buffer
	if err := NewWithIO(d, "term-2", strings.NewReader("hello"), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(d.turns) != 1 || len(d.ended) != 1 {
		t.Fatalf("turns=%q ended=%q", d.turns, d.ended)
	}
}

func TestREPLReturnsTurnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	d := &echoDialogue{err: boom}
	err := NewWithIO(d, "term-3", strings.NewReader("hello\n"), &bytes.Buffer{}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want boom", err)
	}
	if len(d.ended) != 1 {
		t.Fatal("session must be ended after a failed turn")
	}
}
