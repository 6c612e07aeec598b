package interpreter

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

var (
	affirmatives = map[string]struct{}{
		"y": {}, "yes": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {}, "okay": {}, "confirm": {}, "do it": {},
	}
	negatives = map[string]struct{}{
		"n": {}, "no": {}, "nope": {}, "cancel": {}, "stop": {}, "never mind": {}, "nevermind": {},
	}
)

type shortcutInterpreter struct {
	next contractx.Interpreter
}

// WithShortcuts answers bare yes/no replies locally and defers everything else to next.
func WithShortcuts(next contractx.Interpreter) contractx.Interpreter {
	return &shortcutInterpreter{next: next}
}

func (s *shortcutInterpreter) Interpret(ctx context.Context, req contractx.InterpretRequest) (contractx.Intent, error) {
	word := strings.ToLower(strings.TrimSpace(req.Utterance))
	word = strings.TrimRight(word, ".!")
	if _, ok := affirmatives[word]; ok {
		return contractx.Intent{Kind: contractx.IntentConfirm, Raw: req.Utterance}, nil
	}
	if _, ok := negatives[word]; ok {
		return contractx.Intent{Kind: contractx.IntentCancel, Raw: req.Utterance}, nil
	}
	return s.next.Interpret(ctx, req)
}
