package gate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

var (
	ErrNothingPending = errors.New("no pending action")
	ErrNotMutating    = errors.New("intent does not mutate the cart")
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseAwaiting Phase = "awaiting_confirmation"
)

// Policy decides what happens to a pending action when the user asks for
// something unrelated before answering the confirmation prompt.
type Policy string

const (
	PolicyCancel Policy = "cancel"
	PolicyHold   Policy = "hold"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyCancel:
		return PolicyCancel, nil
	case PolicyHold:
		return PolicyHold, nil
	default:
		return "", fmt.Errorf("unknown interrupt policy %q", s)
	}
}

type Decision string

const (
	// DecisionPropose stores a new pending action and prompts for confirmation.
	DecisionPropose Decision = "propose"
	// DecisionCommit applies the pending action.
	DecisionCommit Decision = "commit"
	// DecisionAbort discards the pending action on an explicit cancel.
	DecisionAbort Decision = "abort"
	// DecisionReplace swaps the pending action for a different mutating one.
	DecisionReplace Decision = "replace"
	// DecisionReprompt repeats the prompt for an unchanged pending action.
	DecisionReprompt Decision = "reprompt"
	// DecisionInterrupt discards the pending action, then answers the new request.
	DecisionInterrupt Decision = "interrupt"
	// DecisionHold answers the new request and keeps the pending action.
	DecisionHold Decision = "hold"
	// DecisionPassThrough answers the request; the gate is not involved.
	DecisionPassThrough Decision = "pass_through"
)

type PendingAction struct {
	Intent     contractx.Intent `json:"intent"`
	Utterance  string           `json:"utterance"`
	ProposedAt time.Time        `json:"proposed_at"`
}

// Gate is the two-phase propose/commit guard in front of every cart mutation.
// The zero value is idle.
type Gate struct {
	Pending *PendingAction `json:"pending,omitempty"`
}

func (g *Gate) Phase() Phase {
	if g == nil || g.Pending == nil {
		return PhaseIdle
	}
	return PhaseAwaiting
}

// Decide classifies intent against the current phase. It never mutates the gate.
func (g *Gate) Decide(intent contractx.Intent, policy Policy) Decision {
	if g.Phase() == PhaseIdle {
		if intent.Mutating() {
			return DecisionPropose
		}
		return DecisionPassThrough
	}

	switch {
	case intent.Kind == contractx.IntentConfirm:
		return DecisionCommit
	case intent.Kind == contractx.IntentCancel:
		return DecisionAbort
	case intent.Mutating():
		if g.Pending.Intent.SameAction(intent) {
			return DecisionReprompt
		}
		return DecisionReplace
	case policy == PolicyHold:
		return DecisionHold
	default:
		return DecisionInterrupt
	}
}

// Propose stores intent as the pending action, replacing any previous one.
func (g *Gate) Propose(intent contractx.Intent, utterance string, now time.Time) error {
	if !intent.Mutating() {
		return fmt.Errorf("%w: %s", ErrNotMutating, intent.Kind)
	}
	g.Pending = &PendingAction{
		Intent:     intent,
		Utterance:  utterance,
		ProposedAt: now.UTC(),
	}
	return nil
}

// Commit releases the pending action for the caller to apply.
func (g *Gate) Commit() (PendingAction, error) {
	return g.take()
}

// Abort discards the pending action.
func (g *Gate) Abort() (PendingAction, error) {
	return g.take()
}

func (g *Gate) take() (PendingAction, error) {
	if g.Phase() == PhaseIdle {
		return PendingAction{}, ErrNothingPending
	}
	p := *g.Pending
	g.Pending = nil
	return p, nil
}
