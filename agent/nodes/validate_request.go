package orchestratornode

import (
	"strings"
	"time"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
	statex "github.com/tanpawarit/chative-shopping-assistant/agent/state"
)

var (
	ErrInvalidMessage = contractx.ErrInvalidMessage
	ErrInvalidSession = contractx.ErrInvalidSession
)

// Outcome labels how a turn ended, for replies, logs and metrics.
type Outcome string

const (
	OutcomeAnswered          Outcome = "answered"
	OutcomeProposed          Outcome = "proposed"
	OutcomeCommitted         Outcome = "committed"
	OutcomeAborted           Outcome = "aborted"
	OutcomeReplaced          Outcome = "replaced"
	OutcomeReprompted        Outcome = "reprompted"
	OutcomeNothingPending    Outcome = "nothing_pending"
	OutcomeNotFound          Outcome = "not_found"
	OutcomeEmptyCart         Outcome = "empty_cart"
	OutcomeInsufficientStock Outcome = "insufficient_stock"
	OutcomeRephrase          Outcome = "rephrase"
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply             string
	Intent            contractx.IntentKind
	Decision          gatex.Decision
	Outcome           Outcome
	Mutation          string
	InterpretDuration time.Duration
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session           *statex.SessionState
	Intent            contractx.Intent
	InterpretDuration time.Duration
	Decision          gatex.Decision

	// NeedsDispatch is set by the gate when the new request must still be answered.
	NeedsDispatch bool
	Replies       []string
	Trailer       string
	Outcome       Outcome
	Mutation      string

	Reply string
}

// say appends msg to the reply verbatim.
func (s *GraphState) say(msg string) {
	s.Replies = append(s.Replies, msg)
}

func (s *GraphState) sayf(format string, args ...any) {
	s.Replies = append(s.Replies, sprintf(format, args...))
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
		Outcome:   OutcomeAnswered,
	}, nil
}
