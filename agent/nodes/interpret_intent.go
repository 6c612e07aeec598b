package orchestratornode

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
)

func InterpretIntent(
	ctx context.Context,
	in *GraphState,
	interpreter contractx.Interpreter,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	req := contractx.InterpretRequest{
		Utterance:    in.Text,
		History:      in.Session.History(0),
		Recent:       in.Session.Recent,
		CartProducts: in.Session.Cart.Products(),
		Pending:      in.Session.PendingIntent(),
	}

	started := time.Now()
	intent, err := interpreter.Interpret(ctx, req)
	in.InterpretDuration = time.Since(started)
	if err != nil {
		return nil, err
	}
	if intent.Kind == "" {
		intent = contractx.Unknown(in.Text, "interpreter returned an empty intent")
	}
	in.Intent = intent
	return in, nil
}

// RouteAfterInterpret sends the turn through the gate while a confirmation is pending.
func RouteAfterInterpret(in *GraphState) (string, error) {
	if in == nil || in.Session == nil {
		return "", fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Session.Gate.Phase() == gatex.PhaseAwaiting {
		return NodeGateTransition, nil
	}
	return NodeDispatchIntent, nil
}

// RouteAfterGate continues to dispatch only when the gate let a new request through.
func RouteAfterGate(in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.NeedsDispatch {
		return NodeDispatchIntent, nil
	}
	return NodeSaveSession, nil
}

const (
	NodeValidateRequest     = "validate_request"
	NodeLoadOrCreateSession = "load_or_create_session"
	NodeRecordUserTurn      = "record_user_turn"
	NodeInterpretIntent     = "interpret_intent"
	NodeGateTransition      = "gate_transition"
	NodeDispatchIntent      = "dispatch_intent"
	NodeSaveSession         = "save_session"
	NodeFinalizeReply       = "finalize_reply"
)
