package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	gatex "github.com/tanpawarit/chative-shopping-assistant/agent/gate"
)

const stillWaiting = "Still waiting for your answer: "

// GateTransition handles a turn that arrives while an action awaits confirmation.
func GateTransition(
	ctx context.Context,
	in *GraphState,
	deps Deps,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	g := &in.Session.Gate
	in.Decision = g.Decide(in.Intent, deps.Policy)

	switch in.Decision {
	case gatex.DecisionCommit:
		pending, err := g.Commit()
		if err != nil {
			return nil, err
		}
		if err := applyPending(ctx, in, deps, pending); err != nil {
			return nil, err
		}

	case gatex.DecisionAbort:
		pending, err := g.Abort()
		if err != nil {
			return nil, err
		}
		in.sayf("Okay, I cancelled that (%s). Your cart is unchanged.", describe(pending.Intent))
		in.Outcome = OutcomeAborted

	case gatex.DecisionReprompt:
		in.say(stillWaiting + confirmPrompt(g.Pending.Intent, &in.Session.Cart))
		in.Outcome = OutcomeReprompted

	case gatex.DecisionReplace:
		previous := g.Pending.Intent
		next, rejected, err := checkProposal(ctx, in, deps, in.Intent)
		if err != nil {
			return nil, err
		}
		if rejected != nil {
			in.say(rejected.reply)
			in.Trailer = stillWaiting + confirmPrompt(previous, &in.Session.Cart)
			in.Outcome = rejected.outcome
			return in, nil
		}
		if err := g.Propose(next, in.Text, in.Now); err != nil {
			return nil, err
		}
		in.sayf("Okay, replacing the previous request (%s).", describe(previous))
		in.say(confirmPrompt(next, &in.Session.Cart))
		in.Outcome = OutcomeReplaced

	case gatex.DecisionInterrupt:
		pending, err := g.Abort()
		if err != nil {
			return nil, err
		}
		in.sayf("Note: cancelled previous pending action (%s).", describe(pending.Intent))
		in.NeedsDispatch = true

	case gatex.DecisionHold:
		in.Trailer = stillWaiting + confirmPrompt(g.Pending.Intent, &in.Session.Cart)
		in.NeedsDispatch = true

	default:
		in.NeedsDispatch = true
	}

	return in, nil
}
