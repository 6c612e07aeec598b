package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	statex "github.com/tanpawarit/chative-shopping-assistant/agent/state"
)

// SaveSession records the assistant reply and persists the session. Nothing
// is written for a turn that failed before reaching this node.
func SaveSession(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	reply := joinReplies(in.Replies, in.Trailer)
	if reply == "" {
		return nil, fmt.Errorf("%w: turn produced an empty reply", contractx.ErrValidation)
	}
	if err := in.Session.AppendTurn(contractx.SpeakerAssistant, reply, in.Now); err != nil {
		return nil, err
	}

	in.Session.Touch(in.Now)
	if err := in.Session.Validate(); err != nil {
		return nil, fmt.Errorf("state validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Session); err != nil {
		return nil, err
	}

	in.Reply = reply
	return in, nil
}
