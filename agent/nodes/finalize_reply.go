package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: reply is empty", contractx.ErrValidation)
	}
	return GraphOutput{
		Reply:             reply,
		Intent:            in.Intent.Kind,
		Decision:          in.Decision,
		Outcome:           in.Outcome,
		Mutation:          in.Mutation,
		InterpretDuration: in.InterpretDuration,
	}, nil
}
