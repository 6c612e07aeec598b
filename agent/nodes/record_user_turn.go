package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
)

func RecordUserTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if err := in.Session.AppendTurn(contractx.SpeakerUser, in.Text, in.Now); err != nil {
		return nil, err
	}
	return in, nil
}
