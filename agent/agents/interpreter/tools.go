package interpreter

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/chative-shopping-assistant/agent/tool"
)

// toolInterpreter asks a tool-calling chat model to pick exactly one intent tool.
type toolInterpreter struct {
	runner   compose.Runnable[map[string]any, *schema.Message]
	resolver *Resolver
	opts     options
}

var _ contractx.Interpreter = (*toolInterpreter)(nil)

func NewToolInterpreter(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	catalog catalogx.Reader,
	systemPrompt string,
	opts ...Option,
) (contractx.Interpreter, error) {
	toolModel, err := chatModel.WithTools(toolx.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind interpreter tools: %v", contractx.ErrModelInvoke, err)
	}
	runner, err := compileToolCallingGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &toolInterpreter{
		runner:   runner,
		resolver: NewResolver(catalog),
		opts:     applyOptions(opts),
	}, nil
}

func (t *toolInterpreter) Interpret(ctx context.Context, req contractx.InterpretRequest) (contractx.Intent, error) {
	input, err := buildModelInput(req, t.opts.historyWindow)
	if err != nil {
		return contractx.Intent{}, err
	}

	msg, err := t.runner.Invoke(ctx, map[string]any{
		"input": input,
	})
	if err != nil {
		return contractx.Intent{}, fmt.Errorf("%w: interpreter invoke: %v", contractx.ErrServiceUnavailable, err)
	}
	if msg == nil {
		return contractx.Unknown(req.Utterance, "empty model response"), nil
	}

	switch len(msg.ToolCalls) {
	case 0:
		reason := "model answered without a tool call"
		if content := strings.TrimSpace(msg.Content); content != "" {
			reason += ": " + content
		}
		return contractx.Unknown(req.Utterance, reason), nil
	case 1:
	default:
		return contractx.Unknown(req.Utterance, fmt.Sprintf("model called %d tools, expected one", len(msg.ToolCalls))), nil
	}

	fn := msg.ToolCalls[0].Function
	call, err := toolx.Decode(fn.Name, fn.Arguments)
	if err != nil {
		return contractx.Unknown(req.Utterance, err.Error()), nil
	}
	return t.resolver.Resolve(ctx, call, req)
}
