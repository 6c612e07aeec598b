package interpreter

import (
	"context"
	"fmt"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	llmx "github.com/tanpawarit/chative-shopping-assistant/agent/llm"
	promptx "github.com/tanpawarit/chative-shopping-assistant/agent/prompt"
	openrouterx "github.com/tanpawarit/chative-shopping-assistant/pkg/openrouter"
)

// New builds the configured interpreter backend wrapped with the yes/no shortcuts.
func New(ctx context.Context, cfg llmx.Config, base openrouterx.Config, catalog catalogx.Reader) (contractx.Interpreter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()
	modelCfg := cfg.OpenRouterFor(base)
	opts := []Option{WithHistoryWindow(cfg.HistoryWindow)}

	var (
		next contractx.Interpreter
		err  error
	)
	switch cfg.NormalizedBackend() {
	case llmx.BackendJSON:
		client := openrouterx.NewClient(modelCfg)
		if client == nil {
			return nil, fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
		}
		next, err = NewJSONInterpreter(client, catalog, JSONConfig{
			Model:              modelCfg.Model,
			MaxCompletionToken: modelCfg.MaxTokens(),
			Temperature:        modelCfg.Temperature,
			SystemPrompt:       prompts.InterpreterJSON,
		}, opts...)
	default:
		chatModel, mErr := modelCfg.New(ctx)
		if mErr != nil {
			return nil, fmt.Errorf("%w: create interpreter model: %v", contractx.ErrModelInvoke, mErr)
		}
		next, err = NewToolInterpreter(ctx, chatModel, catalog, prompts.Interpreter, opts...)
	}
	if err != nil {
		return nil, err
	}
	return WithShortcuts(next), nil
}
