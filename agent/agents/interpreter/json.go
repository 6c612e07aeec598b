package interpreter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	toolx "github.com/tanpawarit/chative-shopping-assistant/agent/tool"
)

// jsonInterpreter asks a chat completion endpoint for a single JSON object
// naming the intent tool and its arguments.
type jsonInterpreter struct {
	client       *openaisdk.Client
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
	resolver     *Resolver
	opts         options
}

var _ contractx.Interpreter = (*jsonInterpreter)(nil)

type JSONConfig struct {
	Model              string
	MaxCompletionToken int
	Temperature        float32
	SystemPrompt       string
}

func NewJSONInterpreter(client *openaisdk.Client, catalog catalogx.Reader, cfg JSONConfig, opts ...Option) (contractx.Interpreter, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: openai client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		return nil, contractx.ErrPromptMissing
	}
	return &jsonInterpreter{
		client:       client,
		model:        strings.TrimSpace(cfg.Model),
		maxTokens:    cfg.MaxCompletionToken,
		temperature:  cfg.Temperature,
		systemPrompt: cfg.SystemPrompt,
		resolver:     NewResolver(catalog),
		opts:         applyOptions(opts),
	}, nil
}

func (j *jsonInterpreter) Interpret(ctx context.Context, req contractx.InterpretRequest) (contractx.Intent, error) {
	input, err := buildModelInput(req, j.opts.historyWindow)
	if err != nil {
		return contractx.Intent{}, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(j.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(j.systemPrompt),
			openaisdk.UserMessage(input),
		},
		ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Temperature: openaisdk.Float(float64(j.temperature)),
	}
	if j.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(j.maxTokens))
	}

	resp, err := j.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openaisdk.Error
		if errors.As(err, &apiErr) {
			return contractx.Intent{}, fmt.Errorf("%w: chat completion status=%d: %v", contractx.ErrServiceUnavailable, apiErr.StatusCode, err)
		}
		return contractx.Intent{}, fmt.Errorf("%w: chat completion: %v", contractx.ErrServiceUnavailable, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return contractx.Unknown(req.Utterance, "empty model response"), nil
	}

	call, err := toolx.DecodeEnvelope(stripCodeFence(resp.Choices[0].Message.Content))
	if err != nil {
		return contractx.Unknown(req.Utterance, err.Error()), nil
	}
	return j.resolver.Resolve(ctx, call, req)
}

// stripCodeFence removes a surrounding markdown code fence some models add
// even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
