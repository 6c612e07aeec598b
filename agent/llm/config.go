package llm

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-shopping-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/chative-shopping-assistant/pkg/openrouter"
)

const (
	BackendTools = "tools"
	BackendJSON  = "json"
)

// Config holds interpreter-specific overrides on top of the OPENROUTER_* client settings.
type Config struct {
	Backend            string  `envconfig:"BACKEND" split_words:"true" default:"tools"`
	HistoryWindow      int     `envconfig:"HISTORY_WINDOW" split_words:"true" default:"10"`
	Model              string  `envconfig:"MODEL" split_words:"true"`
	Temperature        float32 `envconfig:"TEMPERATURE" split_words:"true" default:"-1"`
	MaxCompletionToken int     `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"0"`
}

func (c Config) Validate() error {
	switch c.NormalizedBackend() {
	case BackendTools, BackendJSON:
	default:
		return fmt.Errorf("%w: unknown interpreter backend %q", contractx.ErrValidation, c.Backend)
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("%w: history window must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) NormalizedBackend() string {
	b := strings.ToLower(strings.TrimSpace(c.Backend))
	if b == "" {
		return BackendTools
	}
	return b
}

// OpenRouterFor applies the interpreter overrides to the shared client config.
func (c Config) OpenRouterFor(base openrouterx.Config) openrouterx.Config {
	out := base
	out.BaseURL = strings.TrimSpace(base.BaseURL)
	out.APIKey = strings.TrimSpace(base.APIKey)
	out.Model = strings.TrimSpace(base.Model)
	out.SiteURL = strings.TrimSpace(base.SiteURL)
	out.SiteName = strings.TrimSpace(base.SiteName)

	if v := strings.TrimSpace(c.Model); v != "" {
		out.Model = v
	}
	if c.Temperature >= 0 {
		out.Temperature = c.Temperature
	}
	if c.MaxCompletionToken > 0 {
		maxCompletionToken := c.MaxCompletionToken
		out.MaxCompletionToken = &maxCompletionToken
	}
	return out
}
