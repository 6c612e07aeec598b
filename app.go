package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tanpawarit/chative-shopping-assistant/agent/agents/interpreter"
	"github.com/tanpawarit/chative-shopping-assistant/agent/agents/orchestrator"
	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	llmx "github.com/tanpawarit/chative-shopping-assistant/agent/llm"
	statex "github.com/tanpawarit/chative-shopping-assistant/agent/state"
	configx "github.com/tanpawarit/chative-shopping-assistant/pkg/config"
	metricsx "github.com/tanpawarit/chative-shopping-assistant/pkg/metrics"
	openrouterx "github.com/tanpawarit/chative-shopping-assistant/pkg/openrouter"
)

// app holds the wired dependencies shared by the chat and serve commands.
type app struct {
	orchestrator *orchestrator.Orchestrator
	registry     *prometheus.Registry
	closers      []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context) (_ *app, err error) {
	a := &app{registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	catalogCfg, err := configx.New[catalogx.Config]("CATALOG")
	if err != nil {
		return nil, fmt.Errorf("catalog config: %w", err)
	}
	catalog, err := catalogx.Open(ctx, *catalogCfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, catalog.Close)

	store, err := openStore()
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("llm config: %w", err)
	}
	openRouterCfg, err := configx.New[openrouterx.Config]("OPENROUTER")
	if err != nil {
		return nil, fmt.Errorf("openrouter config: %w", err)
	}
	interp, err := interpreter.New(ctx, *llmCfg, *openRouterCfg, catalog)
	if err != nil {
		return nil, err
	}

	dialogueCfg, err := configx.New[orchestrator.Config]("DIALOGUE")
	if err != nil {
		return nil, fmt.Errorf("dialogue config: %w", err)
	}
	a.orchestrator, err = orchestrator.New(store, interp, catalog, *dialogueCfg,
		orchestrator.WithMetrics(metricsx.New(a.registry)),
		orchestrator.WithSearchLimit(catalogCfg.SearchLimit),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func openStore() (statex.Store, error) {
	cfg, err := configx.New[statex.Config]("STATE")
	if err != nil {
		return nil, fmt.Errorf("state config: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", statex.DriverMemory:
		return statex.NewMemoryStore(cfg.Options()...)
	case statex.DriverRedis:
		redisCfg, err := configx.New[statex.RedisConfig]("REDIS")
		if err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		return statex.NewRedisStore(redisCfg.NewClient(), cfg.Options()...)
	case statex.DriverUpstash:
		upstashCfg, err := configx.New[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return nil, fmt.Errorf("upstash config: %w", err)
		}
		return statex.NewUpstashRedisStore(*upstashCfg, cfg.Options()...)
	default:
		return nil, fmt.Errorf("unsupported state driver %q", cfg.Driver)
	}
}
