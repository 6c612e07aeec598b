package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tanpawarit/chative-shopping-assistant/agent/server"
	configx "github.com/tanpawarit/chative-shopping-assistant/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Serve the JSON chat API:

  POST   /v1/sessions             start a session
  POST   /v1/sessions/{id}/turns  send {"text": "..."} and receive {"reply": "..."}
  DELETE /v1/sessions/{id}        end a session
  GET    /healthz, /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpCfg, err := configx.New[server.Config]("HTTP")
	if err != nil {
		return err
	}

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return server.Run(ctx, server.NewRouter(a.orchestrator, a.registry, *httpCfg), *httpCfg)
}
