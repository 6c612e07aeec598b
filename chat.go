package main

import (
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tanpawarit/chative-shopping-assistant/agent/terminal"
	logx "github.com/tanpawarit/chative-shopping-assistant/pkg/logger"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Start an interactive chat session on stdin/stdout. Type "exit" to leave;
the session and its cart are discarded on the way out.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "session id to use (random when empty)")
}

func runChat(cmd *cobra.Command, args []string) error {
	// log lines would interleave with the conversation
	if log.Logger.GetLevel() > zerolog.DebugLevel {
		logx.Silence()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return terminal.New(a.orchestrator, sessionID).Run(ctx)
}
