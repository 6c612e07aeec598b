// Command chative-shop runs the conversational shopping assistant.
package main

import (
	"os"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/chative-shopping-assistant/pkg/config"
	_ "github.com/tanpawarit/chative-shopping-assistant/pkg/logger/autoload"
)

var envFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chative-shop",
	Short: "Conversational shopping assistant",
	Long: `chative-shop lets a customer search the product catalog, manage a cart
and check out in plain language. Every cart change is confirmed before it is applied.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configx.SetEnvFile(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (defaults to ./.env when present)")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
