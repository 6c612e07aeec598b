package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	catalogx "github.com/tanpawarit/chative-shopping-assistant/agent/catalog"
	configx "github.com/tanpawarit/chative-shopping-assistant/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and seed the product catalog schema",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := configx.New[catalogx.Config]("CATALOG")
	if err != nil {
		return fmt.Errorf("catalog config: %w", err)
	}
	cfg.Migrate = false

	catalog, err := catalogx.Open(cmd.Context(), *cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	if err := catalog.Migrate(); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.Driver).Msg("catalog migrated")
	return nil
}
