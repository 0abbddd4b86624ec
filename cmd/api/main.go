package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/odonto/admin-api/internal/config"
	"github.com/odonto/admin-api/pkg/logger"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "odonto-api",
		Short:        "Dental clinic dashboard API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config.yml")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(notificationsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// load reads the config and installs the process logger.
func load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, err
	}
	l := logger.Setup(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})
	return cfg, l, nil
}
