package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Aaya-Elsharief/Agri-pal/internal/pkg/config"
	"github.com/Aaya-Elsharief/Agri-pal/pkg/logger"
)

const serviceName = "agripal"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "agripal",
	Short:        "Agri-pal farmer and trader marketplace",
	SilenceUsage: true,
}

// bootstrap loads configuration and initialises the logger shared by all subcommands.
func bootstrap(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, log, nil
}
