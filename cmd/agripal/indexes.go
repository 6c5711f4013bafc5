package main

import (
	"context"

	"github.com/spf13/cobra"

	mongodb "github.com/Aaya-Elsharief/Agri-pal/internal/infrastructure/db/mongo"
)

// indexesCmd creates the MongoDB indexes and exits.
var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB collection indexes",
	Long: `Creates the unique username index and the listing indexes on the crops
and offers collections. Safe to run repeatedly. Usage:

	agripal indexes
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap(cmd)
		if err != nil {
			return err
		}

		client, db, err := mongodb.Connect(cmd.Context(), mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		if err := mongodb.EnsureIndexes(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}
