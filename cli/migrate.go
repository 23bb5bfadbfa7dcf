package cli

import (
	"github.com/spf13/cobra"

	"github.com/pressgen/pressgen/config"
	"github.com/pressgen/pressgen/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		if err := store.Migrate(ctx, cfg.Database.URL); err != nil {
			return err
		}
		cmd.Println("migrations applied")
		return nil
	},
}
