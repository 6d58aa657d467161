package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mcoot/tankbattle/internal/config"
	"github.com/mcoot/tankbattle/internal/storage/postgres"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance commands",
	}

	cmd.AddCommand(newDBInitCmd())

	return cmd
}

func newDBInitCmd() *cobra.Command {
	var (
		databaseURL string
		reset       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the users and game history tables",
		Long: `Create the users and game history tables in PostgreSQL if they do not exist.

With --reset the tables are dropped first, destroying all accounts and history.
The connection string comes from --database-url or the server configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				c, err := config.FromEnvironment()
				if err != nil {
					return err
				}
				databaseURL = c.Storage.DatabaseURL
			}
			if databaseURL == "" {
				return errors.New("no database configured: set DATABASE_URL or pass --database-url")
			}

			pgCfg := postgres.DefaultConfig()
			pgCfg.URL = databaseURL
			pg, err := postgres.New(cmd.Context(), pgCfg)
			if err != nil {
				return err
			}
			defer func() { _ = pg.Close() }()

			if err := pg.Migrate(cmd.Context(), reset); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if reset {
				out.PrintMessage("Database reset")
			} else {
				out.PrintMessage("Database initialised")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop existing tables first")

	return cmd
}
