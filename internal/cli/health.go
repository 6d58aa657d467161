package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server and its store are reachable",
		Long: `Check the server and its store are reachable.

Exits non-zero when the server cannot be reached or reports its store
as unavailable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if err := client.Get(cmd.Context(), "/api/health", &result); err != nil {
				out.Print(HealthResult{Status: "unavailable"})
				return fmt.Errorf("server unhealthy: %w", err)
			}

			out.Print(result)
			return nil
		},
	}
}
