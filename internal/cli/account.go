package cli

import (
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show your stats and recent games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AccountResult

			if err := client.Get(cmd.Context(), "/api/account", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
