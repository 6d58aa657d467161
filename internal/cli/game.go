package cli

import (
	"github.com/spf13/cobra"
)

func newSaveGameCmd() *cobra.Command {
	var (
		mode          string
		winner        int
		nation        string
		opponentID    int64
		opponentNation string
	)

	cmd := &cobra.Command{
		Use:   "save-game",
		Short: "Record a finished match",
		Long: `Record a finished match as the logged-in player.

--winner is 1 if you won and 2 if the other side did. Local two player
games are stored without a winner regardless.`,
		Example: `  tankctl save-game --mode ai-hard --winner 1 --nation US --opponent-nation German`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"game_mode":      mode,
				"winner":         winner,
				"player1_nation": nation,
				"player2_nation": opponentNation,
			}
			if cmd.Flags().Changed("opponent-id") {
				req["player2_id"] = opponentID
			}

			var result SuccessResult
			if err := client.Post(cmd.Context(), "/api/save_game", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Game saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Game mode: 2player, ai-normal, ai-hard, ai-nightmare (required)")
	cmd.Flags().IntVar(&winner, "winner", 0, "Winning side: 1 or 2 (required)")
	cmd.Flags().StringVar(&nation, "nation", "", "Your nation (required)")
	cmd.Flags().Int64Var(&opponentID, "opponent-id", 0, "User id of the second player, if registered")
	cmd.Flags().StringVar(&opponentNation, "opponent-nation", "", "Opponent nation (required)")
	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.MarkFlagRequired("winner")
	_ = cmd.MarkFlagRequired("nation")
	_ = cmd.MarkFlagRequired("opponent-nation")

	return cmd
}
