package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/tankbattle/internal/model"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Account administration against the configured store",
	}

	cmd.AddCommand(newAdminSetCmd("promote", "Grant admin rights to a user", true))
	cmd.AddCommand(newAdminSetCmd("demote", "Revoke admin rights from a user", false))
	cmd.AddCommand(newAdminUsersCmd())

	return cmd
}

func newAdminSetCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := newOperator(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = op.Close() }()

			user, changed, err := op.admin.SetAdminByUsername(cmd.Context(), args[0], isAdmin)
			if err != nil {
				return fmt.Errorf("%s %q: %w", use, args[0], err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			switch {
			case !changed && isAdmin:
				out.PrintMessage(fmt.Sprintf("%s is already an admin", user.Username))
			case !changed:
				out.PrintMessage(fmt.Sprintf("%s is not an admin", user.Username))
			case isAdmin:
				out.PrintMessage(fmt.Sprintf("%s is now an admin", user.Username))
			default:
				out.PrintMessage(fmt.Sprintf("%s is no longer an admin", user.Username))
			}
			return nil
		},
	}
}

func newAdminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every account, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := newOperator(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = op.Close() }()

			users, err := op.accounts.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(usersFromModel(users))
			return nil
		},
	}
}

func usersFromModel(users []model.User) []User {
	result := make([]User, len(users))
	for i, u := range users {
		result[i] = User{
			ID:        int64(u.ID),
			Username:  u.Username,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt,
		}
	}
	return result
}
