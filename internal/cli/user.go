package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parisxmas/oxidocs/internal/service"
)

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			u, err := service.NewUserService(store.Users).Create(ctx, args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", u.ID, u.Username)
			return nil
		},
	}
	add.Flags().StringVar(&password, "password", "", "account password (min 6 characters)")
	add.MarkFlagRequired("password")

	check := &cobra.Command{
		Use:   "check <username>",
		Short: "Verify an operator password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ok, err := service.NewUserService(store.Users).CheckPassword(ctx, args[0], password)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("invalid username or password")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	check.Flags().StringVar(&password, "password", "", "password to verify")

	cmd.AddCommand(add, check)
	return cmd
}
