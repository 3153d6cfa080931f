package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dailydigest/internal"
	"dailydigest/internal/models"
	"dailydigest/internal/operators"
	"dailydigest/internal/store"

	"github.com/spf13/cobra"
)

func newCreateOperatorCmd(flags *globalFlags) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-operator",
		Short: "Create an API operator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			if username == "" || strings.TrimSpace(password) == "" {
				return errors.New("--username and --password are required")
			}

			hash, err := operators.HashPassword(strings.TrimSpace(password))
			if err != nil {
				return err
			}

			return withRuntime(cmd, flags, func(ctx context.Context, rt *internal.Runtime) error {
				err := rt.Store.CreateOperator(ctx, models.Operator{Username: username, Password: hash})
				if errors.Is(err, store.ErrDuplicate) {
					return fmt.Errorf("operator %q already exists", username)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "operator %s created\n", username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "operator username")
	cmd.Flags().StringVar(&password, "password", "", "operator password")
	return cmd
}
