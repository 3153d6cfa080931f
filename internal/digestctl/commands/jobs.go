package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dailydigest/internal"
	"dailydigest/internal/core"
	"dailydigest/internal/lifecycle"

	"github.com/spf13/cobra"
)

var errUserRequired = errors.New("--user is required")

func newJobCmd(flags *globalFlags, name, short string) *cobra.Command {
	var userID, date string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != core.JobGenerate && (userID != "" || date != "") {
				return fmt.Errorf("--user and --date only apply to generate")
			}
			if date != "" && userID == "" {
				return errUserRequired
			}

			return withRuntime(cmd, flags, func(ctx context.Context, rt *internal.Runtime) error {
				if userID == "" {
					if err := rt.Scheduler.RunNow(ctx, name); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s completed\n", name)
					return nil
				}
				return generateFor(ctx, cmd, rt, userID, date)
			})
		},
	}

	if name == core.JobGenerate {
		cmd.Flags().StringVar(&userID, "user", "", "generate only for this user id")
		cmd.Flags().StringVar(&date, "date", "", "local date to generate (YYYY-MM-DD), defaults to today")
	}

	return cmd
}

func generateFor(ctx context.Context, cmd *cobra.Command, rt *internal.Runtime, userID, date string) error {
	user, err := rt.Store.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return fmt.Errorf("load user %s: %w", userID, err)
	}

	if date == "" {
		loc, err := lifecycle.Location(user.Timezone)
		if err != nil {
			return err
		}
		date = lifecycle.LocalDate(timeNow(), loc)
	}

	report, created, err := rt.Service.GenerateForUser(ctx, user, date)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case created:
		fmt.Fprintf(out, "report %s created for %s on %s (%d commits)\n", report.ID, user.ID, date, report.CommitCount)
	case report.ID != "":
		fmt.Fprintf(out, "report %s already exists for %s on %s\n", report.ID, user.ID, date)
	default:
		fmt.Fprintf(out, "no commits for %s on %s\n", user.ID, date)
	}
	return nil
}

func newSyncReposCmd(flags *globalFlags) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "sync-repos",
		Short: "Import a user's GitHub repositories as monitored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(userID) == "" {
				return errUserRequired
			}

			return withRuntime(cmd, flags, func(ctx context.Context, rt *internal.Runtime) error {
				user, err := rt.Store.GetUser(ctx, userID)
				if err != nil {
					return fmt.Errorf("load user %s: %w", userID, err)
				}

				total, created, err := rt.Service.SyncUserRepositories(ctx, user)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d repositories found, %d new\n", total, created)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id")
	return cmd
}
