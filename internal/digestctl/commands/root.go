// Package commands implements the digestctl command tree.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"dailydigest/internal"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	deployment string
	envRoot    string
}

// bootstrap is swapped in tests.
var bootstrap = internal.Bootstrap

func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "digestctl",
		Short:         "Operate the daily commit digest service",
		Long:          "digestctl runs digest jobs on demand, syncs repositories and manages operators against the configured MongoDB.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.deployment, "deployment", "prod", "deployment profile (dev|test|prod)")
	cmd.PersistentFlags().StringVar(&flags.envRoot, "env-root", "", "directory containing the .env file")

	cmd.AddCommand(newJobCmd(flags, "generate", "Generate today's draft reports for every active user"))
	cmd.AddCommand(newJobCmd(flags, "send", "Deliver the reports that are due now"))
	cmd.AddCommand(newJobCmd(flags, "cleanup", "Purge commits past the retention window"))
	cmd.AddCommand(newSyncReposCmd(flags))
	cmd.AddCommand(newCreateOperatorCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// withRuntime bootstraps the services and closes them when the command ends.
func withRuntime(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, rt *internal.Runtime) error) error {
	rt, err := bootstrap(flags.deployment, flags.envRoot, "")
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return fn(ctx, rt)
}
