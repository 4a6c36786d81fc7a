package cli

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <job-id>",
	Short: "Show a timer job",
	Long: `Show a timer job as described by the Timers service.

Examples:
  globus-timer get 7b3c1a52-4c3e-4d0f-9a5e-2f1a6c0e9d11`,
	Args: exactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	mgr, err := jobManager(ctx)
	if err != nil {
		return err
	}

	job, err := mgr.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return printDocument(cmd.OutOrStdout(), job.Raw)
}
