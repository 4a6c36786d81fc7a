package cli

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <timer-id>",
	Short: "Delete a timer job",
	Long: `Delete a timer job. Deleting a job that no longer exists fails
with the error reported by the Timers service.

Examples:
  globus-timer delete 7b3c1a52-4c3e-4d0f-9a5e-2f1a6c0e9d11`,
	Args: exactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	mgr, err := jobManager(ctx)
	if err != nil {
		return err
	}

	job, err := mgr.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	return printDocument(cmd.OutOrStdout(), job.Raw)
}
