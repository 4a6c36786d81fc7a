package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List timer jobs",
	Long: `List the timer jobs owned by the client.

Examples:
  globus-timer list
  globus-timer list -o yaml`,
	Args: exactArgs(0),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	mgr, err := jobManager(ctx)
	if err != nil {
		return err
	}

	list, err := mgr.List(ctx)
	if err != nil {
		return err
	}
	return printDocument(cmd.OutOrStdout(), list.Raw)
}
