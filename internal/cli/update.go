package cli

import (
	"time"

	"github.com/raphaelgruber/globus-timer-go/internal/timer"
	"github.com/spf13/cobra"
)

var (
	updateName     string
	updateLabel    string
	updateInterval int
)

var updateCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Update a timer job",
	Long: `Update the name, label or interval of a timer job. Only the flags
given are changed.

Examples:
  globus-timer update 7b3c1a52-4c3e-4d0f-9a5e-2f1a6c0e9d11 --label "weekly sync"
  globus-timer update 7b3c1a52-4c3e-4d0f-9a5e-2f1a6c0e9d11 --interval 604800`,
	Args: exactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new job name")
	updateCmd.Flags().StringVar(&updateLabel, "label", "", "new label")
	updateCmd.Flags().IntVar(&updateInterval, "interval", 0, "new interval in seconds")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var patch timer.Patch
	if cmd.Flags().Changed("name") {
		patch.Name = &updateName
	}
	if cmd.Flags().Changed("label") {
		patch.Label = &updateLabel
	}
	if cmd.Flags().Changed("interval") {
		interval := time.Duration(updateInterval) * time.Second
		patch.Interval = &interval
	}
	if patch == (timer.Patch{}) {
		return timer.ErrEmptyUpdate
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	mgr, err := jobManager(ctx)
	if err != nil {
		return err
	}

	job, err := mgr.Update(ctx, args[0], patch)
	if err != nil {
		return err
	}
	return printDocument(cmd.OutOrStdout(), job.Raw)
}
