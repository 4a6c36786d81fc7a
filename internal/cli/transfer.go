package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/globus-timer-go/internal/manifest"
	"github.com/raphaelgruber/globus-timer-go/internal/metrics"
	"github.com/raphaelgruber/globus-timer-go/internal/timer"
	"github.com/raphaelgruber/globus-timer-go/internal/transfer"
	"github.com/spf13/cobra"
)

var (
	transferName       string
	transferLabel      string
	transferInterval   int
	transferSource     string
	transferDest       string
	transferItemsFile  string
	transferStopAfterN int
	transferStart      string
	transferDeadline   string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Create a timer job that runs a transfer",
	Long: `Create a Globus Timers job that transfers the paths listed in a CSV
manifest from the source to the destination endpoint.

The manifest has no header and three columns per row:
  source_path,destination_path,recursive
where recursive is "true" or "false" (any case).

By default the job repeats every --interval seconds. With --stop-after-n
and no explicit --interval the job runs N times instead.

Examples:
  globus-timer transfer --name nightly \
    --source-endpoint 0d6e4a8e-0000-4000-8000-000000000001 \
    --dest-endpoint 0d6e4a8e-0000-4000-8000-000000000002 \
    --items-file items.csv --interval 86400
  globus-timer transfer --name once --stop-after-n 1 ...`,
	Args: exactArgs(0),
	RunE: runTransfer,
}

func init() {
	transferCmd.Flags().StringVar(&transferName, "name", "", "name for the timer job (required)")
	transferCmd.Flags().StringVar(&transferLabel, "label", "", "friendly label for the timer job")
	transferCmd.Flags().IntVar(&transferInterval, "interval", 300, "seconds between runs")
	transferCmd.Flags().StringVar(&transferSource, "source-endpoint", "", "UUID of the source endpoint (required)")
	transferCmd.Flags().StringVar(&transferDest, "dest-endpoint", "", "UUID of the destination endpoint (required)")
	transferCmd.Flags().StringVar(&transferItemsFile, "items-file", "", "CSV manifest of paths to transfer (required)")
	transferCmd.Flags().IntVar(&transferStopAfterN, "stop-after-n", 0, "stop after this many runs")
	transferCmd.Flags().StringVar(&transferStart, "start", "", "first run time, RFC 3339 (default now)")
	transferCmd.Flags().StringVar(&transferDeadline, "deadline", "", "transfer deadline, RFC 3339 (default 10 days from now)")
}

func runTransfer(cmd *cobra.Command, args []string) error {
	if err := requireFlags(cmd, "name", "source-endpoint", "dest-endpoint", "items-file"); err != nil {
		return err
	}
	if err := checkEndpoint("source-endpoint", transferSource); err != nil {
		return err
	}
	if err := checkEndpoint("dest-endpoint", transferDest); err != nil {
		return err
	}

	start := time.Now().UTC()
	if transferStart != "" {
		t, err := time.Parse(time.RFC3339, transferStart)
		if err != nil {
			return usageErrorf("invalid --start: %w", err)
		}
		start = t
	}

	var buildOpts []transfer.Option
	if transferDeadline != "" {
		t, err := time.Parse(time.RFC3339, transferDeadline)
		if err != nil {
			return usageErrorf("invalid --deadline: %w", err)
		}
		buildOpts = append(buildOpts, transfer.WithDeadline(t))
	}

	// Everything local is checked before the first network call.
	creds, err := loadCredentials()
	if err != nil {
		return err
	}

	table, err := manifest.Read(transferItemsFile)
	if err != nil {
		return err
	}

	req, err := transfer.Build(transferSource, transferDest, table, buildOpts...)
	if err != nil {
		var inputErr *manifest.InputError
		if errors.As(err, &inputErr) && inputErr.Path == "" {
			inputErr.Path = transferItemsFile
		}
		return err
	}

	spec, err := timer.NewJobSpec(req, start, transferName, jobOptions(cmd)...)
	if err != nil {
		return err
	}

	logger.Debug("built transfer request", "items", len(req.Items), "source", transferSource, "destination", transferDest)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	clients, err := connect(ctx, creds)
	if err != nil {
		return err
	}

	err = collector.Time(metrics.OpSubmissionID, func() error {
		id, err := clients.Transfer.SubmissionID(ctx)
		if err != nil {
			return err
		}
		req.SubmissionID = id
		return nil
	})
	if err != nil {
		return fmt.Errorf("stamp transfer request: %w", err)
	}

	mgr := timer.NewManager(clients.Timer, logger, collector)
	jobID, err := mgr.Create(ctx, spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created job Timer Job ID: %s\n", jobID)
	return nil
}

// jobOptions maps the recurrence and label flags to job options. An
// explicit --stop-after-n alone bounds the job by run count; giving both
// it and --interval is rejected by timer.NewJobSpec.
func jobOptions(cmd *cobra.Command) []timer.JobOption {
	var opts []timer.JobOption

	stopAfter := cmd.Flags().Changed("stop-after-n")
	if !stopAfter || cmd.Flags().Changed("interval") {
		opts = append(opts, timer.WithInterval(time.Duration(transferInterval)*time.Second))
	}
	if stopAfter {
		opts = append(opts, timer.WithStopAfterRuns(transferStopAfterN))
	}
	if transferLabel != "" {
		opts = append(opts, timer.WithLabel(transferLabel))
	}
	return opts
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Value.String() == "" {
			return usageErrorf("--%s is required", name)
		}
	}
	return nil
}

func checkEndpoint(flag, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return usageErrorf("invalid --%s %q: %w", flag, value, err)
	}
	return nil
}
