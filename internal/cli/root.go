// Package cli provides the command-line interface for globus-timer.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raphaelgruber/globus-timer-go/internal/auth"
	"github.com/raphaelgruber/globus-timer-go/internal/config"
	"github.com/raphaelgruber/globus-timer-go/internal/metrics"
	"github.com/raphaelgruber/globus-timer-go/internal/timer"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose      bool
	secretsFile  string
	envFile      string
	outputFormat string

	// Set up once per invocation in PersistentPreRunE
	cfg       config.Config
	logger    *slog.Logger
	closeLog  func() error
	collector *metrics.Collector
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "globus-timer",
	Short: "Schedule recurring Globus transfers",
	Long: `globus-timer creates and manages Globus Timers jobs that run a
transfer between two endpoints on a schedule.

Client credentials are read from the [globus] section of an INI secrets
file (client_id, client_secret).`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != formatJSON && outputFormat != formatYAML {
			return usageErrorf("unknown output format %q (want json or yaml)", outputFormat)
		}

		if envFile != "" {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
		}
		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		collector = metrics.NewCollector()

		logger.Debug("starting command", "command", cmd.CommandPath(), "secrets_file", secretsFile)
		return nil
	},
}

// Execute runs the root command and releases logging resources.
func Execute() error {
	err := rootCmd.Execute()

	if logger != nil {
		if collector != nil {
			collector.LogSummary(logger)
		}
		if err != nil {
			logger.Debug("command failed", "error", err)
		}
	}
	if closeLog != nil {
		_ = closeLog()
	}
	logger, closeLog, collector = nil, nil, nil
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&secretsFile, "secrets-file", config.DefaultSecretsPath(), "path of the INI file holding the Globus client id and secret")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with GLOBUS_* settings")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatJSON, "output format: json or yaml")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	// Add subcommands
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// commandContext bounds a command by the configured overall timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, cfg.CommandTimeout)
}

// loadCredentials reads the client credentials from the secrets file.
func loadCredentials() (config.Credentials, error) {
	creds, err := config.LoadCredentials(secretsFile)
	if err != nil {
		return config.Credentials{}, err
	}
	logger.Debug("loaded credentials", "path", secretsFile, "credentials", creds)
	return creds, nil
}

// connect authenticates and builds the service clients.
func connect(ctx context.Context, creds config.Credentials) (*auth.Clients, error) {
	clients, err := auth.NewClients(ctx, creds, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return clients, nil
}

// jobManager loads credentials, authenticates and returns a manager for
// the timer commands that only need the Timers service.
func jobManager(ctx context.Context) (*timer.Manager, error) {
	creds, err := loadCredentials()
	if err != nil {
		return nil, err
	}
	clients, err := connect(ctx, creds)
	if err != nil {
		return nil, err
	}
	return timer.NewManager(clients.Timer, logger, collector), nil
}
