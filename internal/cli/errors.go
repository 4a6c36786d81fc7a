package cli

import (
	"errors"
	"fmt"

	"github.com/raphaelgruber/globus-timer-go/internal/auth"
	"github.com/raphaelgruber/globus-timer-go/internal/client"
	"github.com/raphaelgruber/globus-timer-go/internal/config"
	"github.com/raphaelgruber/globus-timer-go/internal/manifest"
	"github.com/raphaelgruber/globus-timer-go/internal/timer"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
	ExitInput   = 3
	ExitRemote  = 4
)

// usageError is a bad flag or argument.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	var (
		secretsErr *config.SecretsError
		inputErr   *manifest.InputError
		remoteErr  *client.RemoteCallError
		usageErr   *usageError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &remoteErr),
		errors.Is(err, auth.ErrTokenRequest),
		errors.Is(err, timer.ErrMissingJobID):
		return ExitRemote
	case errors.As(err, &inputErr),
		errors.Is(err, manifest.ErrInvalidFlag),
		errors.Is(err, timer.ErrEmptyUpdate),
		errors.Is(err, timer.ErrEmptyJobID):
		return ExitInput
	case errors.As(err, &secretsErr),
		errors.As(err, &usageErr),
		errors.Is(err, config.ErrEnvFile),
		errors.Is(err, timer.ErrInvalidRecurrence),
		errors.Is(err, timer.ErrInvalidSpec):
		return ExitConfig
	default:
		return ExitFailure
	}
}
