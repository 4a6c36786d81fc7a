package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/raphaelgruber/globus-timer-go/internal/auth"
	"github.com/raphaelgruber/globus-timer-go/internal/client"
	"github.com/raphaelgruber/globus-timer-go/internal/config"
	"github.com/raphaelgruber/globus-timer-go/internal/manifest"
	"github.com/raphaelgruber/globus-timer-go/internal/timer"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"secrets", &config.SecretsError{Path: "p", Err: config.ErrSecretsNotFound}, ExitConfig},
		{"usage", usageErrorf("bad flag"), ExitConfig},
		{"recurrence", fmt.Errorf("x: %w", timer.ErrInvalidRecurrence), ExitConfig},
		{"env file", fmt.Errorf("%w x", config.ErrEnvFile), ExitConfig},
		{"manifest", &manifest.InputError{Path: "m.csv", Row: 2, Err: manifest.ErrMalformedManifest}, ExitInput},
		{"flag", &manifest.InputError{Row: 0, Err: manifest.ErrInvalidFlag}, ExitInput},
		{"empty update", timer.ErrEmptyUpdate, ExitInput},
		{"remote", fmt.Errorf("get job: %w", &client.RemoteCallError{StatusCode: http.StatusNotFound}), ExitRemote},
		{"token", fmt.Errorf("authenticate: %w", auth.ErrTokenRequest), ExitRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
