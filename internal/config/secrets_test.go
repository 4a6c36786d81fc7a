package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphaelgruber/globus-timer-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".globus_secrets")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadSecretsMissingFile(t *testing.T) {
	secrets, err := config.ReadSecrets("/path/to/.inifile")
	require.Error(t, err)
	assert.Nil(t, secrets, "must not return a partial mapping")
	assert.ErrorIs(t, err, config.ErrSecretsNotFound)
	assert.True(t, config.IsSecretsError(err))
}

func TestReadSecretsDirectory(t *testing.T) {
	_, err := config.ReadSecrets(t.TempDir())
	assert.ErrorIs(t, err, config.ErrSecretsNotFound)
}

func TestReadSecretsMalformed(t *testing.T) {
	path := writeSecrets(t, "[globus\nclient_id = abc\n")
	_, err := config.ReadSecrets(path)
	assert.ErrorIs(t, err, config.ErrMalformedSecrets)
}

func TestLoadCredentials(t *testing.T) {
	path := writeSecrets(t, "[globus]\nclient_id = my-client\nclient_secret =   s3cr3t  \n")

	creds, err := config.LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "my-client", creds.ClientID)
	assert.Equal(t, "s3cr3t", creds.ClientSecret)
}

func TestGetRequiredFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		section string
		key     string
		wantErr error
	}{
		{"empty client id", "[globus]\nclient_id =\nclient_secret = x\n", "globus", "client_id", config.ErrEmptyValue},
		{"blank client id", "[globus]\nclient_id =    \n", "globus", "client_id", config.ErrEmptyValue},
		{"missing secret key", "[globus]\nclient_id = abc\n", "globus", "client_secret", config.ErrMissingKey},
		{"missing section", "[other]\nclient_id = abc\n", "globus", "client_secret", config.ErrMissingSection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secrets, err := config.ReadSecrets(writeSecrets(t, tt.content))
			require.NoError(t, err)

			val, err := secrets.GetRequired(tt.section, tt.key)
			require.Error(t, err)
			assert.Empty(t, val)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, config.IsSecretsError(err))
		})
	}
}

func TestEmptyAndMissingAreDistinct(t *testing.T) {
	secrets, err := config.ReadSecrets(writeSecrets(t, "[globus]\nclient_id =\n"))
	require.NoError(t, err)

	_, idErr := secrets.ClientID()
	_, secretErr := secrets.ClientSecret()

	assert.ErrorIs(t, idErr, config.ErrEmptyValue)
	assert.NotErrorIs(t, idErr, config.ErrMissingKey)
	assert.ErrorIs(t, secretErr, config.ErrMissingKey)
	assert.NotErrorIs(t, secretErr, config.ErrEmptyValue)
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	creds, err := config.LoadCredentials(writeSecrets(t, "[globus]\nCLIENT_ID = abc\nClient_Secret = def\n"))
	require.NoError(t, err)
	assert.Equal(t, "abc", creds.ClientID)
	assert.Equal(t, "def", creds.ClientSecret)
}

func TestCredentialsNeverLogSecret(t *testing.T) {
	creds := config.Credentials{ClientID: "id-123", ClientSecret: "top-secret"}

	assert.NotContains(t, creds.String(), "top-secret")

	var stderr, file bytes.Buffer
	logger := config.SetupLoggerWithWriters(&stderr, &file, slog.LevelDebug)
	logger.Info("loaded", "creds", creds)

	assert.Contains(t, stderr.String(), "id-123")
	assert.NotContains(t, stderr.String(), "top-secret")
	assert.NotContains(t, file.String(), "top-secret")
}

func TestDefaultSecretsPath(t *testing.T) {
	assert.Equal(t, ".globus_secrets", filepath.Base(config.DefaultSecretsPath()))
}
