package auth_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/raphaelgruber/globus-timer-go/internal/auth"
	"github.com/raphaelgruber/globus-timer-go/internal/client/clienttest"
	"github.com/raphaelgruber/globus-timer-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(srv *clienttest.Server) config.Config {
	return config.Config{
		AuthTokenURL: srv.TokenURL(),
		TransferURL:  srv.TransferURL(),
		TimerURL:     srv.TimerURL(),
		HTTPTimeout:  5 * time.Second,
	}
}

func TestNewAuthorizer(t *testing.T) {
	srv := clienttest.NewServer(t)
	creds := config.Credentials{ClientID: srv.ClientID, ClientSecret: srv.ClientSecret}

	a, err := auth.NewAuthorizer(context.Background(), creds, srv.TokenURL(), auth.TimerScope, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, auth.TimerScope, a.Scope())

	tok, err := a.Token()
	require.NoError(t, err)
	assert.Equal(t, "token:"+auth.TimerScope, tok.AccessToken)

	// The token is reused, not requested again.
	_, err = a.Token()
	require.NoError(t, err)
	assert.Equal(t, []string{"POST " + clienttest.TokenPath}, srv.Requests())
}

func TestNewAuthorizerBadCredentials(t *testing.T) {
	srv := clienttest.NewServer(t)
	creds := config.Credentials{ClientID: srv.ClientID, ClientSecret: "wrong"}

	a, err := auth.NewAuthorizer(context.Background(), creds, srv.TokenURL(), auth.TransferScope, srv.Client())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, auth.ErrTokenRequest)
	assert.NotContains(t, err.Error(), "wrong")
}

func TestNewClients(t *testing.T) {
	srv := clienttest.NewServer(t)
	creds := config.Credentials{ClientID: srv.ClientID, ClientSecret: srv.ClientSecret}
	ctx := context.Background()

	clients, err := auth.NewClients(ctx, creds, testConfig(srv), nil)
	require.NoError(t, err)

	id, err := clients.Transfer.SubmissionID(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	list, err := clients.Timer.ListJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Jobs)
}

func TestNewClientsFailsBeforeJobCalls(t *testing.T) {
	srv := clienttest.NewServer(t)
	creds := config.Credentials{ClientID: "someone-else", ClientSecret: "nope"}

	_, err := auth.NewClients(context.Background(), creds, testConfig(srv), nil)
	require.ErrorIs(t, err, auth.ErrTokenRequest)

	for _, req := range srv.Requests() {
		assert.Equal(t, "POST "+clienttest.TokenPath, req)
	}
}

func TestNewClientsLogsRequestsWithoutSecrets(t *testing.T) {
	srv := clienttest.NewServer(t)
	creds := config.Credentials{ClientID: srv.ClientID, ClientSecret: srv.ClientSecret}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	clients, err := auth.NewClients(context.Background(), creds, testConfig(srv), logger)
	require.NoError(t, err)
	_, err = clients.Timer.ListJobs(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, clienttest.TokenPath)
	assert.Contains(t, out, clienttest.TimerPath+"/jobs/")
	assert.NotContains(t, out, srv.ClientSecret)
	assert.NotContains(t, out, "token:")
}
