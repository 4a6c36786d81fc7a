// Package auth obtains Globus access tokens with the client-credentials
// grant and builds the authenticated service clients.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/raphaelgruber/globus-timer-go/internal/client"
	"github.com/raphaelgruber/globus-timer-go/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Resource scopes requested from Globus Auth.
const (
	TransferScope = "urn:globus:auth:scope:transfer.api.globus.org:all"

	// TimerClientID is the Globus Auth client id of the Timers service.
	TimerClientID = "524230d7-ea86-4a52-8312-86065a9e0417"
	TimerScope    = "https://auth.globus.org/scopes/" + TimerClientID + "/timer"
)

// ErrTokenRequest indicates Globus Auth did not issue a token.
var ErrTokenRequest = errors.New("token request failed")

// Authorizer supplies access tokens for one resource scope.
type Authorizer struct {
	scope  string
	source oauth2.TokenSource
}

// NewAuthorizer performs the client-credentials grant for scope and keeps
// the token for reuse. httpClient is used for the token request; nil means
// http.DefaultClient.
func NewAuthorizer(ctx context.Context, creds config.Credentials, tokenURL, scope string, httpClient *http.Client) (*Authorizer, error) {
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	a := &Authorizer{scope: scope, source: cc.TokenSource(ctx)}

	// Fetch now so bad credentials surface before any job call.
	if _, err := a.Token(); err != nil {
		return nil, err
	}
	return a, nil
}

// Scope returns the resource scope this authorizer holds tokens for.
func (a *Authorizer) Scope() string {
	return a.scope
}

// Token returns a valid access token, requesting a new one if needed.
func (a *Authorizer) Token() (*oauth2.Token, error) {
	tok, err := a.source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w for scope %s: %w", ErrTokenRequest, a.scope, err)
	}
	return tok, nil
}

// HTTPClient returns a client that attaches this authorizer's bearer token
// to every request. Transport and timeout are taken from base.
func (a *Authorizer) HTTPClient(base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	return &http.Client{
		Transport: &oauth2.Transport{Source: a.source, Base: base.Transport},
		Timeout:   base.Timeout,
	}
}

// Clients holds the authenticated service clients for one invocation.
type Clients struct {
	Transfer *client.TransferClient
	Timer    *client.TimerClient
}

// NewClients obtains a token for each scope and builds the Transfer and
// Timers clients with cfg's endpoints and HTTP timeout. Every request,
// token requests included, is logged to logger; nil discards.
func NewClients(ctx context.Context, creds config.Credentials, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	httpClient := &http.Client{
		Transport: client.LoggingTransport(logger, nil),
		Timeout:   cfg.HTTPTimeout,
	}

	transferAuth, err := NewAuthorizer(ctx, creds, cfg.AuthTokenURL, TransferScope, httpClient)
	if err != nil {
		return nil, err
	}
	timerAuth, err := NewAuthorizer(ctx, creds, cfg.AuthTokenURL, TimerScope, httpClient)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Transfer: client.NewTransferClient(cfg.TransferURL, transferAuth.HTTPClient(httpClient)),
		Timer:    client.NewTimerClient(cfg.TimerURL, timerAuth.HTTPClient(httpClient)),
	}, nil
}
