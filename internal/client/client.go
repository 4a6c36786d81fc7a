// Package client provides typed HTTP clients for the Globus Transfer and
// Timers services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout applies when no *http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// userAgent identifies this tool to the Globus services.
const userAgent = "globus-timer-go"

// base holds what the service clients share: the service root and an
// (already authenticated) HTTP client.
type base struct {
	baseURL    string
	httpClient *http.Client
}

func newBase(baseURL string, httpClient *http.Client) base {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return base{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// do sends one request and returns the response body. Any status other than
// want yields a *RemoteCallError carrying the body. There is no retry.
func (b base) do(ctx context.Context, op, method, path string, body any, want int) ([]byte, error) {
	endpoint := b.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteCallError{Op: op, Method: method, URL: endpoint, WantStatus: want, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteCallError{Op: op, Method: method, URL: endpoint, StatusCode: resp.StatusCode, WantStatus: want, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != want {
		code, msg := errorDetail(respBody)
		return nil, &RemoteCallError{
			Op:         op,
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			WantStatus: want,
			Code:       code,
			Message:    msg,
			Body:       respBody,
		}
	}

	return respBody, nil
}

// decode unmarshals a successful response body into out.
func decode(op string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}
