package client

import (
	"context"
	"fmt"
	"net/http"
)

// TransferClient talks to the Globus Transfer API.
type TransferClient struct {
	base
}

// NewTransferClient creates a Transfer API client rooted at baseURL
// (e.g. https://transfer.api.globus.org/v0.10). httpClient must already
// attach the transfer access token.
func NewTransferClient(baseURL string, httpClient *http.Client) *TransferClient {
	return &TransferClient{base: newBase(baseURL, httpClient)}
}

// SubmissionID requests a fresh submission id to stamp a transfer request with.
func (c *TransferClient) SubmissionID(ctx context.Context) (string, error) {
	const op = "get submission id"

	body, err := c.do(ctx, op, http.MethodGet, "/submission_id", nil, http.StatusOK)
	if err != nil {
		return "", err
	}

	var result struct {
		Value string `json:"value"`
	}
	if err := decode(op, body, &result); err != nil {
		return "", err
	}
	if result.Value == "" {
		return "", fmt.Errorf("%s: empty submission id in response", op)
	}
	return result.Value, nil
}
