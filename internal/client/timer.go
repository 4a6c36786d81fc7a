package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// TimerClient talks to the Globus Timers API.
type TimerClient struct {
	base
}

// NewTimerClient creates a Timers API client rooted at baseURL
// (e.g. https://timer.automate.globus.org). httpClient must already attach
// the timer access token.
func NewTimerClient(baseURL string, httpClient *http.Client) *TimerClient {
	return &TimerClient{base: newBase(baseURL, httpClient)}
}

// =============================================================================
// TYPES
// =============================================================================

// StopAfter bounds how long a timer keeps running.
type StopAfter struct {
	Date  *time.Time `json:"date,omitempty"`
	NRuns *int       `json:"n_runs,omitempty"`
}

// Job is a timer job as described by the service. Raw is the exact
// response document the fields were decoded from.
type Job struct {
	JobID          string     `json:"job_id"`
	Name           string     `json:"name"`
	Label          *string    `json:"label,omitempty"`
	Status         string     `json:"status,omitempty"`
	Start          string     `json:"start,omitempty"`
	Interval       *float64   `json:"interval,omitempty"`
	Scope          string     `json:"scope,omitempty"`
	CallbackURL    string     `json:"callback_url,omitempty"`
	StopAfter      *StopAfter `json:"stop_after,omitempty"`
	SubmittedAt    string     `json:"submitted_at,omitempty"`
	LastRanAt      *string    `json:"last_ran_at,omitempty"`
	NextRun        *string    `json:"next_run,omitempty"`
	NRuns          int        `json:"n_runs"`
	NErrors        int        `json:"n_errors"`
	InactiveReason any        `json:"inactive_reason,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// JobList is the response of ListJobs.
type JobList struct {
	Jobs []Job `json:"jobs"`

	Raw json.RawMessage `json:"-"`
}

// CreateJobInput is the request document for creating a timer job.
// Interval is in seconds; nil means the job is bounded by StopAfter only.
type CreateJobInput struct {
	Name         string          `json:"name"`
	Label        string          `json:"label,omitempty"`
	Start        time.Time       `json:"start"`
	Interval     *int64          `json:"interval"`
	StopAfter    *StopAfter      `json:"stop_after,omitempty"`
	CallbackURL  string          `json:"callback_url"`
	CallbackBody json.RawMessage `json:"callback_body"`
	Scope        string          `json:"scope"`
}

// JobUpdate is a sparse update. Nil fields are left unchanged by the service.
type JobUpdate struct {
	Name     *string `json:"name,omitempty"`
	Label    *string `json:"label,omitempty"`
	Interval *int64  `json:"interval,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u JobUpdate) IsEmpty() bool {
	return u.Name == nil && u.Label == nil && u.Interval == nil
}

// =============================================================================
// JOB OPERATIONS
// =============================================================================

// CreateJob submits a new timer job. The service answers 201 Created.
func (c *TimerClient) CreateJob(ctx context.Context, input CreateJobInput) (*Job, error) {
	const op = "create timer job"

	body, err := c.do(ctx, op, http.MethodPost, "/jobs/", input, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return decodeJob(op, body)
}

// GetJob retrieves a job by ID.
func (c *TimerClient) GetJob(ctx context.Context, id string) (*Job, error) {
	const op = "get timer job"

	body, err := c.do(ctx, op, http.MethodGet, jobPath(id), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeJob(op, body)
}

// ListJobs returns all jobs owned by the calling client.
func (c *TimerClient) ListJobs(ctx context.Context) (*JobList, error) {
	const op = "list timer jobs"

	body, err := c.do(ctx, op, http.MethodGet, "/jobs/", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var list JobList
	if err := decode(op, body, &list); err != nil {
		return nil, err
	}
	list.Raw = body
	return &list, nil
}

// UpdateJob patches a job and returns its new description.
func (c *TimerClient) UpdateJob(ctx context.Context, id string, update JobUpdate) (*Job, error) {
	const op = "update timer job"

	body, err := c.do(ctx, op, http.MethodPatch, jobPath(id), update, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeJob(op, body)
}

// DeleteJob deletes a job and returns the description of what was deleted.
// Deleting an unknown or already-deleted job fails at the service.
func (c *TimerClient) DeleteJob(ctx context.Context, id string) (*Job, error) {
	const op = "delete timer job"

	body, err := c.do(ctx, op, http.MethodDelete, jobPath(id), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeJob(op, body)
}

func jobPath(id string) string {
	return "/jobs/" + url.PathEscape(id)
}

func decodeJob(op string, body []byte) (*Job, error) {
	var job Job
	if err := decode(op, body, &job); err != nil {
		return nil, err
	}
	job.Raw = body
	return &job, nil
}
