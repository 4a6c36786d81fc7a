// Package timer describes recurring transfer jobs and manages them on the
// Globus Timers service.
package timer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raphaelgruber/globus-timer-go/internal/client"
	"github.com/raphaelgruber/globus-timer-go/internal/transfer"
)

const (
	// TransferActionURL is the action provider that runs a transfer when the timer fires.
	TransferActionURL = "https://actions.automate.globus.org/transfer/transfer/run"

	// TransferActionScope is the scope the timer uses to call the transfer action provider.
	TransferActionScope = "https://auth.globus.org/scopes/actions.globus.org/transfer/transfer"
)

var (
	// ErrInvalidRecurrence indicates that not exactly one of interval and
	// run count was given, or that the one given is out of range.
	ErrInvalidRecurrence = errors.New("invalid recurrence")

	// ErrInvalidSpec indicates a job spec field other than recurrence is unusable.
	ErrInvalidSpec = errors.New("invalid job spec")
)

// JobSpec describes a timer job that runs one transfer request.
// Exactly one of Interval and StopAfterRuns is set.
type JobSpec struct {
	Request       *transfer.Request
	Start         time.Time
	Interval      *time.Duration
	StopAfterRuns *int
	Name          string
	Label         string
	Scope         string
}

// JobOption configures NewJobSpec.
type JobOption func(*JobSpec)

// WithInterval makes the job repeat every d, without a run bound.
func WithInterval(d time.Duration) JobOption {
	return func(s *JobSpec) {
		s.Interval = &d
	}
}

// WithStopAfterRuns bounds the job to n runs.
func WithStopAfterRuns(n int) JobOption {
	return func(s *JobSpec) {
		s.StopAfterRuns = &n
	}
}

// WithLabel sets a friendly label.
func WithLabel(label string) JobOption {
	return func(s *JobSpec) {
		s.Label = label
	}
}

// WithScope overrides TransferActionScope.
func WithScope(scope string) JobOption {
	return func(s *JobSpec) {
		s.Scope = scope
	}
}

// NewJobSpec builds and validates a job spec.
func NewJobSpec(req *transfer.Request, start time.Time, name string, opts ...JobOption) (*JobSpec, error) {
	spec := &JobSpec{
		Request: req,
		Start:   start,
		Name:    name,
		Scope:   TransferActionScope,
	}
	for _, opt := range opts {
		opt(spec)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks the spec is complete.
func (s *JobSpec) Validate() error {
	switch {
	case s.Interval == nil && s.StopAfterRuns == nil:
		return fmt.Errorf("%w: one of interval or run count is required", ErrInvalidRecurrence)
	case s.Interval != nil && s.StopAfterRuns != nil:
		return fmt.Errorf("%w: interval and run count are mutually exclusive", ErrInvalidRecurrence)
	case s.Interval != nil && *s.Interval < time.Second:
		return fmt.Errorf("%w: interval must be at least one second, got %s", ErrInvalidRecurrence, *s.Interval)
	case s.StopAfterRuns != nil && *s.StopAfterRuns < 1:
		return fmt.Errorf("%w: run count must be at least 1, got %d", ErrInvalidRecurrence, *s.StopAfterRuns)
	}

	if s.Request == nil {
		return fmt.Errorf("%w: transfer request is required", ErrInvalidSpec)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSpec)
	}
	if s.Start.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidSpec)
	}
	if s.Scope == "" {
		return fmt.Errorf("%w: scope is required", ErrInvalidSpec)
	}
	return nil
}

// Input converts the spec to the Timers create-job document.
func (s *JobSpec) Input() (client.CreateJobInput, error) {
	body, err := json.Marshal(map[string]any{"body": s.Request})
	if err != nil {
		return client.CreateJobInput{}, fmt.Errorf("marshal transfer request: %w", err)
	}

	input := client.CreateJobInput{
		Name:         s.Name,
		Label:        s.Label,
		Start:        s.Start.UTC(),
		CallbackURL:  TransferActionURL,
		CallbackBody: body,
		Scope:        s.Scope,
	}
	if s.Interval != nil {
		seconds := int64(s.Interval.Seconds())
		input.Interval = &seconds
	}
	if s.StopAfterRuns != nil {
		n := *s.StopAfterRuns
		input.StopAfter = &client.StopAfter{NRuns: &n}
	}
	return input, nil
}
