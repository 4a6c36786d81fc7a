package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/globus-timer-go/internal/client"
	"github.com/raphaelgruber/globus-timer-go/internal/metrics"
)

var (
	// ErrEmptyUpdate indicates an update that would change nothing.
	ErrEmptyUpdate = errors.New("no updates specified")

	// ErrEmptyJobID indicates a blank job identifier.
	ErrEmptyJobID = errors.New("job id is required")

	// ErrMissingJobID indicates the service accepted a job but returned no id.
	ErrMissingJobID = errors.New("response has no job_id")
)

// JobService is the remote Timers API. *client.TimerClient implements it.
type JobService interface {
	CreateJob(ctx context.Context, input client.CreateJobInput) (*client.Job, error)
	GetJob(ctx context.Context, id string) (*client.Job, error)
	ListJobs(ctx context.Context) (*client.JobList, error)
	UpdateJob(ctx context.Context, id string, update client.JobUpdate) (*client.Job, error)
	DeleteJob(ctx context.Context, id string) (*client.Job, error)
}

// Patch is a sparse job update. Nil fields are left unchanged.
type Patch struct {
	Name     *string
	Label    *string
	Interval *time.Duration
}

// Manager runs job operations against the Timers service. The service is
// the only record of jobs; Manager keeps no state beyond call metrics.
type Manager struct {
	svc     JobService
	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewManager creates a manager. A nil logger discards output; a nil
// collector gets a private one.
func NewManager(svc JobService, logger *slog.Logger, collector *metrics.Collector) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Manager{svc: svc, logger: logger, metrics: collector}
}

// Create submits spec and returns the new job's id.
func (m *Manager) Create(ctx context.Context, spec *JobSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	input, err := spec.Input()
	if err != nil {
		return "", err
	}

	m.logger.Debug("creating timer job", "name", spec.Name, "items", len(spec.Request.Items), "start", input.Start)

	var job *client.Job
	err = m.metrics.Time(metrics.OpCreateJob, func() error {
		var err error
		job, err = m.svc.CreateJob(ctx, input)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("create job %q: %w", spec.Name, err)
	}
	if job.JobID == "" {
		return "", fmt.Errorf("create job %q: %w", spec.Name, ErrMissingJobID)
	}

	m.logger.Info("created timer job", "job_id", job.JobID, "name", spec.Name)
	return job.JobID, nil
}

// Get returns the service's description of a job.
func (m *Manager) Get(ctx context.Context, id string) (*client.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var job *client.Job
	err := m.metrics.Time(metrics.OpGetJob, func() error {
		var err error
		job, err = m.svc.GetJob(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

// List returns all jobs visible to the client.
func (m *Manager) List(ctx context.Context) (*client.JobList, error) {
	var list *client.JobList
	err := m.metrics.Time(metrics.OpListJobs, func() error {
		var err error
		list, err = m.svc.ListJobs(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	m.logger.Debug("listed timer jobs", "count", len(list.Jobs))
	return list, nil
}

// Update applies patch to a job.
func (m *Manager) Update(ctx context.Context, id string, patch Patch) (*client.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	update := client.JobUpdate{Name: patch.Name, Label: patch.Label}
	if patch.Interval != nil {
		if *patch.Interval < time.Second {
			return nil, fmt.Errorf("%w: interval must be at least one second, got %s", ErrInvalidRecurrence, *patch.Interval)
		}
		seconds := int64(patch.Interval.Seconds())
		update.Interval = &seconds
	}
	if update.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var job *client.Job
	err := m.metrics.Time(metrics.OpUpdateJob, func() error {
		var err error
		job, err = m.svc.UpdateJob(ctx, id, update)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update job %s: %w", id, err)
	}

	m.logger.Info("updated timer job", "job_id", id)
	return job, nil
}

// Delete removes a job. Deleting the same id twice fails on the second call.
func (m *Manager) Delete(ctx context.Context, id string) (*client.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var job *client.Job
	err := m.metrics.Time(metrics.OpDeleteJob, func() error {
		var err error
		job, err = m.svc.DeleteJob(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("delete job %s: %w", id, err)
	}

	m.logger.Info("deleted timer job", "job_id", id)
	return job, nil
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyJobID
	}
	return nil
}
