// Package transfer builds Globus transfer request documents from manifests.
package transfer

import (
	"fmt"
	"time"

	"github.com/raphaelgruber/globus-timer-go/internal/manifest"
)

// Document types used by the Transfer API.
const (
	DataTypeTransfer     = "transfer"
	DataTypeTransferItem = "transfer_item"
)

// DefaultDeadline is how long the service has to complete a transfer
// when the caller does not supply a deadline.
const DefaultDeadline = 10 * 24 * time.Hour

// SyncLevel controls which files the service skips at the destination.
type SyncLevel int

const (
	// SyncExists copies files that do not exist at the destination.
	SyncExists SyncLevel = iota
	// SyncSize also copies files whose size differs.
	SyncSize
	// SyncMtime also copies files whose modification time is newer.
	SyncMtime
	// SyncChecksum also copies files whose checksums differ.
	SyncChecksum
)

// Request is a transfer task document. Deadline is formatted by the
// Transfer API's date convention when marshalled.
type Request struct {
	DataType            string    `json:"DATA_TYPE"`
	SubmissionID        string    `json:"submission_id,omitempty"`
	SourceEndpoint      string    `json:"source_endpoint"`
	DestinationEndpoint string    `json:"destination_endpoint"`
	SyncLevel           SyncLevel `json:"sync_level"`
	PreserveTimestamp   bool      `json:"preserve_timestamp"`
	Deadline            Deadline  `json:"deadline"`
	Items               []Item    `json:"DATA"`
}

// Item is one source/destination pair within a Request.
type Item struct {
	DataType        string `json:"DATA_TYPE"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Recursive       bool   `json:"recursive"`
}

// Deadline marshals as "2006-01-02 15:04:05+00:00" in UTC.
type Deadline struct {
	time.Time
}

const deadlineLayout = "2006-01-02 15:04:05-07:00"

// MarshalJSON implements json.Marshaler.
func (d Deadline) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.UTC().Format(deadlineLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("deadline: expected quoted string, got %s", data)
	}
	s := string(data[1 : len(data)-1])
	for _, layout := range []string{deadlineLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("deadline: unrecognised format %q", s)
}

type buildOptions struct {
	deadline     *time.Time
	submissionID string
	syncLevel    SyncLevel
	now          func() time.Time
}

// Option configures Build.
type Option func(*buildOptions)

// WithDeadline overrides the default deadline.
func WithDeadline(t time.Time) Option {
	return func(o *buildOptions) {
		o.deadline = &t
	}
}

// WithSubmissionID stamps the request with a submission id obtained from
// the Transfer API.
func WithSubmissionID(id string) Option {
	return func(o *buildOptions) {
		o.submissionID = id
	}
}

// WithSyncLevel overrides the default SyncExists.
func WithSyncLevel(l SyncLevel) Option {
	return func(o *buildOptions) {
		o.syncLevel = l
	}
}

// WithClock sets the clock used for the default deadline.
func WithClock(now func() time.Time) Option {
	return func(o *buildOptions) {
		o.now = now
	}
}

// Build creates a transfer request with one item per manifest row, in row
// order. Paths are passed through untouched; the service validates them.
// A row with an unrecognised recursive flag fails the whole build.
func Build(srcEndpoint, dstEndpoint string, table manifest.Table, opts ...Option) (*Request, error) {
	o := buildOptions{
		syncLevel: SyncExists,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	deadline := o.now().UTC().Add(DefaultDeadline)
	if o.deadline != nil {
		deadline = *o.deadline
	}

	req := &Request{
		DataType:            DataTypeTransfer,
		SubmissionID:        o.submissionID,
		SourceEndpoint:      srcEndpoint,
		DestinationEndpoint: dstEndpoint,
		SyncLevel:           o.syncLevel,
		PreserveTimestamp:   true,
		Deadline:            Deadline{deadline},
		Items:               make([]Item, 0, len(table)),
	}

	for i, rec := range table {
		recursive, err := manifest.ParseBool(rec.Recursive)
		if err != nil {
			return nil, &manifest.InputError{Row: i, Err: err}
		}
		req.Items = append(req.Items, Item{
			DataType:        DataTypeTransferItem,
			SourcePath:      rec.SourcePath,
			DestinationPath: rec.DestinationPath,
			Recursive:       recursive,
		})
	}

	return req, nil
}
