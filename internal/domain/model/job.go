package model

import (
	"fmt"
	"time"

	"iontrap-job-client/internal/domain"
)

// JobStatus is the vendor-reported lifecycle state of a submitted circuit.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether no further transition can occur. Any status
// string the client does not recognize is treated as transient so that new
// vendor vocabulary keeps the polling loop alive instead of ending it.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Job is the client-side record of one remote circuit execution.
// Handle is the vendor-assigned identifier; ID is our own record key.
type Job struct {
	ID          string
	Handle      string
	Machine     string
	Shots       int
	Status      JobStatus
	Reason      string // vendor failure reason, set on failed/cancelled
	Result      *ResultPayload
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

func NewJob(id, handle, machine string, shots int) (*Job, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: empty job handle", domain.ErrValidation)
	}
	if machine == "" {
		return nil, fmt.Errorf("%w: empty machine name", domain.ErrValidation)
	}
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", domain.ErrValidation, shots)
	}
	now := time.Now()
	return &Job{
		ID:          id,
		Handle:      handle,
		Machine:     machine,
		Shots:       shots,
		Status:      JobStatusQueued,
		SubmittedAt: now,
		UpdatedAt:   now,
	}, nil
}

// ResultPayload holds the measurement outcomes of a successful (or
// partially returned cancelled) job. Bitstrings are per-shot readouts in
// submission order, e.g. "01" for a two-qubit circuit.
type ResultPayload struct {
	Bitstrings []string
}

// Counts aggregates per-shot bitstrings into outcome frequencies.
func (r *ResultPayload) Counts() map[string]int {
	counts := make(map[string]int, len(r.Bitstrings))
	for _, b := range r.Bitstrings {
		counts[b]++
	}
	return counts
}

// Len returns the number of shots actually returned, which may be fewer
// than requested for cancelled jobs with partial results.
func (r *ResultPayload) Len() int { return len(r.Bitstrings) }
