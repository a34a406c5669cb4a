package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
	"iontrap-job-client/internal/domain/ports/adapter"
	"iontrap-job-client/internal/domain/ports/repository"
	"iontrap-job-client/internal/infra/logging"
	"iontrap-job-client/internal/infra/metrics"
)

// JobUseCase orchestrates the submit / poll / await cycle against the
// backend port. One instance serves many jobs; each job is driven by a
// single caller goroutine at a time, so the use case itself holds no
// per-job mutable state.
type JobUseCase struct {
	backend  adapter.QuantumBackendAdapter
	jobs     repository.JobRepository
	log      *zerolog.Logger
	interval time.Duration
	timeout  time.Duration
}

func NewJobUseCase(backend adapter.QuantumBackendAdapter, jobs repository.JobRepository, log *zerolog.Logger, interval, timeout time.Duration) *JobUseCase {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &JobUseCase{backend: backend, jobs: jobs, log: log, interval: interval, timeout: timeout}
}

// Submit sends the circuit to the remote machine and records the job in
// the registry. The returned Job carries the vendor handle used by Poll
// and AwaitResult.
func (uc *JobUseCase) Submit(ctx context.Context, circuit model.Circuit, shots int, machine string) (*model.Job, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", domain.ErrValidation, shots)
	}
	if machine == "" {
		return nil, fmt.Errorf("%w: empty machine name", domain.ErrValidation)
	}

	handle, err := uc.backend.SubmitJob(ctx, circuit, shots, machine)
	if err != nil {
		return nil, err
	}

	job, err := model.NewJob(uuid.NewString(), handle, machine, shots)
	if err != nil {
		return nil, err
	}
	if err := uc.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	metrics.IncSubmitted(machine, shots)
	l := logging.With(logging.WithJobID(ctx, job.Handle), uc.log)
	l.Info().Str("machine", machine).Int("shots", shots).Msg("job submitted")
	return job, nil
}

// Poll queries the remote status once and refreshes the registry record.
// The remote service owns all status transitions; the client only
// observes them.
func (uc *JobUseCase) Poll(ctx context.Context, handle string) (adapter.JobSnapshot, error) {
	start := time.Now()
	snap, err := uc.backend.JobStatus(ctx, handle)
	metrics.ObservePoll(time.Since(start), err == nil)
	if err != nil {
		return adapter.JobSnapshot{}, err
	}
	uc.record(ctx, snap)
	return snap, nil
}

// AwaitResult polls at a fixed interval until the job reaches a terminal
// status or the timeout elapses. timeout == 0 performs exactly one poll;
// timeout < 0 polls until terminal or context cancellation. Already-
// terminal jobs resolve immediately, so the call is idempotent for them.
func (uc *JobUseCase) AwaitResult(ctx context.Context, handle string, interval, timeout time.Duration) (*model.ResultPayload, error) {
	defer logging.TraceDuration(uc.log, "JobUseCase.AwaitResult")()

	if interval <= 0 {
		interval = uc.interval
	}

	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		snap, err := uc.Poll(ctx, handle)
		if err != nil {
			return nil, err
		}
		if snap.Status.Terminal() {
			return uc.resolve(ctx, snap)
		}
		if timeout >= 0 && !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: job %s still %q after %s", domain.ErrTimeout, handle, snap.Status, timeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Run is the whole cycle with configured defaults: submit, then await.
func (uc *JobUseCase) Run(ctx context.Context, circuit model.Circuit, shots int, machine string) (*model.Job, *model.ResultPayload, error) {
	job, err := uc.Submit(ctx, circuit, shots, machine)
	if err != nil {
		return nil, nil, err
	}
	payload, err := uc.AwaitResult(ctx, job.Handle, uc.interval, uc.timeout)
	if err != nil {
		return job, nil, err
	}
	return job, payload, nil
}

func (uc *JobUseCase) resolve(ctx context.Context, snap adapter.JobSnapshot) (*model.ResultPayload, error) {
	l := logging.With(logging.WithJobID(ctx, snap.Handle), uc.log)

	switch snap.Status {
	case model.JobStatusCompleted:
		metrics.IncTerminal(string(snap.Status))
		if snap.Result == nil {
			return nil, fmt.Errorf("%w: completed job %s carried no results", domain.ErrTransport, snap.Handle)
		}
		l.Info().Int("shots_returned", snap.Result.Len()).Msg("job completed")
		return snap.Result, nil

	case model.JobStatusFailed:
		metrics.IncTerminal(string(snap.Status))
		reason := snap.Reason
		if reason == "" {
			reason = "no reason reported"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrJobFailed, reason)

	case model.JobStatusCancelled:
		metrics.IncTerminal(string(snap.Status))
		// Cancelled jobs can return partial results; surface what exists.
		if snap.Result != nil && snap.Result.Len() > 0 {
			l.Warn().Int("shots_returned", snap.Result.Len()).Msg("partial results returned from cancelled job")
			return snap.Result, nil
		}
		return nil, fmt.Errorf("%w: job cancelled without returning any results", domain.ErrJobFailed)

	default:
		return nil, fmt.Errorf("%w: status %q is not terminal", domain.ErrTransport, snap.Status)
	}
}

// record mirrors the latest remote snapshot into the local registry.
// Registry failures are logged, not surfaced; the registry is a
// convenience view, not the source of truth.
func (uc *JobUseCase) record(ctx context.Context, snap adapter.JobSnapshot) {
	job, err := uc.jobs.FindByHandle(ctx, snap.Handle)
	if err != nil {
		return
	}
	job.Status = snap.Status
	job.Reason = snap.Reason
	if snap.Result != nil {
		job.Result = snap.Result
	}
	job.UpdatedAt = time.Now()
	if err := uc.jobs.Save(ctx, job); err != nil {
		uc.log.Warn().Err(err).Str("job_id", snap.Handle).Msg("registry update failed")
	}
}
