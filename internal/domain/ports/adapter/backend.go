package adapter

import (
	"context"

	"iontrap-job-client/internal/domain/model"
)

// JobSnapshot is the remote service's view of a job at one poll: the
// status plus whatever result data the status document carried.
type JobSnapshot struct {
	Handle string
	Status model.JobStatus
	Reason string
	Result *model.ResultPayload
}

// QuantumBackendAdapter is the port for the vendor's cloud execution
// service. Implementations own the wire format; callers see only the
// domain model.
type QuantumBackendAdapter interface {
	// SubmitJob sends the circuit and shot count to the remote machine
	// and returns the vendor-assigned handle.
	SubmitJob(ctx context.Context, circuit model.Circuit, shots int, machine string) (string, error)

	// JobStatus queries the current status of a previously issued handle.
	JobStatus(ctx context.Context, handle string) (JobSnapshot, error)
}
