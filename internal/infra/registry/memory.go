package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"iontrap-job-client/internal/domain"
	"iontrap-job-client/internal/domain/model"
	"iontrap-job-client/internal/domain/ports/repository"
)

// Compile-time assurance this repo satisfies the port
var _ repository.JobRepository = (*MemoryJobRepo)(nil)

// MemoryJobRepo is a process-local registry of submitted jobs. Values are
// copied on the way in and out so concurrent readers (the admin API) never
// observe a record mid-update.
type MemoryJobRepo struct {
	mu       sync.RWMutex
	byID     map[string]*model.Job
	byHandle map[string]string // handle -> id
}

func NewMemoryJobRepo() *MemoryJobRepo {
	return &MemoryJobRepo{
		byID:     make(map[string]*model.Job),
		byHandle: make(map[string]string),
	}
}

func (r *MemoryJobRepo) Save(_ context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("%w: job record needs an ID", domain.ErrValidation)
	}
	cp := *job
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[cp.ID] = &cp
	if cp.Handle != "" {
		r.byHandle[cp.Handle] = cp.ID
	}
	return nil
}

func (r *MemoryJobRepo) FindByID(_ context.Context, id string) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	}
	cp := *job
	return &cp, nil
}

func (r *MemoryJobRepo) FindByHandle(_ context.Context, handle string) (*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byHandle[handle]
	if !ok {
		return nil, fmt.Errorf("%w: handle %s", domain.ErrNotFound, handle)
	}
	cp := *r.byID[id]
	return &cp, nil
}

// List returns all tracked jobs, newest submission first.
func (r *MemoryJobRepo) List(_ context.Context) ([]*model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Job, 0, len(r.byID))
	for _, job := range r.byID {
		cp := *job
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}
