package repository

import (
	"context"

	"iontrap-job-client/internal/domain/model"
)

// JobRepository tracks jobs submitted by this process. It is a read-your-
// own-writes registry for the admin API and idempotent result retrieval;
// the remote service remains the source of truth for status.
type JobRepository interface {
	Save(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id string) (*model.Job, error)
	FindByHandle(ctx context.Context, handle string) (*model.Job, error)
	List(ctx context.Context) ([]*model.Job, error)
}
