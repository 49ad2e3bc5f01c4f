package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned for unknown or expired job ids.
var ErrNotFound = errors.New("job not found")

// Cache is the key/value store job records live in.
type Cache interface {
	CacheGet(ctx context.Context, key string, dest interface{}) error
	CacheSet(ctx context.Context, key string, val interface{}, ttlSeconds int) error
}

type JobService struct{ cache Cache }

func NewJobService(cache Cache) *JobService { return &JobService{cache: cache} }

func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := s.cache.CacheGet(ctx, key(jobID), &job); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return &job, nil
}

func (s *JobService) store(ctx context.Context, jobID, stage string, status Status, result interface{}, errMsg string) error {
	var job Job
	_ = s.cache.CacheGet(ctx, key(jobID), &job)
	job.JobID = jobID
	job.Stage = stage
	job.Status = status
	job.Error = errMsg
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode job result: %w", err)
		}
		job.Result = b
	}
	return s.cache.CacheSet(ctx, key(jobID), job, ttl(status))
}

func (s *JobService) InitPending(ctx context.Context, jobID, stage string) error {
	return s.store(ctx, jobID, stage, StatusPending, nil, "")
}

func (s *JobService) SetProcessing(ctx context.Context, jobID, stage string) error {
	return s.store(ctx, jobID, stage, StatusProcessing, nil, "")
}

// Complete records a terminal state. result may be nil; errMsg is kept for
// failed runs.
func (s *JobService) Complete(ctx context.Context, jobID, stage string, status Status, result interface{}, errMsg string) error {
	return s.store(ctx, jobID, stage, status, result, errMsg)
}

func key(id string) string { return "job:" + id }

func ttl(s Status) int {
	if s.Terminal() {
		return 3600
	}
	return 600
}
