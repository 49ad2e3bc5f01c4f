package pipeline

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/config"
	"portfolio/internal/core/job"
	"portfolio/internal/logger"
	"portfolio/internal/platform/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// JobStore records run status for the ops API.
type JobStore interface {
	InitPending(ctx context.Context, jobID, stage string) error
	SetProcessing(ctx context.Context, jobID, stage string) error
	Complete(ctx context.Context, jobID, stage string, status job.Status, result interface{}, errMsg string) error
	GetJobStatus(ctx context.Context, jobID string) (*job.Job, error)
}

type Enqueuer interface {
	Enqueue(task *asynq.Task, queue string, maxRetries int) error
}

// TaskService queues pipeline runs and executes them from the worker.
type TaskService struct {
	log   *logger.Logger
	cfg   config.Config
	deps  Deps
	jobs  JobStore
	tasks Enqueuer
}

func NewTaskService(cfg config.Config, deps Deps, jobs JobStore, t Enqueuer) *TaskService {
	return &TaskService{log: logger.New("RunTasks"), cfg: cfg, deps: deps, jobs: jobs, tasks: t}
}

// Enqueue records a pending job and queues it. Runs are never retried.
func (s *TaskService) Enqueue(ctx context.Context, stage Stage) (string, error) {
	id := uuid.New().String()
	task, err := tasks.NewRunTask(tasks.RunPayload{JobID: id, Stage: string(stage)})
	if err != nil {
		return "", err
	}
	if err := s.jobs.InitPending(ctx, id, string(stage)); err != nil {
		return "", fmt.Errorf("record job: %w", err)
	}
	if err := s.tasks.Enqueue(task, tasks.DefaultQueue, 0); err != nil {
		return "", fmt.Errorf("enqueue run: %w", err)
	}
	s.log.LogInfof("enqueued %s run %s", stage, id)
	return id, nil
}

// HandleRunTask executes a queued run. Pipeline failures are recorded on the
// job and reported to asynq as skip-retry.
func (s *TaskService) HandleRunTask(ctx context.Context, t *asynq.Task) error {
	p, err := tasks.ParseRunPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	stage, err := ParseStage(p.Stage)
	if err != nil {
		_ = s.jobs.Complete(ctx, p.JobID, p.Stage, job.StatusFailed, nil, err.Error())
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	s.log.LogInfof("processing %s run %s", stage, p.JobID)
	if err := s.jobs.SetProcessing(ctx, p.JobID, p.Stage); err != nil {
		return err
	}

	res, runErr := NewRunner(s.cfg).Run(ctx, stage, s.deps)
	if runErr != nil {
		s.log.LogError(fmt.Sprintf("run %s failed", p.JobID), runErr)
		var partial interface{}
		if res != nil {
			partial = res
		}
		if err := s.jobs.Complete(ctx, p.JobID, p.Stage, job.StatusFailed, partial, runErr.Error()); err != nil {
			return errors.Join(runErr, err)
		}
		return fmt.Errorf("%v: %w", runErr, asynq.SkipRetry)
	}

	s.log.LogSuccessf("completed %s run %s", stage, p.JobID)
	return s.jobs.Complete(ctx, p.JobID, p.Stage, job.StatusCompleted, res, "")
}
