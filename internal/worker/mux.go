package worker

import (
	"context"

	"portfolio/internal/logger"
	"portfolio/internal/platform/tasks"

	"github.com/hibiken/asynq"
)

// RunHandler executes pipeline:run tasks.
type RunHandler interface {
	HandleRunTask(ctx context.Context, task *asynq.Task) error
}

type Mux struct{ mux *asynq.ServeMux }

// NewMux routes pipeline:run tasks to runs.
func NewMux(runs RunHandler) *Mux {
	m := &Mux{mux: asynq.NewServeMux()}
	m.HandleFunc(tasks.TaskTypeRun, runs.HandleRunTask)
	return m
}

func (m *Mux) HandleFunc(t string, h func(ctx context.Context, task *asynq.Task) error) {
	m.mux.HandleFunc(t, h)
}

func (m *Mux) Mux() *asynq.ServeMux { return m.mux }

// NewServer returns an asynq server that processes one run at a time.
func NewServer(opt asynq.RedisClientOpt) *asynq.Server {
	log := logger.New("Worker")
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{tasks.DefaultQueue: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.LogErrorf("task %s failed: %v", task.Type(), err)
		}),
	})
}
