package tasks

import (
	"encoding/json"
	"fmt"

	"portfolio/internal/platform/redis"

	"github.com/hibiken/asynq"
)

const (
	TaskTypeRun  = "pipeline:run"
	DefaultQueue = "default"
)

// RunPayload is the body of a pipeline:run task.
type RunPayload struct {
	JobID string `json:"job_id"`
	Stage string `json:"stage"`
}

func NewRunTask(p RunPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode run payload: %w", err)
	}
	return asynq.NewTask(TaskTypeRun, b), nil
}

func ParseRunPayload(t *asynq.Task) (RunPayload, error) {
	var p RunPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return RunPayload{}, fmt.Errorf("decode run payload: %w", err)
	}
	return p, nil
}

type Client struct{ c *asynq.Client }

func New(r *redis.Service) *Client { return &Client{c: asynq.NewClient(r.AsynqRedisOpt())} }

func (t *Client) Enqueue(task *asynq.Task, queue string, maxRetries int) error {
	_, err := t.c.Enqueue(task, asynq.Queue(queue), asynq.MaxRetry(maxRetries))
	return err
}

func (t *Client) Close() error { return t.c.Close() }
