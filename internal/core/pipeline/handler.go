package pipeline

import (
	"context"
	"errors"

	"portfolio/internal/core/job"

	"github.com/gofiber/fiber/v2"
)

type RunEnqueuer interface {
	Enqueue(ctx context.Context, stage Stage) (string, error)
}

type Handler struct {
	runs RunEnqueuer
	jobs JobStore
}

func NewHandler(runs RunEnqueuer, jobs JobStore) *Handler {
	return &Handler{runs: runs, jobs: jobs}
}

type CreateRunRequest struct {
	Stage string `json:"stage"`
}

type CreateRunResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
}

type RunStatusResponse struct {
	Success bool `json:"success"`
	*job.Job
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) HandleCreateRun(c *fiber.Ctx) error {
	var req CreateRunRequest
	if len(c.Body()) == 0 {
		req.Stage = string(StageAll)
	} else if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid body"})
	}
	if req.Stage == "" {
		req.Stage = string(StageAll)
	}
	stage, err := ParseStage(req.Stage)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	id, err := h.runs.Enqueue(c.UserContext(), stage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(CreateRunResponse{Success: true, JobID: id})
}

func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	id := c.Params("jobId")
	j, err := h.jobs.GetJobStatus(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
	}
	return c.JSON(RunStatusResponse{Success: true, Job: j})
}
