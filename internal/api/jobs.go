package api

import (
	"context"
	"errors"
	"slices"
	"strings"

	"dailydigest/internal/errmsg"
	"dailydigest/internal/logger"
	"dailydigest/internal/operators"
	"dailydigest/internal/scheduler"
	"dailydigest/internal/utils"
	"dailydigest/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type listJobsResponse struct {
	Jobs []string `json:"jobs"`
}

func jobError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrUnknownJob):
		return errmsg.JobNotFound
	case errors.Is(err, scheduler.ErrJobRunning):
		return errmsg.JobAlreadyRunning
	default:
		return errmsg.InternalServerError(err)
	}
}

// ListJobsHandler names the jobs that can be triggered.
// @Summary List jobs
// @Tags Digest Jobs
// @Security OperatorAuth
// @Produce json
// @Success 200 {object} listJobsResponse
// @Router /digest/jobs [get]
func (h *Handler) ListJobsHandler(c fiber.Ctx) error {
	return c.JSON(listJobsResponse{Jobs: h.jobs.Jobs()})
}

// RunJobHandler runs a job to completion and reports the result.
// @Summary Run job
// @Tags Digest Jobs
// @Security OperatorAuth
// @Produce json
// @Param name path string true "Job name (generate, send, cleanup)"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} errmsg._JobNotFound
// @Failure 409 {object} errmsg._JobAlreadyRunning
// @Failure 500 {object} errmsg._InternalServerError
// @Router /digest/jobs/{name}/run [post]
func (h *Handler) RunJobHandler(c fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	ctx := logger.With(c, "operator", operators.Current(c))

	if err := h.jobs.RunNow(ctx, name); err != nil {
		return utils.ErrorFrom(c, jobError(err))
	}

	return c.JSON(StatusResponse{Status: "completed"})
}

// StreamJobHandler runs a job and streams its log lines over a websocket.
// @Summary Stream job run
// @Description Upgrades to a websocket, runs the job and forwards every log line. Pass the token as ?authorization=<token> from browsers.
// @Tags Digest Jobs
// @Security OperatorAuth
// @Param name path string true "Job name"
// @Success 101
// @Failure 404 {object} errmsg._JobNotFound
// @Router /digest/ws/jobs/{name} [get]
func (h *Handler) StreamJobHandler(c fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if !slices.Contains(h.jobs.Jobs(), name) {
		return utils.StatusError(c, errmsg.JobNotFound)
	}
	operator := operators.Current(c)

	return ws.StreamWebSocket(c, func(ctx context.Context, writer *ws.WebsocketLogWriter) error {
		ctx = logger.WithLogger(ctx, logger.New(writer, "debug", false))
		ctx = logger.With(ctx, "operator", operator)

		writer.WriteStatus("info", "job "+name+" started")
		if err := h.jobs.RunNow(ctx, name); err != nil {
			return err
		}
		writer.WriteStatus("success", "job "+name+" completed")
		return nil
	})
}
