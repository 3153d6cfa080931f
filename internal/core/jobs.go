package core

import (
	"context"
	"time"

	"dailydigest/internal/env"
	"dailydigest/internal/logger"
	"dailydigest/internal/scheduler"
)

const (
	JobGenerate = "generate"
	JobSend     = "send"
	JobCleanup  = "cleanup"
)

// Jobs returns the periodic jobs on the given cron specs.
func (s *Service) Jobs(specs env.Schedules) []scheduler.Job {
	return []scheduler.Job{
		{
			Name: JobGenerate,
			Spec: specs.Generate,
			Run: func(ctx context.Context) error {
				res, err := s.GenerateDailyReports(ctx, time.Now())
				logBatch(ctx, res)
				return err
			},
		},
		{
			Name: JobSend,
			Spec: specs.Send,
			Run: func(ctx context.Context) error {
				res, err := s.SendScheduledReports(ctx, time.Now())
				logBatch(ctx, res)
				return err
			},
		},
		{
			Name: JobCleanup,
			Spec: specs.Cleanup,
			Run: func(ctx context.Context) error {
				_, err := s.CleanupOldCommits(ctx, time.Now())
				return err
			},
		},
	}
}

func logBatch(ctx context.Context, res BatchResult) {
	logger.Info(ctx, "batch done",
		"users", res.Users,
		"succeeded", res.Succeeded,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
}
