package core

import (
	"context"
	"fmt"
	"time"

	"dailydigest/internal/lifecycle"
	"dailydigest/internal/logger"
)

// SendScheduledReports evaluates the send-time rule for every active user.
func (s *Service) SendScheduledReports(ctx context.Context, now time.Time) (BatchResult, error) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list active users: %w", err)
	}

	result := BatchResult{Users: len(users)}
	for _, user := range users {
		uctx := logger.With(ctx, "user", user.ID)

		outcome, err := s.lifecycle.EvaluateSend(uctx, user, now)
		if err != nil {
			logger.Error(uctx, "send evaluation failed", err)
			result.Failed++
			continue
		}

		switch outcome {
		case lifecycle.Sent:
			result.Succeeded++
		case lifecycle.Failed:
			result.Failed++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// CleanupOldCommits purges commits past the retention threshold.
func (s *Service) CleanupOldCommits(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.lifecycle.PurgeOlderThan(ctx, s.retention, now)
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "old commits purged", "days", s.retention, "deleted", deleted)
	return deleted, nil
}
