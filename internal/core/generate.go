package core

import (
	"context"
	"fmt"
	"time"

	"dailydigest/internal/lifecycle"
	"dailydigest/internal/logger"
	"dailydigest/internal/models"
	"dailydigest/internal/renderer"
)

// GenerateForUser aggregates the user's commits for date and stores the
// day's draft report. It reports created=false when there was nothing to
// report or a report for the day already existed.
func (s *Service) GenerateForUser(ctx context.Context, user models.UserConfig, date string) (models.Report, bool, error) {
	if _, err := s.AggregateDailyCommits(ctx, user, date); err != nil {
		return models.Report{}, false, fmt.Errorf("aggregate commits: %w", err)
	}

	loc, err := lifecycle.Location(user.Timezone)
	if err != nil {
		return models.Report{}, false, err
	}
	since, until, err := DayWindow(date, loc)
	if err != nil {
		return models.Report{}, false, err
	}

	commits, err := s.store.ListUnprocessedCommits(ctx, user.ID, since, until)
	if err != nil {
		return models.Report{}, false, fmt.Errorf("list commits: %w", err)
	}
	if len(commits) == 0 {
		logger.Info(ctx, "no commits to report", "user", user.ID, "date", date)
		return models.Report{}, false, nil
	}

	digest := renderer.Render(commits, user.Developer(), since)

	report, created, err := s.lifecycle.CreateIfAbsent(ctx, user, date, digest)
	if err != nil {
		return models.Report{}, false, err
	}
	if !created {
		return report, false, nil
	}

	shas := make([]string, len(commits))
	for i, c := range commits {
		shas[i] = c.SHA
	}
	if err := s.store.MarkCommitsProcessed(ctx, shas); err != nil {
		return report, true, fmt.Errorf("mark commits processed: %w", err)
	}

	logger.Info(ctx, "report generated", "user", user.ID, "date", date, "commits", report.CommitCount)
	return report, true, nil
}

// GenerateDailyReports runs GenerateForUser for every active user on their
// local date at now. Failing users are logged and skipped.
func (s *Service) GenerateDailyReports(ctx context.Context, now time.Time) (BatchResult, error) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list active users: %w", err)
	}

	result := BatchResult{Users: len(users)}
	for _, user := range users {
		uctx := logger.With(ctx, "user", user.ID)

		loc, err := lifecycle.Location(user.Timezone)
		if err != nil {
			logger.Error(uctx, "report generation failed", err)
			result.Failed++
			continue
		}

		_, created, err := s.GenerateForUser(uctx, user, lifecycle.LocalDate(now, loc))
		switch {
		case err != nil:
			logger.Error(uctx, "report generation failed", err)
			result.Failed++
		case created:
			result.Succeeded++
		default:
			result.Skipped++
		}
	}

	return result, nil
}
