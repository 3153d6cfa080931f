package core

import (
	"context"
	"errors"
	"fmt"

	"dailydigest/internal/events"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/logger"
	"dailydigest/internal/models"
	"dailydigest/internal/normalizer"
)

// IngestResult counts what happened to the commits fetched for one day.
type IngestResult struct {
	Fetched   int `json:"fetched"`
	Stored    int `json:"stored"`
	Noise     int `json:"noise"`
	Malformed int `json:"malformed"`
	Duplicate int `json:"duplicate"`
}

// AggregateDailyCommits fetches the user's commits for the local date and
// stores the ones that pass the normalizer. A missing or rejected token
// yields an empty result, not an error.
func (s *Service) AggregateDailyCommits(ctx context.Context, user models.UserConfig, date string) (IngestResult, error) {
	var result IngestResult

	loc, err := lifecycle.Location(user.Timezone)
	if err != nil {
		return result, err
	}
	since, until, err := DayWindow(date, loc)
	if err != nil {
		return result, err
	}

	source, err := s.sourceFor(ctx, user.ID)
	if errors.Is(err, ErrNoCredential) || errors.Is(err, ErrInvalidToken) {
		logger.Warn(ctx, "skipping commit aggregation", "user", user.ID, "reason", err)
		return result, nil
	}
	if err != nil {
		return result, err
	}

	repos, err := s.store.ListMonitoredRepositories(ctx, user.ID)
	if err != nil {
		return result, fmt.Errorf("list repositories: %w", err)
	}

	for _, repo := range repos {
		raws, err := source.DailyCommits(ctx, repo.FullName, since, until)
		if err != nil {
			logger.Warn(ctx, "commit fetch failed", "user", user.ID, "repo", repo.FullName, "error", err)
			continue
		}
		result.Fetched += len(raws)

		for _, raw := range raws {
			commit, outcome := s.normalizer.Normalize(ctx, raw, user.ID, repo.FullName)
			switch outcome {
			case normalizer.Noise:
				result.Noise++
				continue
			case normalizer.Malformed:
				result.Malformed++
				continue
			case normalizer.Duplicate:
				result.Duplicate++
				continue
			}

			inserted, err := s.store.InsertCommit(ctx, commit)
			if err != nil {
				return result, fmt.Errorf("store commit %s: %w", commit.SHA, err)
			}
			if inserted {
				result.Stored++
			} else {
				result.Duplicate++
			}
		}
	}

	logger.Info(ctx, "commits aggregated",
		"user", user.ID,
		"date", date,
		"fetched", result.Fetched,
		"stored", result.Stored,
	)
	if events.Em != nil {
		events.Em.CommitsIngested(user.ID, date, result.Stored, result.Fetched-result.Stored)
	}

	return result, nil
}
