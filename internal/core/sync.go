package core

import (
	"context"
	"errors"
	"fmt"

	"dailydigest/internal/events"
	"dailydigest/internal/logger"
	"dailydigest/internal/models"

	"github.com/google/uuid"
)

// ErrNoCredential is returned when a user has no stored GitHub token.
var ErrNoCredential = errors.New("no github credential stored for user")

var ErrInvalidToken = errors.New("github token is invalid")

// SyncUserRepositories records every repository the user owns on GitHub.
// New repositories start out monitored; existing ones are left as they are.
func (s *Service) SyncUserRepositories(ctx context.Context, user models.UserConfig) (total int, created int, err error) {
	source, err := s.sourceFor(ctx, user.ID)
	if err != nil {
		return 0, 0, err
	}

	repos, err := source.UserRepositories(ctx, user.GitHubUsername)
	if err != nil {
		return 0, 0, err
	}

	for _, repo := range repos {
		repo.ID = uuid.NewString()
		repo.UserID = user.ID
		repo.Monitored = true

		isNew, err := s.store.EnsureRepository(ctx, repo)
		if err != nil {
			return len(repos), created, fmt.Errorf("store repository %s: %w", repo.FullName, err)
		}
		if isNew {
			created++
		}
	}

	logger.Info(ctx, "repositories synced", "user", user.ID, "total", len(repos), "created", created)
	if events.Em != nil {
		events.Em.RepositoriesSynced(user.ID, len(repos), created)
	}

	return len(repos), created, nil
}

// VerifyToken reports whether the user's stored token is accepted by GitHub.
func (s *Service) VerifyToken(ctx context.Context, userID string) (bool, error) {
	token, ok, err := s.creds.Token(ctx, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNoCredential
	}

	source, err := s.sources(token)
	if err != nil {
		return false, err
	}
	return s.verify(ctx, token, source)
}

// verify caches only answers GitHub actually gave; a failed request is
// retried on the next call.
func (s *Service) verify(ctx context.Context, token string, source CommitSource) (bool, error) {
	if s.cache != nil {
		if valid, found := s.cache.Lookup(ctx, token); found {
			return valid, nil
		}
	}

	valid, err := source.VerifyToken(ctx)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		s.cache.Remember(ctx, token, valid)
	}
	return valid, nil
}

// sourceFor builds a GitHub client for the user's verified token.
func (s *Service) sourceFor(ctx context.Context, userID string) (CommitSource, error) {
	token, ok, err := s.creds.Token(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if !ok {
		return nil, ErrNoCredential
	}

	source, err := s.sources(token)
	if err != nil {
		return nil, err
	}
	valid, err := s.verify(ctx, token, source)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidToken
	}
	return source, nil
}
