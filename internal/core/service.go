// Package core wires the digest pipeline together: repository sync, commit
// aggregation, report generation, the send sweep and the retention sweep.
package core

import (
	"context"
	"time"

	"dailydigest/internal/lifecycle"
	"dailydigest/internal/models"
	"dailydigest/internal/normalizer"
)

type Store interface {
	ListActiveUsers(ctx context.Context) ([]models.UserConfig, error)
	GetUser(ctx context.Context, id string) (models.UserConfig, error)
	ListMonitoredRepositories(ctx context.Context, userID string) ([]models.Repository, error)
	EnsureRepository(ctx context.Context, repo models.Repository) (bool, error)
	CommitExists(ctx context.Context, sha string) (bool, error)
	InsertCommit(ctx context.Context, commit models.NormalizedCommit) (bool, error)
	ListUnprocessedCommits(ctx context.Context, userID string, since, until time.Time) ([]models.NormalizedCommit, error)
	MarkCommitsProcessed(ctx context.Context, shas []string) error
}

// CredentialProvider resolves a user's GitHub access token.
type CredentialProvider interface {
	Token(ctx context.Context, userID string) (string, bool, error)
}

// CommitSource is a GitHub client bound to one user's token.
type CommitSource interface {
	DailyCommits(ctx context.Context, fullName string, since, until time.Time) ([]models.RawCommit, error)
	VerifyToken(ctx context.Context) (bool, error)
	UserRepositories(ctx context.Context, username string) ([]models.Repository, error)
}

type SourceFactory func(token string) (CommitSource, error)

type Lifecycle interface {
	CreateIfAbsent(ctx context.Context, user models.UserConfig, date string, digest models.DailyDigest) (models.Report, bool, error)
	EvaluateSend(ctx context.Context, user models.UserConfig, now time.Time) (lifecycle.SendOutcome, error)
	PurgeOlderThan(ctx context.Context, days int, now time.Time) (int64, error)
}

// TokenCache remembers recent token verification results.
type TokenCache interface {
	Lookup(ctx context.Context, token string) (valid bool, found bool)
	Remember(ctx context.Context, token string, valid bool)
}

type Config struct {
	NoisePhrases  []string
	RetentionDays int
}

type Service struct {
	store      Store
	creds      CredentialProvider
	sources    SourceFactory
	lifecycle  Lifecycle
	normalizer *normalizer.Normalizer
	cache      TokenCache
	retention  int
}

func NewService(
	store Store,
	creds CredentialProvider,
	sources SourceFactory,
	lc Lifecycle,
	cfg Config,
) *Service {
	retention := cfg.RetentionDays
	if retention <= 0 {
		retention = lifecycle.DefaultRetentionDays
	}

	return &Service{
		store:      store,
		creds:      creds,
		sources:    sources,
		lifecycle:  lc,
		normalizer: normalizer.New(cfg.NoisePhrases, store),
		retention:  retention,
	}
}

// WithTokenCache enables caching of token verification results.
func (s *Service) WithTokenCache(cache TokenCache) *Service {
	s.cache = cache
	return s
}

// BatchResult counts per-user outcomes of one job invocation.
type BatchResult struct {
	Users     int `json:"users"`
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// DayWindow is [local midnight, next local midnight) of date in loc.
func DayWindow(date string, loc *time.Location) (time.Time, time.Time, error) {
	since, err := time.ParseInLocation(models.ReportDateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return since, since.AddDate(0, 0, 1), nil
}
