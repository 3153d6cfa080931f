// Package normalizer turns raw commits from the commit source into stored
// commits, dropping noise, malformed input and commits seen before.
package normalizer

import (
	"context"
	"strings"
	"time"

	"dailydigest/internal/logger"
	"dailydigest/internal/models"
)

type Outcome string

const (
	Accepted  Outcome = "accepted"
	Noise     Outcome = "noise"
	Malformed Outcome = "malformed"
	Duplicate Outcome = "duplicate"
)

// CommitLookup reports whether a sha has already been stored.
type CommitLookup interface {
	CommitExists(ctx context.Context, sha string) (bool, error)
}

type Normalizer struct {
	phrases []string
	lookup  CommitLookup
	now     func() time.Time
}

// New builds a normalizer for the given noise phrases. A nil lookup disables
// duplicate detection.
func New(phrases []string, lookup CommitLookup) *Normalizer {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}

	return &Normalizer{
		phrases: lowered,
		lookup:  lookup,
		now:     time.Now,
	}
}

func (n *Normalizer) Normalize(
	ctx context.Context,
	raw models.RawCommit,
	userID string,
	repository string,
) (models.NormalizedCommit, Outcome) {
	if missing := missingField(raw); missing != "" {
		logger.Warn(ctx, "discarding malformed commit",
			"sha", raw.SHA,
			"repository", repository,
			"missing", missing,
		)
		return models.NormalizedCommit{}, Malformed
	}

	if n.IsNoise(raw.Message) {
		return models.NormalizedCommit{}, Noise
	}

	if n.lookup != nil {
		exists, err := n.lookup.CommitExists(ctx, raw.SHA)
		if err != nil {
			logger.Warn(ctx, "commit lookup failed, treating as new",
				"sha", raw.SHA,
				"error", err,
			)
		} else if exists {
			return models.NormalizedCommit{}, Duplicate
		}
	}

	commit := models.NormalizedCommit{
		SHA:          raw.SHA,
		UserID:       userID,
		Repository:   repository,
		Author:       raw.AuthorName,
		AuthorEmail:  raw.AuthorEmail,
		Summary:      Summary(raw.Message),
		Message:      raw.Message,
		URL:          raw.URL,
		CommittedAt:  raw.AuthoredAt,
		FilesChanged: len(raw.Files),
		FetchedAt:    n.now(),
	}
	for _, f := range raw.Files {
		commit.Additions += f.Additions
		commit.Deletions += f.Deletions
	}

	return commit, Accepted
}

// IsNoise reports whether the lower-cased message contains a noise phrase.
func (n *Normalizer) IsNoise(message string) bool {
	lowered := strings.ToLower(message)
	for _, p := range n.phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// Summary returns the first line of a commit message.
func Summary(message string) string {
	if i := strings.IndexAny(message, "\r\n"); i >= 0 {
		return message[:i]
	}
	return message
}

func missingField(raw models.RawCommit) string {
	switch {
	case strings.TrimSpace(raw.SHA) == "":
		return "sha"
	case strings.TrimSpace(raw.AuthorName) == "":
		return "author"
	case strings.TrimSpace(raw.Message) == "":
		return "message"
	case raw.AuthoredAt.IsZero():
		return "timestamp"
	}
	return ""
}
