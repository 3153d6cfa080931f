package events

import "dailydigest/internal/models"

func (e *Emitter) CommitsIngested(userID, date string, stored, skipped int) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "commits.ingested",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   userID,
		TargetType: TargetUser,
		Props: map[string]any{
			"date":    date,
			"stored":  stored,
			"skipped": skipped,
		},
	})
}

func (e *Emitter) CommitsPurged(days int, deleted int64) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "commits.purged",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   "commits",
		TargetType: "collection",
		Props: map[string]any{
			"olderThanDays": days,
			"deleted":       deleted,
		},
	})
}

func (e *Emitter) RepositoriesSynced(userID string, total, created int) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "repositories.synced",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   userID,
		TargetType: TargetUser,
		Props: map[string]any{
			"total":   total,
			"created": created,
		},
	})
}
