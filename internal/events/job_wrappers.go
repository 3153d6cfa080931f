package events

import (
	"time"

	"dailydigest/internal/models"
)

// JobStarted records the beginning of a scheduled or manual job attempt.
func (e *Emitter) JobStarted(job string, attempt int) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "job.started",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   job,
		TargetType: TargetJob,
		Props: map[string]any{
			"attempt": attempt,
		},
	})
}

func (e *Emitter) JobFinished(job string, attempts int, took time.Duration) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "job.finished",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   job,
		TargetType: TargetJob,
		Props: map[string]any{
			"attempts":   attempts,
			"durationMs": took.Milliseconds(),
		},
	})
}

// JobFailed records a job that exhausted its retry policy.
func (e *Emitter) JobFailed(job string, attempts int, err error) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "job.failed",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   job,
		TargetType: TargetJob,
		Props: map[string]any{
			"attempts": attempts,
			"error":    err.Error(),
		},
	})
}
