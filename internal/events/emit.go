package events

import (
	"context"
	"time"

	"dailydigest/internal/logger"
	"dailydigest/internal/models"

	"github.com/google/uuid"
)

const (
	ActorOperator = "operator"
	ActorSystem   = "system"
)

const (
	TargetOperator = "operator"
	TargetUser     = "user"
	TargetReport   = "report"
	TargetJob      = "job"
)

func (e *Emitter) Emit(evt models.Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	evt.TimeStamp = time.Now().UTC()

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		if err := e.InsertOne(ctx, evt); err != nil {
			logger.Warn(ctx, "event insert failed", "action", evt.Action, "error", err)
		}
		e.mirror(ctx, []models.Event{evt})
	}
}

// mirror hands stored events to the attached publisher, if any.
func (e *Emitter) mirror(ctx context.Context, evts []models.Event) {
	if e.Publish == nil {
		return
	}
	if err := e.Publish(ctx, evts); err != nil {
		logger.Warn(ctx, "event publish failed", "events", len(evts), "error", err)
	}
}
