package events

import "dailydigest/internal/models"

func (e *Emitter) ReportCreated(report models.Report) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "report.created",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   report.ID,
		TargetType: TargetReport,
		Props: map[string]any{
			"userId":      report.UserID,
			"date":        report.Date,
			"commitCount": report.CommitCount,
		},
	})
}

func (e *Emitter) ReportSent(report models.Report, recipient string) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "report.sent",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   report.ID,
		TargetType: TargetReport,
		Props: map[string]any{
			"userId":    report.UserID,
			"date":      report.Date,
			"recipient": recipient,
		},
	})
}

func (e *Emitter) ReportFailed(report models.Report, recipient string, err error) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "report.failed",
		ActorID:    ActorSystem,
		ActorRole:  ActorSystem,
		TargetID:   report.ID,
		TargetType: TargetReport,
		Props: map[string]any{
			"userId":    report.UserID,
			"date":      report.Date,
			"recipient": recipient,
			"error":     err.Error(),
		},
	})
}

// ReportResent records an operator-initiated delivery of a failed report.
func (e *Emitter) ReportResent(report models.Report, operator string, ok bool) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "report.resent",
		ActorID:    operator,
		ActorRole:  ActorOperator,
		TargetID:   report.ID,
		TargetType: TargetReport,
		Props: map[string]any{
			"userId":  report.UserID,
			"success": ok,
		},
	})
}
