package events

import "dailydigest/internal/models"

func (e *Emitter) OperatorLogin(username string) {
	if e == nil {
		return
	}

	evt := models.Event{
		Action: "operator.login",

		ActorRole: ActorOperator,
		ActorID:   username,

		TargetType: TargetOperator,
		TargetID:   username,
	}

	e.Emit(evt)
}

// UserChanged records an operator edit of a user's report configuration.
func (e *Emitter) UserChanged(operator, userID, action string) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action:     "user." + action,
		ActorID:    operator,
		ActorRole:  ActorOperator,
		TargetID:   userID,
		TargetType: TargetUser,
	})
}
