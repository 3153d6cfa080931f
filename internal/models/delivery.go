package models

import "time"

type DeliveryOutcome string

const (
	DeliverySuccess DeliveryOutcome = "success"
	DeliveryFailed  DeliveryOutcome = "failed"
)

const ChannelEmail = "email"

// DeliveryAttempt is an append-only record of one try to push a report.
type DeliveryAttempt struct {
	ID          string          `json:"id" bson:"id"`
	ReportID    string          `json:"reportId" bson:"reportId"`
	Channel     string          `json:"channel" bson:"channel"`
	Recipient   string          `json:"recipient" bson:"recipient"`
	Outcome     DeliveryOutcome `json:"outcome" bson:"outcome"`
	Error       string          `json:"error,omitempty" bson:"error,omitempty"`
	AttemptedAt time.Time       `json:"attemptedAt" bson:"attemptedAt"`
}
