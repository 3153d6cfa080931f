package models

import "time"

type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusScheduled ReportStatus = "scheduled"
	ReportStatusSent      ReportStatus = "sent"
	ReportStatusFailed    ReportStatus = "failed"
)

// Terminal reports whether no automatic transition leaves the status.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusSent || s == ReportStatusFailed
}

// ReportDateLayout is the layout of Report.Date.
const ReportDateLayout = "2006-01-02"

// Report is the persisted rendering of a DailyDigest, unique per (userId, date).
type Report struct {
	ID          string       `json:"id" bson:"id"`
	UserID      string       `json:"userId" bson:"userId"`
	Date        string       `json:"date" bson:"date"`
	Status      ReportStatus `json:"status" bson:"status"`
	ContentHTML string       `json:"contentHtml" bson:"contentHtml"`
	ContentText string       `json:"contentText" bson:"contentText"`
	CommitCount int          `json:"commitCount" bson:"commitCount"`
	RepoCount   int          `json:"repoCount" bson:"repoCount"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	SentAt      *time.Time   `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
}
