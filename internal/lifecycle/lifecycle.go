// Package lifecycle owns the report state machine: creation in draft, the
// send-time decision, delivery and the retention sweep.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailydigest/internal/events"
	"dailydigest/internal/logger"
	"dailydigest/internal/mailer"
	"dailydigest/internal/models"
	"dailydigest/internal/store"

	"github.com/google/uuid"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNotResendable  = errors.New("only failed reports can be resent")
	ErrInvalidDays    = errors.New("retention days must be positive")
)

type SendOutcome string

const (
	Sent    SendOutcome = "sent"
	Skipped SendOutcome = "skipped"
	Failed  SendOutcome = "failed"
)

const DefaultRetentionDays = 30

type ReportStore interface {
	CreateReportIfAbsent(ctx context.Context, report models.Report) (models.Report, bool, error)
	FindReport(ctx context.Context, userID, date string) (models.Report, error)
	GetReport(ctx context.Context, id string) (models.Report, error)
	TransitionReport(ctx context.Context, id string, from []models.ReportStatus, to models.ReportStatus, sentAt *time.Time) (bool, error)
}

type DeliveryLog interface {
	AppendDelivery(ctx context.Context, attempt models.DeliveryAttempt) error
}

type CommitPurger interface {
	PurgeCommitsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Store interface {
	ReportStore
	DeliveryLog
	CommitPurger
}

type Transport interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type Manager struct {
	store      Store
	transport  Transport
	sendWindow time.Duration
	now        func() time.Time
}

func New(s Store, transport Transport, sendWindow time.Duration) *Manager {
	return &Manager{
		store:      s,
		transport:  transport,
		sendWindow: sendWindow,
		now:        time.Now,
	}
}

// CreateIfAbsent stores digest as the user's draft for date. An existing
// report for the same day is returned untouched with created=false.
func (m *Manager) CreateIfAbsent(
	ctx context.Context,
	user models.UserConfig,
	date string,
	digest models.DailyDigest,
) (models.Report, bool, error) {
	report := models.Report{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Date:        date,
		Status:      models.ReportStatusDraft,
		ContentHTML: digest.HTML,
		ContentText: digest.Text,
		CommitCount: digest.TotalCommits,
		RepoCount:   len(digest.Repositories),
		CreatedAt:   m.now().UTC(),
	}

	stored, created, err := m.store.CreateReportIfAbsent(ctx, report)
	if err != nil {
		return models.Report{}, false, fmt.Errorf("create report for %s on %s: %w", user.ID, date, err)
	}

	if created && events.Em != nil {
		events.Em.ReportCreated(stored)
	}

	return stored, created, nil
}

// EvaluateSend delivers the user's pending report when now matches their
// report time. Sent and failed reports are left alone.
func (m *Manager) EvaluateSend(ctx context.Context, user models.UserConfig, now time.Time) (SendOutcome, error) {
	loc, err := Location(user.Timezone)
	if err != nil {
		return Skipped, err
	}

	date, due, err := SendDate(now, loc, user.ReportTime, m.sendWindow)
	if err != nil {
		return Skipped, err
	}
	if !due {
		return Skipped, nil
	}

	report, err := m.store.FindReport(ctx, user.ID, date)
	if errors.Is(err, store.ErrNotFound) {
		logger.Debug(ctx, "no report to send", "user", user.ID, "date", date)
		return Skipped, nil
	}
	if err != nil {
		return Skipped, fmt.Errorf("find report for %s on %s: %w", user.ID, date, err)
	}
	if report.Status.Terminal() {
		return Skipped, nil
	}

	return m.deliver(ctx, user, report, now, report.Status)
}

// Resend makes a new delivery attempt for a failed report.
func (m *Manager) Resend(ctx context.Context, user models.UserConfig, reportID string) (SendOutcome, error) {
	report, err := m.store.GetReport(ctx, reportID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && report.UserID != user.ID) {
		return Skipped, ErrReportNotFound
	}
	if err != nil {
		return Skipped, err
	}
	if report.Status != models.ReportStatusFailed {
		return Skipped, ErrNotResendable
	}

	return m.deliver(ctx, user, report, m.now(), models.ReportStatusFailed)
}

func (m *Manager) deliver(
	ctx context.Context,
	user models.UserConfig,
	report models.Report,
	now time.Time,
	from models.ReportStatus,
) (SendOutcome, error) {
	msg := mailer.Message{
		To:      user.Email,
		Subject: subjectFor(report),
		HTML:    report.ContentHTML,
		Text:    report.ContentText,
	}

	sendErr := m.transport.Send(ctx, msg)

	attempt := models.DeliveryAttempt{
		ID:          uuid.NewString(),
		ReportID:    report.ID,
		Channel:     models.ChannelEmail,
		Recipient:   user.Email,
		Outcome:     models.DeliverySuccess,
		AttemptedAt: now.UTC(),
	}
	if sendErr != nil {
		attempt.Outcome = models.DeliveryFailed
		attempt.Error = sendErr.Error()
	}
	if err := m.store.AppendDelivery(ctx, attempt); err != nil {
		logger.Error(ctx, "failed to record delivery attempt", err, "report", report.ID)
	}

	if sendErr != nil {
		logger.Warn(ctx, "report delivery failed", "report", report.ID, "recipient", user.Email, "error", sendErr)
		if !from.Terminal() {
			if _, err := m.store.TransitionReport(ctx, report.ID, []models.ReportStatus{from}, models.ReportStatusFailed, nil); err != nil {
				return Failed, fmt.Errorf("mark report %s failed: %w", report.ID, err)
			}
		}
		if events.Em != nil {
			events.Em.ReportFailed(report, user.Email, sendErr)
		}
		return Failed, nil
	}

	sentAt := now.UTC()
	applied, err := m.store.TransitionReport(ctx, report.ID, []models.ReportStatus{from}, models.ReportStatusSent, &sentAt)
	if err != nil {
		return Sent, fmt.Errorf("mark report %s sent: %w", report.ID, err)
	}
	if !applied {
		logger.Warn(ctx, "report changed status during delivery", "report", report.ID)
	}

	logger.Info(ctx, "report sent", "report", report.ID, "recipient", user.Email)
	if events.Em != nil {
		events.Em.ReportSent(report, user.Email)
	}
	return Sent, nil
}

// PurgeOlderThan deletes commits fetched strictly before now minus days.
func (m *Manager) PurgeOlderThan(ctx context.Context, days int, now time.Time) (int64, error) {
	if days <= 0 {
		return 0, ErrInvalidDays
	}

	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	deleted, err := m.store.PurgeCommitsOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge commits before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if events.Em != nil {
		events.Em.CommitsPurged(days, deleted)
	}
	return deleted, nil
}

func subjectFor(report models.Report) string {
	date, err := time.Parse(models.ReportDateLayout, report.Date)
	if err != nil {
		return "📊 Daily Work Report — " + report.Date
	}
	return mailer.ReportSubject(date)
}
