package api

import (
	"errors"
	"strconv"
	"strings"

	"dailydigest/internal/core"
	"dailydigest/internal/errmsg"
	"dailydigest/internal/events"
	"dailydigest/internal/lifecycle"
	"dailydigest/internal/mailer"
	"dailydigest/internal/models"
	"dailydigest/internal/operators"
	"dailydigest/internal/store"
	"dailydigest/internal/utils"

	"github.com/gofiber/fiber/v3"
)

const (
	defaultReportLimit = 30
	defaultRecentDays  = 7
)

type reportResponse struct {
	Report     models.Report            `json:"report"`
	Deliveries []models.DeliveryAttempt `json:"deliveries"`
}

type resendResponse struct {
	Outcome lifecycle.SendOutcome `json:"outcome"`
}

type commitsResponse struct {
	Date    string                    `json:"date"`
	Commits []models.NormalizedCommit `json:"commits"`
}

func notFoundAs(err error, se errmsg.StatusError) error {
	if errors.Is(err, store.ErrNotFound) {
		return se
	}
	return errmsg.InternalServerError(err)
}

// ListReportsHandler returns the user's reports, newest first.
// @Summary List reports
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Param limit query int false "Maximum number of reports" default(30)
// @Success 200 {array} models.Report
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId}/reports [get]
func (h *Handler) ListReportsHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	limit := int64(defaultReportLimit)
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return utils.StatusError(c, errmsg.InvalidRequest)
		}
		limit = n
	}

	reports, err := h.store.ListReports(c, user.ID, limit)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(reports)
}

// TodayReportHandler returns the report for the user's local today.
// @Summary Today's report
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} models.Report
// @Failure 404 {object} errmsg._ReportNotFound
// @Router /digest/users/{userId}/reports/today [get]
func (h *Handler) TodayReportHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	date, err := h.today(user)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	report, err := h.store.FindReport(c, user.ID, date)
	if err != nil {
		return utils.ErrorFrom(c, notFoundAs(err, errmsg.ReportNotFound))
	}

	return c.JSON(report)
}

// RecentReportsHandler returns reports from the last ?days local days.
// @Summary Recent reports
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Param days query int false "Number of days including today" default(7)
// @Success 200 {array} models.Report
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId}/reports/recent [get]
func (h *Handler) RecentReportsHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	days := defaultRecentDays
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return utils.StatusError(c, errmsg.InvalidRequest)
		}
		days = n
	}

	loc, err := lifecycle.Location(user.Timezone)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}
	oldest := lifecycle.LocalDate(h.now().In(loc).AddDate(0, 0, -(days - 1)), loc)

	reports, err := h.store.ListReports(c, user.ID, int64(days))
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	recent := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		// dates are ISO formatted, so string order is calendar order
		if r.Date >= oldest {
			recent = append(recent, r)
		}
	}

	return c.JSON(recent)
}

// GetReportHandler returns a report with its delivery history.
// @Summary Get report
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param reportId path string true "Report identifier"
// @Success 200 {object} reportResponse
// @Failure 404 {object} errmsg._ReportNotFound
// @Router /digest/reports/{reportId} [get]
func (h *Handler) GetReportHandler(c fiber.Ctx) error {
	report, err := h.store.GetReport(c, strings.TrimSpace(c.Params("reportId")))
	if err != nil {
		return utils.ErrorFrom(c, notFoundAs(err, errmsg.ReportNotFound))
	}

	deliveries, err := h.store.ListDeliveries(c, report.ID)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(reportResponse{Report: report, Deliveries: deliveries})
}

// ResendReportHandler retries delivery of a failed report.
// @Summary Resend report
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param reportId path string true "Report identifier"
// @Success 200 {object} resendResponse
// @Failure 404 {object} errmsg._ReportNotFound
// @Failure 409 {object} errmsg._ReportNotResendable
// @Router /digest/reports/{reportId}/resend [post]
func (h *Handler) ResendReportHandler(c fiber.Ctx) error {
	report, err := h.store.GetReport(c, strings.TrimSpace(c.Params("reportId")))
	if err != nil {
		return utils.ErrorFrom(c, notFoundAs(err, errmsg.ReportNotFound))
	}

	user, err := h.store.GetUser(c, report.UserID)
	if err != nil {
		return utils.ErrorFrom(c, notFoundAs(err, errmsg.UserNotFound))
	}

	outcome, err := h.resender.Resend(c, user, report.ID)
	switch {
	case errors.Is(err, lifecycle.ErrReportNotFound):
		return utils.StatusError(c, errmsg.ReportNotFound)
	case errors.Is(err, lifecycle.ErrNotResendable):
		return utils.StatusError(c, errmsg.ReportNotResendable)
	case err != nil:
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	if events.Em != nil {
		events.Em.ReportResent(report, operators.Current(c), outcome == lifecycle.Sent)
	}

	return c.JSON(resendResponse{Outcome: outcome})
}

// TodayCommitsHandler lists the commits stored for the user's local today.
// @Summary Today's commits
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} commitsResponse
// @Failure 404 {object} errmsg._UserNotFound
// @Router /digest/users/{userId}/commits/today [get]
func (h *Handler) TodayCommitsHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	date, err := h.today(user)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	loc, _ := lifecycle.Location(user.Timezone)
	since, until, err := core.DayWindow(date, loc)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	commits, err := h.store.ListCommitsBetween(c, user.ID, since, until)
	if err != nil {
		return utils.StatusError(c, errmsg.InternalServerError(err))
	}

	return c.JSON(commitsResponse{Date: date, Commits: commits})
}

// TestEmailHandler sends a test message to the user's address.
// @Summary Send test email
// @Tags Digest Reports
// @Security OperatorAuth
// @Produce json
// @Param userId path string true "User identifier"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} errmsg._UserNotFound
// @Failure 503 {object} errmsg._MailerNotConfigured
// @Router /digest/users/{userId}/test-email [post]
func (h *Handler) TestEmailHandler(c fiber.Ctx) error {
	user, err := h.loadUser(c)
	if err != nil {
		return utils.ErrorFrom(c, err)
	}

	err = h.transport.Send(c, mailer.TestMessage(user.Email))
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		return utils.StatusError(c, errmsg.MailerNotConfigured)
	case err != nil:
		se := errmsg.MailDeliveryFailed
		se.Message += ": " + err.Error()
		return utils.StatusError(c, se)
	}

	return c.JSON(StatusResponse{Status: "sent"})
}
