package lifecycle

import (
	"fmt"
	"time"

	"dailydigest/internal/models"
)

const reportTimeLayout = "15:04"

// ParseReportTime validates an HH:MM report time and returns its offset from midnight.
func ParseReportTime(reportTime string) (time.Duration, error) {
	t, err := time.Parse(reportTimeLayout, reportTime)
	if err != nil {
		return 0, fmt.Errorf("invalid report time %q: %w", reportTime, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// SendDate decides whether now falls on the user's report time and, if so,
// which local date's report is due.
//
// A window of a minute or less requires the local HH:MM to equal reportTime.
// Wider windows match any local time in [reportTime, reportTime+window); a
// window that runs past midnight still targets the day it opened on.
func SendDate(now time.Time, loc *time.Location, reportTime string, window time.Duration) (string, bool, error) {
	at, err := ParseReportTime(reportTime)
	if err != nil {
		return "", false, err
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	date := local.Format(models.ReportDateLayout)

	if window <= time.Minute {
		return date, local.Format(reportTimeLayout) == reportTimeOf(at), nil
	}

	sinceMidnight := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())

	elapsed := sinceMidnight - at
	if elapsed < 0 {
		elapsed += 24 * time.Hour
		date = local.AddDate(0, 0, -1).Format(models.ReportDateLayout)
	}

	return date, elapsed < window, nil
}

// LocalDate is the user's calendar date at now.
func LocalDate(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(models.ReportDateLayout)
}

// Location resolves a user's IANA timezone, defaulting to UTC when unset.
func Location(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func reportTimeOf(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
