package report

import (
	"fmt"
	"time"
)

// Kind selects the default date window for a report.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// DateFormat is the wire format for report dates. Dates are local calendar
// dates, never instants; no timezone conversion happens anywhere in the
// pipeline.
const DateFormat = "2006-01-02"

// ParseKind validates a report kind received from a request.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDaily, KindWeekly, KindMonthly:
		return Kind(s), nil
	case "":
		return KindDaily, nil
	}
	return "", fmt.Errorf("report: unknown kind %q", s)
}

// Label returns the display name for a kind.
func (k Kind) Label() string {
	switch k {
	case KindWeekly:
		return "Weekly"
	case KindMonthly:
		return "Monthly"
	default:
		return "Daily"
	}
}

// DateWindow derives the default start and end dates for a kind.
//
//	daily:   start = end = today
//	weekly:  start = today-6d, end = today (7 days inclusive)
//	monthly: start = today minus one calendar month, end = today
//
// The monthly start keeps the day-of-month, clamped to the last valid day
// when the previous month is shorter (31 Mar -> 28/29 Feb).
func DateWindow(kind Kind, today time.Time) (start, end time.Time) {
	today = truncateDate(today)
	end = today
	switch kind {
	case KindWeekly:
		start = today.AddDate(0, 0, -6)
	case KindMonthly:
		start = monthBack(today)
	default:
		start = today
	}
	return start, end
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monthBack shifts one calendar month back without the normalisation
// time.AddDate applies (which would turn 31 Mar into 3 Mar).
func monthBack(t time.Time) time.Time {
	year, month := t.Year(), t.Month()-1
	if month < time.January {
		month = time.December
		year--
	}
	day := t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
