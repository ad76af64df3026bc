package report

import (
	"fmt"
	"strings"
	"time"
)

type Period string

const (
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

var Periods = []Period{Weekly, Monthly, Quarterly, Yearly}

func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case Weekly, Monthly, Quarterly, Yearly:
		return p, nil
	}
	return "", fmt.Errorf("unknown report period %q", s)
}

// FlagColumn is the profile column that opts a user into p.
func (p Period) FlagColumn() string {
	return string(p) + "_report"
}

func (p Period) Title() string {
	switch p {
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Quarterly:
		return "Quarterly"
	case Yearly:
		return "Yearly"
	}
	return string(p)
}

// IsTriggerDay reports whether t (already in the reporting zone) is the
// calendar day p is sent on: Monday, the 1st, a quarter's 1st, or Jan 1.
func IsTriggerDay(p Period, t time.Time) bool {
	switch p {
	case Weekly:
		return t.Weekday() == time.Monday
	case Monthly:
		return t.Day() == 1
	case Quarterly:
		return t.Day() == 1 && (t.Month()-1)%3 == 0
	case Yearly:
		return t.Day() == 1 && t.Month() == time.January
	}
	return false
}

// PreviousWindow returns the last complete period before now as [start, end)
// in now's location.
func PreviousWindow(p Period, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch p {
	case Weekly:
		offset := (int(day.Weekday()) + 6) % 7
		end := day.AddDate(0, 0, -offset)
		return end.AddDate(0, 0, -7), end
	case Monthly:
		end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return end.AddDate(0, -1, 0), end
	case Quarterly:
		qm := time.Month((int(now.Month())-1)/3*3 + 1)
		end := time.Date(now.Year(), qm, 1, 0, 0, 0, 0, loc)
		return end.AddDate(0, -3, 0), end
	default:
		end := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return end.AddDate(-1, 0, 0), end
	}
}

// Label names a window for subjects and filenames, e.g. "2024-Q1".
func Label(p Period, start time.Time) string {
	switch p {
	case Weekly:
		y, w := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case Monthly:
		return start.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	default:
		return start.Format("2006")
	}
}
