// Package schedule builds the due dates of a credit's installments.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/credit-simulator/pkg/datetime"
)

// Mode is the periodicity model used to space due dates.
type Mode string

const (
	// IntervalDays spaces due dates a fixed number of calendar days apart.
	IntervalDays Mode = "INTERVAL_DAYS"
	// MonthlyCalendar repeats the first payment's day of month every month.
	MonthlyCalendar Mode = "MONTHLY_CALENDAR"
	// SemiMonthly pays on two anchor days of every month.
	SemiMonthly Mode = "SEMI_MONTHLY"
)

// Modes lists every supported schedule mode.
var Modes = []Mode{IntervalDays, MonthlyCalendar, SemiMonthly}

// ParseMode maps a case-insensitive name to a Mode. An empty value selects
// IntervalDays.
func ParseMode(value string) (Mode, error) {
	normalized := Mode(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return IntervalDays, nil
	}
	for _, m := range Modes {
		if m == normalized {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported payment schedule mode %q, expected one of %v", value, Modes)
}

// Params describes how to lay out a schedule.
type Params struct {
	FirstPaymentDate      time.Time
	Installments          int
	Mode                  Mode
	DaysInterval          int
	DayOfMonth            int
	SemiMonthDay1         int
	SemiMonthDay2         int
	UseEndOfMonthFallback bool
}

// BuildDueDates returns Installments due dates starting with FirstPaymentDate.
// Callers must pass a positive installment count.
func BuildDueDates(p Params) []time.Time {
	if p.Installments <= 0 {
		return nil
	}

	first := datetime.TruncateToDate(p.FirstPaymentDate)
	dates := make([]time.Time, 0, p.Installments)
	dates = append(dates, first)
	if p.Installments == 1 {
		return dates
	}

	switch p.Mode {
	case MonthlyCalendar:
		anchor := first.Day()
		for i := 1; i < p.Installments; i++ {
			dates = append(dates, datetime.AddMonthsClamped(first, i, anchor, p.UseEndOfMonthFallback))
		}
	case SemiMonthly:
		prev := first
		for i := 1; i < p.Installments; i++ {
			prev = NextSemiMonthlyDate(prev, p.SemiMonthDay1, p.SemiMonthDay2, p.UseEndOfMonthFallback)
			dates = append(dates, prev)
		}
	default: // IntervalDays
		for i := 1; i < p.Installments; i++ {
			dates = append(dates, first.AddDate(0, 0, i*p.DaysInterval))
		}
	}
	return dates
}

// NextSemiMonthlyDate returns the first anchor date strictly after prev.
// The earlier anchor of the current month is tried first, then the later
// one, then the earlier anchor of the following month. Anchors beyond a
// month's length land on its last day.
func NextSemiMonthlyDate(prev time.Time, day1, day2 int, useFallback bool) time.Time {
	if day1 > day2 {
		day1, day2 = day2, day1
	}
	prev = datetime.TruncateToDate(prev)
	year, month := prev.Year(), prev.Month()

	if candidate := datetime.ClampToMonth(year, month, day1, useFallback); candidate.After(prev) {
		return candidate
	}
	if candidate := datetime.ClampToMonth(year, month, day2, useFallback); candidate.After(prev) {
		return candidate
	}
	return datetime.ClampToMonth(year, month+1, day1, useFallback)
}

// FirstPaymentDateFor returns the first date strictly after disbursement that
// falls on dayOfMonth, clamped to month length.
func FirstPaymentDateFor(disbursement time.Time, dayOfMonth int, useFallback bool) time.Time {
	disbursement = datetime.TruncateToDate(disbursement)
	candidate := datetime.ClampToMonth(disbursement.Year(), disbursement.Month(), dayOfMonth, useFallback)
	if candidate.After(disbursement) {
		return candidate
	}
	return datetime.ClampToMonth(disbursement.Year(), disbursement.Month()+1, dayOfMonth, useFallback)
}
