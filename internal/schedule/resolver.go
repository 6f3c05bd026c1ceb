// Package schedule computes booking eligibility against one weekly
// recurring slot. Everything here is a pure function of its inputs; the
// exclusion set is supplied by callers, never fetched.
package schedule

import (
	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// DefaultHorizonDays bounds the forward search when the caller does not
// specify one.
const DefaultHorizonDays = 14

// MaxHorizonDays is the largest horizon a caller may request.
const MaxHorizonDays = 21

// DateSet is an exclusion set of calendar days.
type DateSet map[interviews.Date]struct{}

// NewDateSet builds a set from the given days.
func NewDateSet(dates ...interviews.Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts a day into the set.
func (s DateSet) Add(d interviews.Date) { s[d] = struct{}{} }

// Contains reports membership.
func (s DateSet) Contains(d interviews.Date) bool {
	_, ok := s[d]
	return ok
}

// NextEligible returns the first calendar day after today that the guardian
// may book against the owner's weekly slot, skipping excluded days. It
// fails closed: a nil schedule yields no date, and an exhausted horizon
// yields no date rather than an out-of-policy fallback.
func NextEligible(sched *interviews.WeeklySchedule, today interviews.Date, horizonDays int, excluded DateSet) (interviews.Date, bool) {
	dates := EligibleDates(sched, today, horizonDays, excluded, 1)
	if len(dates) == 0 {
		return interviews.Date{}, false
	}
	return dates[0], true
}

// EligibleDates returns up to max eligible days within the horizon, in
// chronological order. max <= 0 means no limit.
func EligibleDates(sched *interviews.WeeklySchedule, today interviews.Date, horizonDays int, excluded DateSet, max int) []interviews.Date {
	if sched == nil {
		return nil
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if horizonDays > MaxHorizonDays {
		horizonDays = MaxHorizonDays
	}

	var out []interviews.Date
	for i := 1; i <= horizonDays; i++ {
		d := today.AddDays(i)
		if d.Weekday() != sched.Weekday {
			continue
		}
		// The weekday check already excludes weekends for any weekday
		// slot; kept explicit so a malformed schedule can never leak a
		// Saturday or Sunday.
		if d.IsWeekend() {
			continue
		}
		if excluded.Contains(d) {
			continue
		}
		out = append(out, d)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// Exclusions assembles the resolver's exclusion set from the standard
// local sources: the guardian's own non-canceled bookings and any
// capacity-exhausted days. Past days and weekends need no entry; the
// resolver never proposes them.
func Exclusions(guardianBookings []interviews.Interview, exhausted ...interviews.Date) DateSet {
	s := NewDateSet(exhausted...)
	for i := range guardianBookings {
		if guardianBookings[i].Status == interviews.StatusCanceled {
			continue
		}
		s.Add(guardianBookings[i].Date)
	}
	return s
}
