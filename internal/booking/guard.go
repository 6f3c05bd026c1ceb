package booking

import (
	"errors"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// Conflict classifies a candidate booking against the guardian's existing
// interviews on the same date.
type Conflict int

const (
	// ConflictNone: nothing else booked that day.
	ConflictNone Conflict = iota

	// ConflictSoft: another interview exists that day with a different
	// owner or subject. Submission proceeds, and a duplicate rejection is
	// retried exactly once with the override flag.
	ConflictSoft

	// ConflictHard: same date, owner and subject already booked and not
	// canceled. Blocked locally; no create call is made.
	ConflictHard
)

// String returns the metric label for the conflict kind.
func (c Conflict) String() string {
	switch c {
	case ConflictSoft:
		return "soft"
	case ConflictHard:
		return "hard"
	default:
		return "none"
	}
}

// Pre-submission validation errors. All block before any network call.
var (
	ErrDateNotFuture   = errors.New("date must be after today")
	ErrWeekendDate     = errors.New("weekends are not bookable")
	ErrWeekdayMismatch = errors.New("date does not match the weekly slot")
	ErrHardConflict    = errors.New("already booked with this owner and subject on that date")
)

// CheckConflict classifies the candidate (owner, subject, date) tuple
// against the guardian's existing interviews. Canceled interviews never
// conflict.
func CheckConflict(existing []interviews.Interview, owner interviews.OwnerRef, subjectID string, date interviews.Date) Conflict {
	conflict := ConflictNone
	for i := range existing {
		if existing[i].Status == interviews.StatusCanceled {
			continue
		}
		if existing[i].Date != date {
			continue
		}
		if existing[i].Owner == owner && existing[i].SubjectID == subjectID {
			return ConflictHard
		}
		conflict = ConflictSoft
	}
	return conflict
}

// ValidateDate checks a candidate day against the slot and the calendar.
// The same checks run whether the schedule was known at selection time or
// arrived later; a held selection is re-validated on schedule arrival.
func ValidateDate(sched *interviews.WeeklySchedule, date, today interviews.Date) error {
	if sched == nil {
		return interviews.ErrNoSchedule
	}
	if !date.After(today) {
		return ErrDateNotFuture
	}
	if date.IsWeekend() {
		return ErrWeekendDate
	}
	if date.Weekday() != sched.Weekday {
		return ErrWeekdayMismatch
	}
	return nil
}
