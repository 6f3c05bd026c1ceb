package schedule

import (
	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

// Exhausted reports whether booked interviews fully occupy the slot
// window: the latest end time among non-canceled interviews has reached
// the weekly slot's end time. Malformed clock values never mark a day
// exhausted; authoritative capacity is re-derived on every load.
func Exhausted(sched *interviews.WeeklySchedule, dayInterviews []interviews.Interview) bool {
	if sched == nil {
		return false
	}
	slotEnd, err := interviews.ClockMinutes(sched.EndTime)
	if err != nil {
		return false
	}

	maxEnd := -1
	for i := range dayInterviews {
		if dayInterviews[i].Status == interviews.StatusCanceled {
			continue
		}
		end, err := interviews.ClockMinutes(dayInterviews[i].EndTime)
		if err != nil {
			continue
		}
		if end > maxEnd {
			maxEnd = end
		}
	}
	return maxEnd >= slotEnd
}

// NextFreeStart returns the earliest start (minutes since midnight) inside
// the slot window where a meeting of durationMinutes fits without
// overlapping a non-canceled interview. ok is false when the day has no
// remaining room.
func NextFreeStart(sched *interviews.WeeklySchedule, dayInterviews []interviews.Interview, durationMinutes int) (int, bool) {
	if sched == nil || durationMinutes <= 0 {
		return 0, false
	}
	slotStart, err := interviews.ClockMinutes(sched.StartTime)
	if err != nil {
		return 0, false
	}
	slotEnd, err := interviews.ClockMinutes(sched.EndTime)
	if err != nil {
		return 0, false
	}

	type window struct{ start, end int }
	var booked []window
	for i := range dayInterviews {
		if dayInterviews[i].Status == interviews.StatusCanceled {
			continue
		}
		s, err1 := interviews.ClockMinutes(dayInterviews[i].StartTime)
		e, err2 := interviews.ClockMinutes(dayInterviews[i].EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		booked = append(booked, window{s, e})
	}

	for candidate := slotStart; candidate+durationMinutes <= slotEnd; {
		bumped := false
		for _, w := range booked {
			if candidate < w.end && candidate+durationMinutes > w.start {
				candidate = w.end
				bumped = true
				break
			}
		}
		if !bumped {
			return candidate, true
		}
	}
	return 0, false
}
