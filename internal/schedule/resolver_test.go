package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

func tuesdaySchedule() *interviews.WeeklySchedule {
	return &interviews.WeeklySchedule{
		Owner:     interviews.OwnerRef{Kind: interviews.OwnerEducator, ID: "e1"},
		Weekday:   time.Tuesday,
		StartTime: "09:00",
		EndTime:   "10:00",
		SubjectID: "math",
	}
}

func TestNextEligibleSkipsToSlotWeekday(t *testing.T) {
	// Schedule is Tuesday, today is Monday 2025-03-10: the first eligible
	// date is the next day's Tuesday, never "tomorrow" in general.
	today := interviews.NewDate(2025, time.March, 10) // Monday

	d, ok := NextEligible(tuesdaySchedule(), today, DefaultHorizonDays, nil)
	require.True(t, ok)
	assert.Equal(t, "2025-03-11", d.String())
	assert.Equal(t, time.Tuesday, d.Weekday())
}

func TestNextEligibleNeverSameDay(t *testing.T) {
	today := interviews.NewDate(2025, time.March, 11) // Tuesday

	d, ok := NextEligible(tuesdaySchedule(), today, DefaultHorizonDays, nil)
	require.True(t, ok)
	assert.Equal(t, "2025-03-18", d.String())
}

func TestNextEligibleFailsClosedWithoutSchedule(t *testing.T) {
	today := interviews.NewDate(2025, time.March, 10)
	_, ok := NextEligible(nil, today, DefaultHorizonDays, nil)
	assert.False(t, ok)
}

func TestNextEligibleHonorsExclusions(t *testing.T) {
	today := interviews.NewDate(2025, time.March, 10)
	excluded := NewDateSet(interviews.NewDate(2025, time.March, 11))

	d, ok := NextEligible(tuesdaySchedule(), today, DefaultHorizonDays, excluded)
	require.True(t, ok)
	assert.Equal(t, "2025-03-18", d.String())
}

func TestNextEligibleExhaustedHorizon(t *testing.T) {
	today := interviews.NewDate(2025, time.March, 10)
	excluded := NewDateSet(
		interviews.NewDate(2025, time.March, 11),
		interviews.NewDate(2025, time.March, 18),
	)

	_, ok := NextEligible(tuesdaySchedule(), today, 10, excluded)
	assert.False(t, ok)
}

func TestEligibleDatesAllWithinPolicy(t *testing.T) {
	today := interviews.NewDate(2025, time.March, 10)

	dates := EligibleDates(tuesdaySchedule(), today, MaxHorizonDays, nil, 0)
	require.NotEmpty(t, dates)
	for _, d := range dates {
		assert.Equal(t, time.Tuesday, d.Weekday())
		assert.False(t, d.IsWeekend())
		assert.True(t, d.After(today))
	}
}

func TestEligibleDatesRejectsWeekendSlot(t *testing.T) {
	sched := tuesdaySchedule()
	sched.Weekday = time.Saturday
	today := interviews.NewDate(2025, time.March, 10)

	dates := EligibleDates(sched, today, MaxHorizonDays, nil, 0)
	assert.Empty(t, dates)
}

func TestEligibleDatesClampsHorizon(t *testing.T) {
	today := interviews.NewDate(2025, time.March, 10)

	dates := EligibleDates(tuesdaySchedule(), today, 90, nil, 0)
	// 21-day clamp leaves exactly three Tuesdays.
	assert.Len(t, dates, 3)
}

func TestExclusionsSkipCanceled(t *testing.T) {
	booked := []interviews.Interview{
		{Date: interviews.NewDate(2025, time.March, 11), Status: interviews.StatusPending},
		{Date: interviews.NewDate(2025, time.March, 18), Status: interviews.StatusCanceled},
	}
	exhausted := interviews.NewDate(2025, time.March, 25)

	s := Exclusions(booked, exhausted)
	assert.True(t, s.Contains(interviews.NewDate(2025, time.March, 11)))
	assert.False(t, s.Contains(interviews.NewDate(2025, time.March, 18)))
	assert.True(t, s.Contains(exhausted))
}
