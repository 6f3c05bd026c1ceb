package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
)

func iv(start, end string, status interviews.Status) interviews.Interview {
	return interviews.Interview{
		Date:      interviews.NewDate(2025, time.March, 11),
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestExhaustedWhenMaxEndReachesSlotEnd(t *testing.T) {
	sched := tuesdaySchedule() // 09:00-10:00
	day := []interviews.Interview{
		iv("09:00", "09:20", interviews.StatusPending),
		iv("09:20", "09:40", interviews.StatusPending),
		iv("09:40", "10:00", interviews.StatusPending),
	}
	assert.True(t, Exhausted(sched, day))
}

func TestNotExhaustedWithRoomLeft(t *testing.T) {
	sched := tuesdaySchedule()
	day := []interviews.Interview{
		iv("09:00", "09:20", interviews.StatusPending),
	}
	assert.False(t, Exhausted(sched, day))
}

func TestCanceledInterviewFreesCapacity(t *testing.T) {
	sched := tuesdaySchedule()
	day := []interviews.Interview{
		iv("09:00", "09:20", interviews.StatusPending),
		iv("09:40", "10:00", interviews.StatusCanceled),
	}
	assert.False(t, Exhausted(sched, day))
}

func TestExhaustedNilSchedule(t *testing.T) {
	assert.False(t, Exhausted(nil, nil))
}

func TestNextFreeStartEmptyDay(t *testing.T) {
	start, ok := NextFreeStart(tuesdaySchedule(), nil, 20)
	require.True(t, ok)
	assert.Equal(t, 9*60, start)
}

func TestNextFreeStartSkipsBookedWindows(t *testing.T) {
	day := []interviews.Interview{
		iv("09:00", "09:20", interviews.StatusPending),
		iv("09:20", "09:40", interviews.StatusPending),
	}
	start, ok := NextFreeStart(tuesdaySchedule(), day, 20)
	require.True(t, ok)
	assert.Equal(t, 9*60+40, start)
}

func TestNextFreeStartReusesCanceledWindow(t *testing.T) {
	day := []interviews.Interview{
		iv("09:00", "09:20", interviews.StatusCanceled),
	}
	start, ok := NextFreeStart(tuesdaySchedule(), day, 20)
	require.True(t, ok)
	assert.Equal(t, 9*60, start)
}

func TestNextFreeStartFullDay(t *testing.T) {
	day := []interviews.Interview{
		iv("09:00", "09:30", interviews.StatusPending),
		iv("09:30", "10:00", interviews.StatusPending),
	}
	_, ok := NextFreeStart(tuesdaySchedule(), day, 20)
	assert.False(t, ok)
}

func TestNextFreeStartGapBetweenBookings(t *testing.T) {
	day := []interviews.Interview{
		iv("09:00", "09:15", interviews.StatusPending),
		iv("09:45", "10:00", interviews.StatusPending),
	}
	start, ok := NextFreeStart(tuesdaySchedule(), day, 20)
	require.True(t, ok)
	assert.Equal(t, 9*60+15, start)
}
